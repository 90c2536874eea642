package domain

import (
	"fmt"
	"strings"
	"time"
)

// Array is a numeric variable as read from a source file: row-major values,
// the dimension names and lengths they were stored with, and the units attribute.
type Array struct {
	Name  string
	Units string
	Dims  []string
	Shape []int
	Data  []float64
}

// Squeeze returns a copy of the array with every length-1 dimension removed.
// The data slice is shared; squeezing never reorders values.
func (a Array) Squeeze() Array {
	out := Array{Name: a.Name, Units: a.Units, Data: a.Data}
	for i, n := range a.Shape {
		if n == 1 {
			continue
		}
		out.Shape = append(out.Shape, n)
		if i < len(a.Dims) {
			out.Dims = append(out.Dims, a.Dims[i])
		}
	}
	return out
}

// Rank returns the number of dimensions.
func (a Array) Rank() int { return len(a.Shape) }

// Axis is a one-dimensional coordinate variable such as time or depth.
type Axis struct {
	Name   string
	Units  string
	Values []float64
}

// Len returns the number of coordinate values.
func (a Axis) Len() int { return len(a.Values) }

// Remove returns the axis without the positions in set.
func (a Axis) Remove(set BinSet) Axis {
	keep := set.Keep(len(a.Values))
	values := make([]float64, len(keep))
	for i, pos := range keep {
		values[i] = a.Values[pos]
	}
	return Axis{Name: a.Name, Units: a.Units, Values: values}
}

// Dataset is one measurement series read from a mooring file.
type Dataset struct {
	Time        Axis
	Depth       Axis
	U           Grid
	V           Grid
	PercentGood Grid
}

// CleanedDataset is the output of Clean: the reduced depth axis, the reduced
// grids and masked velocity grids, all aligned on the same time × depth shape.
type CleanedDataset struct {
	Time        Axis
	Depth       Axis
	U           Grid
	V           Grid
	PercentGood Grid
	UMasked     MaskedGrid
	VMasked     MaskedGrid

	RemovedBins []int
	CleanedAt   time.Time
}

// maxRank is the highest rank a variable may have once squeezed.
const maxRank = 3

// NewDataset squeezes and validates the five arrays read from a mooring file
// and orients every data array as time × depth.
func NewDataset(timeArr, depthArr, u, v, pg Array) (Dataset, error) {
	timeAxis, err := newAxis(timeArr)
	if err != nil {
		return Dataset{}, err
	}
	depthAxis, err := newAxis(depthArr)
	if err != nil {
		return Dataset{}, err
	}
	if timeAxis.Len() == 0 {
		return Dataset{}, &DataShapeError{Variable: timeArr.Name, Shape: timeArr.Shape, Want: "at least one time sample"}
	}
	if depthAxis.Len() == 0 {
		return Dataset{}, &DataShapeError{Variable: depthArr.Name, Shape: depthArr.Shape, Want: "at least one depth bin"}
	}

	nt, nd := timeAxis.Len(), depthAxis.Len()
	grids := make([]Grid, 3)
	for i, arr := range []Array{u, v, pg} {
		g, err := orient(arr, nt, nd)
		if err != nil {
			return Dataset{}, err
		}
		grids[i] = g
	}

	return Dataset{
		Time:        timeAxis,
		Depth:       depthAxis,
		U:           grids[0],
		V:           grids[1],
		PercentGood: grids[2],
	}, nil
}

func newAxis(a Array) (Axis, error) {
	sq := a.Squeeze()
	if sq.Rank() > 1 {
		return Axis{}, &DataShapeError{Variable: a.Name, Shape: a.Shape, Want: "a one-dimensional coordinate"}
	}
	values := make([]float64, len(sq.Data))
	copy(values, sq.Data)
	return Axis{Name: a.Name, Units: a.Units, Values: values}, nil
}

// orient squeezes a data array and returns it as an nt × nd grid, transposing
// arrays stored depth-first. When nt == nd the dimension names decide.
func orient(a Array, nt, nd int) (Grid, error) {
	sq := a.Squeeze()
	want := fmt.Sprintf("[%d %d] (time, depth) or [%d %d] (depth, time)", nt, nd, nd, nt)
	if sq.Rank() > maxRank {
		return Grid{}, &DataShapeError{Variable: a.Name, Shape: a.Shape, Want: fmt.Sprintf("rank <= %d after squeeze", maxRank)}
	}
	if size(sq.Shape) != len(sq.Data) {
		return Grid{}, &DataShapeError{Variable: a.Name, Shape: a.Shape, Want: fmt.Sprintf("a shape holding its %d values", len(sq.Data))}
	}

	switch sq.Rank() {
	case 1:
		// A single ensemble squeezes down to the depth dimension.
		if nt == 1 && sq.Shape[0] == nd {
			return NewGrid(a.Name, a.Units, nt, nd, sq.Data), nil
		}
	case 2:
		rows, cols := sq.Shape[0], sq.Shape[1]
		depthFirst := len(sq.Dims) == 2 && isDepthDim(sq.Dims[0])
		switch {
		case rows == nt && cols == nd && !(nt == nd && depthFirst):
			return NewGrid(a.Name, a.Units, nt, nd, sq.Data), nil
		case rows == nd && cols == nt:
			return NewGrid(a.Name, a.Units, nd, nt, sq.Data).transpose(), nil
		}
	}
	return Grid{}, &DataShapeError{Variable: a.Name, Shape: a.Shape, Want: want}
}

func size(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

func isDepthDim(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "depth") || strings.Contains(name, "bin")
}

// VariableNames are the file variables a source reads for one dataset.
type VariableNames struct {
	Time        string `yaml:"time" validate:"required"`
	Depth       string `yaml:"depth" validate:"required"`
	U           string `yaml:"u" validate:"required"`
	V           string `yaml:"v" validate:"required"`
	PercentGood string `yaml:"percent_good" validate:"required"`
}

// DefaultVariableNames returns the EPIC names used in BIO mooring files.
func DefaultVariableNames() VariableNames {
	return VariableNames{
		Time:        "time",
		Depth:       "depth",
		U:           "u_1205",
		V:           "v_1206",
		PercentGood: "PGd_1203",
	}
}

// List returns the names in the order NewDataset takes them.
func (n VariableNames) List() []string {
	return []string{n.Time, n.Depth, n.U, n.V, n.PercentGood}
}
