package domain

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is a time × depth matrix of one measured quantity.
type Grid struct {
	Name  string
	Units string
	data  *mat.Dense
}

// NewGrid builds a rows × cols grid from row-major values. The values are copied.
func NewGrid(name, units string, rows, cols int, values []float64) Grid {
	buf := make([]float64, len(values))
	copy(buf, values)
	return Grid{Name: name, Units: units, data: mat.NewDense(rows, cols, buf)}
}

// Dims returns the number of time samples and depth bins.
func (g Grid) Dims() (times, depths int) {
	if g.data == nil {
		return 0, 0
	}
	return g.data.Dims()
}

// At returns the value at time index t and depth index d.
func (g Grid) At(t, d int) float64 { return g.data.At(t, d) }

// Column returns a copy of the time series at depth index d.
func (g Grid) Column(d int) []float64 { return mat.Col(nil, d, g.data) }

// RemoveColumns returns a new grid without the depth positions in set.
func (g Grid) RemoveColumns(set BinSet) Grid {
	rows, cols := g.Dims()
	keep := set.Keep(cols)
	out := mat.NewDense(rows, len(keep), nil)
	for j, c := range keep {
		out.SetCol(j, mat.Col(nil, c, g.data))
	}
	return Grid{Name: g.Name, Units: g.Units, data: out}
}

func (g Grid) transpose() Grid {
	return Grid{Name: g.Name, Units: g.Units, data: mat.DenseCopyOf(g.data.T())}
}

// MaskedGrid is a Grid with a per-cell validity mask. Masked cells keep
// their position in the grid and read as NaN through At and Column.
type MaskedGrid struct {
	Grid
	masked []bool
}

// Mask flags every cell of g whose magnitude is at least threshold, or that
// is not finite.
func Mask(g Grid, threshold float64) MaskedGrid {
	rows, cols := g.Dims()
	return MaskedGrid{Grid: g, masked: make([]bool, rows*cols)}.Mask(threshold)
}

// Mask returns a copy with cells at or above threshold flagged in addition to
// those already masked. Applying the same threshold twice yields the same mask.
func (m MaskedGrid) Mask(threshold float64) MaskedGrid {
	rows, cols := m.Dims()
	out := MaskedGrid{Grid: m.Grid, masked: make([]bool, rows*cols)}
	copy(out.masked, m.masked)
	for t := 0; t < rows; t++ {
		for d := 0; d < cols; d++ {
			v := m.Grid.At(t, d)
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= threshold {
				out.masked[t*cols+d] = true
			}
		}
	}
	return out
}

// Valid reports whether the cell at (t, d) is unmasked.
func (m MaskedGrid) Valid(t, d int) bool {
	_, cols := m.Dims()
	return !m.masked[t*cols+d]
}

// At returns the value at (t, d), or NaN when the cell is masked.
func (m MaskedGrid) At(t, d int) float64 {
	if !m.Valid(t, d) {
		return math.NaN()
	}
	return m.Grid.At(t, d)
}

// Column returns the time series at depth index d with masked samples as NaN.
func (m MaskedGrid) Column(d int) []float64 {
	col := m.Grid.Column(d)
	for t := range col {
		if !m.Valid(t, d) {
			col[t] = math.NaN()
		}
	}
	return col
}

// MaskedCount returns the number of masked cells.
func (m MaskedGrid) MaskedCount() int {
	n := 0
	for _, masked := range m.masked {
		if masked {
			n++
		}
	}
	return n
}

// ValidValues returns the unmasked values in row-major order.
func (m MaskedGrid) ValidValues() []float64 {
	rows, cols := m.Dims()
	out := make([]float64, 0, rows*cols-m.MaskedCount())
	for t := 0; t < rows; t++ {
		for d := 0; d < cols; d++ {
			if m.Valid(t, d) {
				out = append(out, m.Grid.At(t, d))
			}
		}
	}
	return out
}
