// Package nativecdf reads mooring files with the pure-Go NetCDF decoder. It
// handles classic CDF and NetCDF-4/HDF5 files and needs no C toolchain.
package nativecdf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// Reader extracts a dataset from one NetCDF file.
// It implements pipeline.Extractor.
type Reader struct {
	path         string
	vars         domain.VariableNames
	chunkRecords int64
	logger       *slog.Logger
}

// NewReader creates a Reader for path. When chunkRecords is positive, each
// variable is pulled chunkRecords outer-dimension records at a time instead
// of in one read.
func NewReader(path string, vars domain.VariableNames, chunkRecords int, logger *slog.Logger) *Reader {
	return &Reader{
		path:         path,
		vars:         vars,
		chunkRecords: int64(chunkRecords),
		logger:       logger,
	}
}

// Extract opens the file, reads the five configured variables and closes the
// file before returning.
func (r *Reader) Extract(ctx context.Context) (domain.Dataset, error) {
	g, err := netcdf.Open(r.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer g.Close()

	present := make(map[string]struct{})
	for _, name := range g.ListVariables() {
		present[name] = struct{}{}
	}

	names := r.vars.List()
	arrays := make([]domain.Array, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}
		if _, ok := present[name]; !ok {
			return domain.Dataset{}, &domain.MissingVariableError{Variable: name}
		}
		a, err := r.read(g, name)
		if err != nil {
			return domain.Dataset{}, err
		}
		r.logger.Debug("variable read", "variable", name, "shape", a.Shape, "units", a.Units)
		arrays[i] = a
	}

	return domain.NewDataset(arrays[0], arrays[1], arrays[2], arrays[3], arrays[4])
}

func (r *Reader) read(g api.Group, name string) (domain.Array, error) {
	if r.chunkRecords > 0 {
		return r.readChunked(g, name)
	}
	v, err := g.GetVariable(name)
	if err != nil {
		return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
	}
	data, shape, err := flatten(v.Values)
	if err != nil {
		return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
	}
	return domain.Array{
		Name:  name,
		Units: units(v.Attributes),
		Dims:  v.Dimensions,
		Shape: shape,
		Data:  data,
	}, nil
}

// readChunked pulls the variable in blocks along its outermost dimension.
func (r *Reader) readChunked(g api.Group, name string) (domain.Array, error) {
	vg, err := g.GetVarGetter(name)
	if err != nil {
		return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
	}

	if len(vg.Dimensions()) == 0 {
		// Scalars are not sliceable.
		values, err := vg.Values()
		if err != nil {
			return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
		}
		data, shape, err := flatten(values)
		if err != nil {
			return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
		}
		return domain.Array{Name: name, Units: units(vg.Attributes()), Shape: shape, Data: data}, nil
	}

	total := vg.Len()
	var (
		data  []float64
		shape []int
	)
	for begin := int64(0); begin < total; begin += r.chunkRecords {
		end := min(begin+r.chunkRecords, total)
		chunk, err := vg.GetSlice(begin, end)
		if err != nil {
			return domain.Array{}, fmt.Errorf("read variable %q records [%d, %d): %w", name, begin, end, err)
		}
		values, chunkShape, err := flatten(chunk)
		if err != nil {
			return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
		}
		if shape == nil {
			shape = chunkShape
		} else if len(chunkShape) > 0 {
			shape[0] += chunkShape[0]
		}
		data = append(data, values...)
	}
	r.logger.Debug("variable read in chunks", "variable", name, "records", total, "chunk_records", r.chunkRecords)

	return domain.Array{
		Name:  name,
		Units: units(vg.Attributes()),
		Dims:  vg.Dimensions(),
		Shape: shape,
		Data:  data,
	}, nil
}

// units returns the "units" attribute, or "" when the variable has none.
func units(attrs api.AttributeMap) string {
	if attrs == nil {
		return ""
	}
	v, ok := attrs.Get("units")
	if !ok {
		return ""
	}
	switch u := v.(type) {
	case string:
		return u
	case []byte:
		return string(u)
	default:
		return fmt.Sprint(u)
	}
}
