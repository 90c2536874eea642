//go:build libnetcdf

package libnetcdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// errNotVar is NC_ENOTVAR from netcdf.h.
const errNotVar = netcdf.Error(-49)

// Available reports whether this build links the C netCDF library.
const Available = true

// Reader extracts a dataset through the C netCDF library.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	vars   domain.VariableNames
	logger *slog.Logger
}

// NewReader creates a Reader for path.
func NewReader(path string, vars domain.VariableNames, logger *slog.Logger) (*Reader, error) {
	return &Reader{path: path, vars: vars, logger: logger}, nil
}

// Extract opens the file read-only, reads the five configured variables and
// closes the file before returning.
func (r *Reader) Extract(ctx context.Context) (ds domain.Dataset, err error) {
	// The C library reports a missing file as a bare errno; stat first so
	// callers can match fs.ErrNotExist.
	if _, err := os.Stat(r.path); err != nil {
		return domain.Dataset{}, fmt.Errorf("open %s: %w", r.path, err)
	}
	nc, err := netcdf.OpenFile(r.path, netcdf.NOWRITE)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer func() {
		if cerr := nc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", r.path, cerr)
		}
	}()

	names := r.vars.List()
	arrays := make([]domain.Array, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}
		a, err := readArray(nc, name)
		if err != nil {
			return domain.Dataset{}, err
		}
		r.logger.Debug("variable read", "variable", name, "shape", a.Shape, "units", a.Units)
		arrays[i] = a
	}
	return domain.NewDataset(arrays[0], arrays[1], arrays[2], arrays[3], arrays[4])
}

func readArray(nc netcdf.Dataset, name string) (domain.Array, error) {
	v, err := nc.Var(name)
	if errors.Is(err, errNotVar) {
		return domain.Array{}, &domain.MissingVariableError{Variable: name}
	}
	if err != nil {
		return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
	}

	dims, err := v.Dims()
	if err != nil {
		return domain.Array{}, fmt.Errorf("read variable %q dimensions: %w", name, err)
	}
	a := domain.Array{Name: name, Units: units(v)}
	for _, d := range dims {
		dimName, err := d.Name()
		if err != nil {
			return domain.Array{}, fmt.Errorf("read variable %q dimensions: %w", name, err)
		}
		n, err := d.Len()
		if err != nil {
			return domain.Array{}, fmt.Errorf("read variable %q dimensions: %w", name, err)
		}
		a.Dims = append(a.Dims, dimName)
		a.Shape = append(a.Shape, int(n))
	}

	if a.Data, err = readValues(v); err != nil {
		return domain.Array{}, fmt.Errorf("read variable %q: %w", name, err)
	}
	return a, nil
}

type number interface {
	~float32 | ~float64 | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func widen[T number](vals []T, err error) ([]float64, error) {
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, x := range vals {
		out[i] = float64(x)
	}
	return out, nil
}

func readValues(v netcdf.Var) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, err
	}
	switch t {
	case netcdf.DOUBLE:
		return netcdf.GetFloat64s(v)
	case netcdf.FLOAT:
		return widen(netcdf.GetFloat32s(v))
	case netcdf.INT64:
		return widen(netcdf.GetInt64s(v))
	case netcdf.INT:
		return widen(netcdf.GetInt32s(v))
	case netcdf.SHORT:
		return widen(netcdf.GetInt16s(v))
	case netcdf.BYTE:
		return widen(netcdf.GetInt8s(v))
	case netcdf.UBYTE:
		return widen(netcdf.GetUint8s(v))
	case netcdf.USHORT:
		return widen(netcdf.GetUint16s(v))
	default:
		return nil, fmt.Errorf("unsupported variable type %v", t)
	}
}

// units reads the text "units" attribute, or "" when it is absent or not text.
func units(v netcdf.Var) string {
	a := v.Attr("units")
	t, err := a.Type()
	if err != nil || t != netcdf.CHAR {
		return ""
	}
	b, err := netcdf.GetBytes(a)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(b), "\x00")
}
