package nativecdf

import (
	"errors"
	"fmt"
	"sort"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
)

// Variable is one variable for WriteFile. Values is a nested slice whose
// nesting matches Dims.
type Variable struct {
	Name   string
	Dims   []string
	Values any
	Attrs  map[string]any
}

// WriteFile writes a classic CDF file holding vars and the global attributes.
func WriteFile(path string, globals map[string]any, vars ...Variable) (err error) {
	w, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	if len(globals) > 0 {
		attrs, err := attributeMap(globals)
		if err != nil {
			return fmt.Errorf("global attributes: %w", err)
		}
		if err := w.AddGlobalAttrs(attrs); err != nil {
			return fmt.Errorf("global attributes: %w", err)
		}
	}

	for _, v := range vars {
		attrs, err := attributeMap(v.Attrs)
		if err != nil {
			return fmt.Errorf("attributes of %q: %w", v.Name, err)
		}
		if err := w.AddVar(v.Name, api.Variable{
			Values:     v.Values,
			Dimensions: v.Dims,
			Attributes: attrs,
		}); err != nil {
			return fmt.Errorf("add variable %q: %w", v.Name, err)
		}
	}
	return nil
}

func attributeMap(m map[string]any) (*util.OrderedMap, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return util.NewOrderedMap(keys, m)
}
