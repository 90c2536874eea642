package nativecdf

import (
	"errors"
	"fmt"
	"reflect"
)

var errRagged = errors.New("ragged nested slice")

// flatten converts the nested slices the decoder returns ([]float32,
// [][]float64, [][][][]int16, ...) into row-major float64 values and the
// shape they were nested in. A bare number has an empty shape.
func flatten(values any) ([]float64, []int, error) {
	rv := reflect.ValueOf(values)
	if !rv.IsValid() {
		return nil, nil, errors.New("variable has no values")
	}

	var shape []int
	for t := rv; t.Kind() == reflect.Slice; t = t.Index(0) {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
	}

	n := 1
	for _, s := range shape {
		n *= s
	}
	out := make([]float64, 0, n)
	out, err := appendValues(out, rv, shape, 0)
	if err != nil {
		return nil, nil, err
	}
	return out, shape, nil
}

func appendValues(dst []float64, rv reflect.Value, shape []int, depth int) ([]float64, error) {
	if rv.Kind() == reflect.Slice {
		if depth >= len(shape) || rv.Len() != shape[depth] {
			return nil, errRagged
		}
		var err error
		for i := 0; i < rv.Len(); i++ {
			if dst, err = appendValues(dst, rv.Index(i), shape, depth+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	}
	if depth != len(shape) {
		return nil, errRagged
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return append(dst, rv.Float()), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return append(dst, float64(rv.Int())), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return append(dst, float64(rv.Uint())), nil
	default:
		return nil, fmt.Errorf("non-numeric values of type %s", rv.Type())
	}
}
