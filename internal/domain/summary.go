package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the unmasked values of a grid.
type Summary struct {
	Valid  int
	Masked int
	Min    float64
	Max    float64
	Mean   float64
}

// Summarize computes statistics over unmasked cells only. A fully masked
// grid yields NaN for Min, Max and Mean.
func Summarize(m MaskedGrid) Summary {
	values := m.ValidValues()
	s := Summary{Valid: len(values), Masked: m.MaskedCount()}
	if len(values) == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean = stat.Mean(values, nil)
	return s
}
