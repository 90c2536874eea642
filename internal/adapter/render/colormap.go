package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/couchcryptid/moored-adcp-plots/internal/config"
)

// paletteSize is the number of discrete colours sampled for heat maps.
const paletteSize = 256

// NewColorMap returns the named colour map spanning [min, max].
func NewColorMap(name string, min, max float64) (palette.ColorMap, error) {
	var cm palette.ColorMap
	switch name {
	case config.ColorMapJet, "":
		cm = &Jet{alpha: 1}
	case config.ColorMapBlueRed:
		cm = moreland.SmoothBlueRed()
	case config.ColorMapBlackBody:
		cm = moreland.BlackBody()
	default:
		return nil, fmt.Errorf("unknown colour map %q", name)
	}
	if !(max > min) {
		return nil, fmt.Errorf("colour map %s: max %g must exceed min %g", name, max, min)
	}
	cm.SetMax(max)
	cm.SetMin(min)
	return cm, nil
}

// knot is one control point of a piecewise-linear colour channel.
type knot struct{ at, v float64 }

var (
	jetRed   = []knot{{0, 0}, {0.35, 0}, {0.66, 1}, {0.89, 1}, {1, 0.5}}
	jetGreen = []knot{{0, 0}, {0.125, 0}, {0.375, 1}, {0.64, 1}, {0.91, 0}, {1, 0}}
	jetBlue  = []knot{{0, 0.5}, {0.11, 1}, {0.34, 1}, {0.65, 0}, {1, 0}}
)

// Jet is the classic rainbow map running dark blue, cyan, yellow, dark red.
type Jet struct {
	min, max, alpha float64
}

var _ palette.ColorMap = (*Jet)(nil)

// At implements palette.ColorMap.
func (j *Jet) At(v float64) (color.Color, error) {
	switch {
	case j.max <= j.min:
		return nil, fmt.Errorf("jet: max %g not above min %g", j.max, j.min)
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < j.min:
		return nil, palette.ErrUnderflow
	case v > j.max:
		return nil, palette.ErrOverflow
	}
	s := (v - j.min) / (j.max - j.min)
	a := j.alpha
	return color.NRGBA{
		R: channel(jetRed, s),
		G: channel(jetGreen, s),
		B: channel(jetBlue, s),
		A: uint8(math.Round(a * 255)),
	}, nil
}

func channel(knots []knot, s float64) uint8 {
	for i := 1; i < len(knots); i++ {
		lo, hi := knots[i-1], knots[i]
		if s <= hi.at {
			f := (s - lo.at) / (hi.at - lo.at)
			return uint8(math.Round((lo.v + f*(hi.v-lo.v)) * 255))
		}
	}
	return uint8(math.Round(knots[len(knots)-1].v * 255))
}

func (j *Jet) Max() float64 { return j.max }
func (j *Jet) SetMax(v float64) { j.max = v }
func (j *Jet) Min() float64 { return j.min }
func (j *Jet) SetMin(v float64) { j.min = v }
func (j *Jet) Alpha() float64 { return j.alpha }
func (j *Jet) SetAlpha(a float64) { j.alpha = a }

// Palette samples n evenly spaced colours between Min and Max.
func (j *Jet) Palette(n int) palette.Palette {
	cs := make(colors, n)
	for i := range cs {
		v := j.min
		if n > 1 {
			v += (j.max - j.min) * float64(i) / float64(n-1)
		}
		c, err := j.At(v)
		if err != nil {
			panic(err)
		}
		cs[i] = c
	}
	return cs
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }
