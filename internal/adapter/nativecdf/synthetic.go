package nativecdf

import (
	"math"
	"time"

	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// FillValue is the EPIC missing-data marker.
const FillValue = 1e35

// m2Period is the principal lunar semidiurnal tide.
const m2Period = 12.42 * float64(time.Hour)

// SyntheticMooring describes a generated upward-looking ADCP record.
type SyntheticMooring struct {
	Times      int
	Depths     int
	Start      time.Time
	Step       time.Duration
	FirstDepth float64 // depth of bin 0, metres
	BinSize    float64 // metres between bins, shallower with increasing index
	SurfaceBin int     // first bin at or above the surface, 0 for none; it and all after are fill

	// Every SentinelEvery-th ensemble carries a fill value in bin SentinelBin.
	SentinelEvery int
	SentinelBin   int

	Vars domain.VariableNames
}

// DefaultSyntheticMooring mirrors the layout of the mooring 1840 file: hourly
// ensembles, 40 bins of 8 m starting at 186 m, bins 22 onward above the surface.
func DefaultSyntheticMooring() SyntheticMooring {
	return SyntheticMooring{
		Times:         24 * 60,
		Depths:        40,
		Start:         time.Date(2013, time.July, 20, 0, 0, 0, 0, time.UTC),
		Step:          time.Hour,
		FirstDepth:    186,
		BinSize:       8,
		SurfaceBin:    22,
		SentinelEvery: 97,
		SentinelBin:   5,
		Vars:          domain.DefaultVariableNames(),
	}
}

// Variables generates the mooring variables, with the data arrays stored as
// (time, depth, lat, lon) float32 like the instrument files.
func (m SyntheticMooring) Variables() []Variable {
	timeVals := make([]float64, m.Times)
	for i := range timeVals {
		at := m.Start.Add(time.Duration(i) * m.Step)
		timeVals[i] = float64(at.UnixMilli())/86400e3 + 2440587.5
	}
	depthVals := make([]float32, m.Depths)
	for d := range depthVals {
		depthVals[d] = float32(m.FirstDepth - m.BinSize*float64(d))
	}

	u := m.grid(func(t, d int) float64 {
		phase := 2 * math.Pi * float64(time.Duration(t)*m.Step) / m2Period
		return 35 * math.Sin(phase) * m.shear(d)
	}, true)
	v := m.grid(func(t, d int) float64 {
		phase := 2 * math.Pi * float64(time.Duration(t)*m.Step) / m2Period
		return 20*math.Cos(phase)*m.shear(d) - 5
	}, true)
	pg := m.grid(func(_, d int) float64 {
		if m.aboveSurface(d) {
			return 0
		}
		return math.Max(40, 100-2*float64(d))
	}, false)

	dims := []string{"time", "depth", "lat", "lon"}
	return []Variable{
		{Name: m.Vars.Time, Dims: []string{"time"}, Values: timeVals, Attrs: map[string]any{"units": "True Julian Day", "epic_code": int32(624)}},
		{Name: m.Vars.Depth, Dims: []string{"depth"}, Values: depthVals, Attrs: map[string]any{"units": "m", "positive": "down"}},
		{Name: "lat", Dims: []string{"lat"}, Values: []float32{43.47}, Attrs: map[string]any{"units": "degree_north"}},
		{Name: "lon", Dims: []string{"lon"}, Values: []float32{-57.52}, Attrs: map[string]any{"units": "degree_east"}},
		{Name: m.Vars.U, Dims: dims, Values: u, Attrs: map[string]any{"units": "cm/s", "long_name": "Eastward Velocity", "epic_code": int32(1205)}},
		{Name: m.Vars.V, Dims: dims, Values: v, Attrs: map[string]any{"units": "cm/s", "long_name": "Northward Velocity", "epic_code": int32(1206)}},
		{Name: m.Vars.PercentGood, Dims: dims, Values: pg, Attrs: map[string]any{"units": "%", "long_name": "Percent Good Pings", "epic_code": int32(1203)}},
	}
}

// Globals returns file-level attributes for the generated record.
func (m SyntheticMooring) Globals() map[string]any {
	return map[string]any{
		"cruise_name":         "HUD2013021",
		"mooring_number":      "1840",
		"instrument_type":     "ADCP",
		"data_type":           "synthetic",
		"time_coverage_start": m.Start.Format(time.RFC3339),
	}
}

// shear weakens the flow towards the bottom bins.
func (m SyntheticMooring) shear(d int) float64 {
	return 0.6 + 0.4*float64(d)/float64(max(m.Depths-1, 1))
}

func (m SyntheticMooring) grid(f func(t, d int) float64, velocity bool) [][][][]float32 {
	out := make([][][][]float32, m.Times)
	for t := range out {
		out[t] = make([][][]float32, m.Depths)
		for d := range out[t] {
			val := f(t, d)
			if velocity && (m.aboveSurface(d) || m.isSentinel(t, d)) {
				val = FillValue
			}
			out[t][d] = [][]float32{{float32(val)}}
		}
	}
	return out
}

func (m SyntheticMooring) isSentinel(t, d int) bool {
	return m.SentinelEvery > 0 && d == m.SentinelBin && t%m.SentinelEvery == 0
}

func (m SyntheticMooring) aboveSurface(d int) bool {
	return m.SurfaceBin > 0 && d >= m.SurfaceBin
}
