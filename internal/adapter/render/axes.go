package render

import (
	"time"

	"gonum.org/v1/plot"

	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// timeAxis is the X coordinate system shared by every panel of a figure.
type timeAxis struct {
	values []float64
	ticks  plot.Ticker
	label  string
}

// newTimeAxis plots month-labelled Unix seconds by default. The units style
// keeps the file's own time values, such as Julian days, with plain ticks.
func newTimeAxis(fig config.Figure, ds domain.CleanedDataset, ts []time.Time) timeAxis {
	if fig.TimeAxis == config.TimeAxisUnits {
		return timeAxis{values: ds.Time.Values, ticks: plot.DefaultTicks{}, label: label("Time", ds.Time.Units)}
	}
	lbl := "Time [Month/Year]"
	if fig.Kind == config.KindSeries {
		lbl = "Time (Month/Year)"
	}
	return timeAxis{values: unixSeconds(ts), ticks: monthTicks{}, label: lbl}
}

// cellSource is satisfied by domain.Grid and domain.MaskedGrid.
type cellSource interface {
	At(t, d int) float64
}

// heatGrid exposes a time × depth grid as plotter.GridXYZ. Rows are flipped
// so Y ascends with depth; the panel's inverted scale puts the surface on top.
type heatGrid struct {
	cells  cellSource
	times  []float64
	depths []float64
}

func (g heatGrid) Dims() (c, r int) { return len(g.times), len(g.depths) }

func (g heatGrid) Z(c, r int) float64 { return g.cells.At(c, g.depthIndex(r)) }

func (g heatGrid) X(c int) float64 { return g.times[c] }

func (g heatGrid) Y(r int) float64 { return g.depths[g.depthIndex(r)] }

// depthIndex maps an ascending row to the stored depth column. Stored depth
// may run either way.
func (g heatGrid) depthIndex(r int) int {
	n := len(g.depths)
	if n > 1 && g.depths[0] > g.depths[n-1] {
		return n - 1 - r
	}
	return r
}

// monthTicks marks the first of every month as MM/YY. Spans covering fewer
// than two month starts fall back to evenly spaced date ticks.
type monthTicks struct{}

func (monthTicks) Ticks(min, max float64) []plot.Tick {
	start := plot.UTCUnixTime(min)
	end := plot.UTCUnixTime(max)
	t := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if t.Before(start) {
		t = t.AddDate(0, 1, 0)
	}
	var ticks []plot.Tick
	for ; !t.After(end); t = t.AddDate(0, 1, 0) {
		ticks = append(ticks, plot.Tick{Value: float64(t.Unix()), Label: t.Format("01/06")})
	}
	if len(ticks) < 2 {
		return plot.TimeTicks{Format: "01/02 15h", Time: plot.UTCUnixTime}.Ticks(min, max)
	}
	return ticks
}

// unlabelled keeps tick positions but drops the labels, for stacked panels
// that share the bottom panel's time labels.
type unlabelled struct{ plot.Ticker }

func (u unlabelled) Ticks(min, max float64) []plot.Tick {
	ticks := u.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}

func unixSeconds(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = float64(t.Unix()) + float64(t.Nanosecond())/1e9
	}
	return out
}
