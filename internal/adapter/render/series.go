package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

var (
	eastColor  = color.RGBA{B: 255, A: 255}
	northColor = color.RGBA{R: 255, A: 255}
)

// defaultLabelHeight places depth labels this far up the y range when the
// figure leaves LabelY unset.
const defaultLabelHeight = 0.145

func (r *Renderer) drawSeries(dc draw.Canvas, fig config.Figure, ds domain.CleanedDataset, ax timeAxis) error {
	n := len(fig.Bins)
	yr := r.profile.SeriesRange
	times := ax.values
	tmin, tmax := times[0], times[len(times)-1]

	legendPanel := n - 1
	if fig.Legend == config.LegendTop {
		legendPanel = 0
	}

	labelY := fig.LabelY
	if labelY == 0 {
		labelY = yr.Min + defaultLabelHeight*(yr.Max-yr.Min)
	}

	plots := make([][]*plot.Plot, n)
	for i, bin := range fig.Bins {
		p := plot.New()

		for _, s := range []struct {
			col []float64
			c   color.Color
		}{
			{ds.UMasked.Column(bin), eastColor},
			{ds.VMasked.Column(bin), northColor},
		} {
			for _, seg := range segments(times, s.col) {
				l, err := plotter.NewLine(seg)
				if err != nil {
					return fmt.Errorf("bin %d: %w", bin, err)
				}
				l.Color = s.c
				p.Add(l)
			}
		}

		lbl, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: tmin + fig.LabelAt*(tmax-tmin), Y: labelY}},
			Labels: []string{r.depthLabel(fig, i, bin, ds.Depth)},
		})
		if err != nil {
			return fmt.Errorf("bin %d: %w", bin, err)
		}
		p.Add(lbl)

		// Fixed ranges so blank, fully masked panels keep the same frame.
		p.X.Min, p.X.Max = tmin, tmax
		p.Y.Min, p.Y.Max = yr.Min, yr.Max

		if i == 0 {
			p.Title.Text = r.title(fig)
		}
		if i == (n-1)/2 {
			p.Y.Label.Text = "Velocity (cm/s)"
		}
		if i == n-1 {
			p.X.Label.Text = ax.label
			p.X.Tick.Marker = ax.ticks
		} else {
			p.X.Tick.Marker = unlabelled{ax.ticks}
		}
		if i == legendPanel {
			if err := addLegend(p); err != nil {
				return err
			}
		}
		plots[i] = []*plot.Plot{p}
	}

	drawAligned(plots, draw.Tiles{
		Rows:      n,
		Cols:      1,
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
		PadY:      vg.Points(4),
	}, dc)
	return nil
}

func addLegend(p *plot.Plot) error {
	for _, e := range []struct {
		name string
		c    color.Color
	}{{"U", eastColor}, {"V", northColor}} {
		l, err := plotter.NewLine(plotter.XYs{})
		if err != nil {
			return err
		}
		l.Color = e.c
		p.Legend.Add(e.name, l)
	}
	p.Legend.Left = true
	return nil
}

// depthLabel returns the configured label for panel i or one derived from
// the reduced depth axis, such as "18 m".
func (r *Renderer) depthLabel(fig config.Figure, i, bin int, depth domain.Axis) string {
	if i < len(fig.Labels) {
		return fig.Labels[i]
	}
	s := fmt.Sprintf("%.0f", depth.Values[bin])
	if depth.Units != "" {
		s += " " + depth.Units
	}
	return s
}

// segments splits a series at NaN samples so gaps are never bridged.
func segments(xs, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: y})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
