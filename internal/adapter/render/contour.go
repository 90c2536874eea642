package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// Space reserved for each panel's colour bar, including its tick labels and
// axis label: colorBarWidth to the right of the panel when vertical,
// colorBarHeight under it when horizontal.
const (
	colorBarWidth  = 1.1 * vg.Inch
	colorBarHeight = 0.8 * vg.Inch
)

func (r *Renderer) drawContour(dc draw.Canvas, fig config.Figure, ds domain.CleanedDataset, ax timeAxis) error {
	n := len(fig.Panels)
	heat := make([][]*plot.Plot, n)
	bars := make([][]*plot.Plot, n)

	for i, name := range fig.Panels {
		cells, title, units, bounds, err := r.panelSource(name, ds)
		if err != nil {
			return err
		}
		cm, err := NewColorMap(r.profile.ColorMap, bounds.Min, bounds.Max)
		if err != nil {
			return err
		}
		pal := cm.Palette(paletteSize)
		cs := pal.Colors()

		h := plotter.NewHeatMap(heatGrid{cells: cells, times: ax.values, depths: ds.Depth.Values}, pal)
		h.Min, h.Max = bounds.Min, bounds.Max
		h.Underflow, h.Overflow = cs[0], cs[len(cs)-1]

		p := plot.New()
		p.Add(h)
		p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
		p.X.Tick.Marker = ax.ticks
		if i == 0 {
			p.Title.Text = r.title(fig)
		}
		if i == n/2 {
			p.Y.Label.Text = label("Depth", ds.Depth.Units)
		}
		if i == n-1 {
			p.X.Label.Text = ax.label
		} else {
			p.X.Tick.Marker = unlabelled{ax.ticks}
		}
		heat[i] = []*plot.Plot{p}

		cb := plot.New()
		if fig.ColorBar == config.ColorBarHorizontal {
			cb.Add(&plotter.ColorBar{ColorMap: cm, Colors: paletteSize})
			cb.HideY()
			cb.X.Label.Text = label(title, units)
		} else {
			cb.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: paletteSize})
			cb.HideX()
			cb.Y.Label.Text = label(title, units)
		}
		bars[i] = []*plot.Plot{cb}
	}

	tiles := draw.Tiles{
		Rows:      n,
		Cols:      1,
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(6),
		PadY:      vg.Points(10),
	}
	if fig.ColorBar == config.ColorBarHorizontal {
		drawUnderBars(heat, bars, tiles, dc)
		return nil
	}

	width := dc.Max.X - dc.Min.X
	left := draw.Crop(dc, 0, -colorBarWidth, 0, 0)
	right := draw.Crop(dc, width-colorBarWidth, 0, 0, 0)

	drawAligned(heat, tiles, left)
	drawAligned(bars, tiles, right)
	return nil
}

func drawAligned(plots [][]*plot.Plot, tiles draw.Tiles, dc draw.Canvas) {
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}
}

// drawUnderBars aligns the panels with room left under each one, then draws
// each colour bar in that room, spanning its panel's data area.
func drawUnderBars(heat, bars [][]*plot.Plot, tiles draw.Tiles, dc draw.Canvas) {
	tiles.PadY += colorBarHeight
	tiles.PadBottom += colorBarHeight
	canvases := plot.Align(heat, tiles, dc)
	for i := range heat {
		c := canvases[i][0]
		heat[i][0].Draw(c)
		data := heat[i][0].DataCanvas(c)
		bars[i][0].Draw(draw.Canvas{
			Canvas: c.Canvas,
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: data.Min.X, Y: c.Min.Y - colorBarHeight},
				Max: vg.Point{X: data.Max.X, Y: c.Min.Y - vg.Points(4)},
			},
		})
	}
}

// panelSource picks the grid, colour-bar label and colour bounds of a panel.
// Velocities are drawn from their masked grids; percent good is unmasked.
func (r *Renderer) panelSource(name string, ds domain.CleanedDataset) (cellSource, string, string, config.Bounds, error) {
	switch name {
	case config.PanelU:
		return ds.UMasked, "U", ds.U.Units, r.profile.VelocityBounds, nil
	case config.PanelV:
		return ds.VMasked, "V", ds.V.Units, r.profile.VelocityBounds, nil
	case config.PanelPercentGood:
		return ds.PercentGood, "Percent Good", ds.PercentGood.Units, r.profile.PercentGoodBounds, nil
	default:
		return nil, "", "", config.Bounds{}, fmt.Errorf("unknown contour panel %q", name)
	}
}
