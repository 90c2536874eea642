package render_test

import (
	"bytes"
	"context"
	"image"
	_ "image/png"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/render"
	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// cleanedFixture builds a 48-sample, 10-bin dataset and removes bins 7..9.
// Every 5th u sample is a sentinel; fill decides the remaining values.
func cleanedFixture(t *testing.T, fill func(ti, d int) float64) domain.CleanedDataset {
	t.Helper()
	const nt, nd = 48, 10

	times := make([]float64, nt)
	for i := range times {
		times[i] = 2456494.5 + float64(i)/24
	}
	depths := make([]float64, nd)
	for d := range depths {
		depths[d] = 90 - 8*float64(d)
	}
	u := make([]float64, nt*nd)
	v := make([]float64, nt*nd)
	pg := make([]float64, nt*nd)
	for ti := 0; ti < nt; ti++ {
		for d := 0; d < nd; d++ {
			i := ti*nd + d
			u[i] = fill(ti, d)
			v[i] = -fill(ti, d)
			pg[i] = 100 - 4*float64(d)
			if ti%5 == 0 {
				u[i] = 1e35
			}
		}
	}

	grid := func(name string, data []float64) domain.Array {
		return domain.Array{Name: name, Units: "cm/s", Dims: []string{"time", "depth"}, Shape: []int{nt, nd}, Data: data}
	}
	ds, err := domain.NewDataset(
		domain.Array{Name: "time", Units: "True Julian Day", Dims: []string{"time"}, Shape: []int{nt}, Data: times},
		domain.Array{Name: "depth", Units: "m", Dims: []string{"depth"}, Shape: []int{nd}, Data: depths},
		grid("u_1205", u),
		grid("v_1206", v),
		domain.Array{Name: "PGd_1203", Units: "%", Dims: []string{"time", "depth"}, Shape: []int{nt, nd}, Data: pg},
	)
	require.NoError(t, err)

	cleaned, err := domain.Clean(ds, domain.CleanerConfig{
		BadBins:       []domain.BinRange{{First: 7, Last: 9}},
		MaskThreshold: 100,
	})
	require.NoError(t, err)
	return cleaned
}

func wave(ti, d int) float64 { return float64((ti*7+d*3)%90 - 45) }

func smallFigures() (config.Figure, config.Figure) {
	contour := config.Figure{
		Kind:     config.KindContour,
		File:     "contour.png",
		Panels:   []string{config.PanelU, config.PanelV, config.PanelPercentGood},
		WidthIn:  4,
		HeightIn: 3,
		DPI:      50,
	}
	series := config.Figure{
		Kind:     config.KindSeries,
		File:     "series.png",
		Bins:     []int{6, 3, 0},
		LabelAt:  0.6,
		WidthIn:  3,
		HeightIn: 4,
		DPI:      40,
	}
	return contour, series
}

func decode(t *testing.T, data []byte) image.Config {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	return cfg
}

func newRenderer(t *testing.T, p config.Profile) *render.Renderer {
	t.Helper()
	r, err := render.NewRenderer(p, slog.Default())
	require.NoError(t, err)
	return r
}

func TestRender_Contour(t *testing.T) {
	ds := cleanedFixture(t, wave)
	contour, _ := smallFigures()

	for _, cm := range []string{config.ColorMapJet, config.ColorMapBlueRed, config.ColorMapBlackBody} {
		t.Run(cm, func(t *testing.T) {
			p := config.DefaultProfile()
			p.ColorMap = cm
			data, err := newRenderer(t, p).Render(context.Background(), contour, ds)
			require.NoError(t, err)

			img := decode(t, data)
			assert.Equal(t, 200, img.Width)
			assert.Equal(t, 150, img.Height)
		})
	}
}

func TestRender_Series(t *testing.T) {
	ds := cleanedFixture(t, wave)
	_, series := smallFigures()

	data, err := newRenderer(t, config.DefaultProfile()).Render(context.Background(), series, ds)
	require.NoError(t, err)

	img := decode(t, data)
	assert.Equal(t, 120, img.Width)
	assert.Equal(t, 160, img.Height)
}

func TestRender_SeriesConfiguredLabels(t *testing.T) {
	ds := cleanedFixture(t, wave)
	_, series := smallFigures()
	series.Labels = []string{"top", "middle", "bottom"}
	series.LabelY = -57

	_, err := newRenderer(t, config.DefaultProfile()).Render(context.Background(), series, ds)
	require.NoError(t, err)
}

// colouredPixels counts the non-grey pixels inside a region given as
// fractions of the image width and height, measured from the top left.
func colouredPixels(t *testing.T, data []byte, x0, x1, y0, y1 float64) int {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	n := 0
	for y := b.Min.Y + int(y0*h); y < b.Min.Y+int(y1*h); y++ {
		for x := b.Min.X + int(x0*w); x < b.Min.X+int(x1*w); x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if max(r, g, bl)-min(r, g, bl) > 0x1000 {
				n++
			}
		}
	}
	return n
}

func uContour() config.Figure {
	contour, _ := smallFigures()
	contour.Panels = []string{config.PanelU}
	return contour
}

func TestRender_MaskedCellsAreBlank(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		painted bool
	}{
		{"sentinel", 1e35, false},
		{"large negative", -150, false},
		{"at threshold", 100, false},
		{"zero", 0, true},
		{"just below threshold", 99.999, true},
	}

	r := newRenderer(t, config.DefaultProfile())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := cleanedFixture(t, func(int, int) float64 { return tt.value })
			data, err := r.Render(context.Background(), uContour(), ds)
			require.NoError(t, err)

			// Inner part of the heat map, clear of the axes and colour bar.
			n := colouredPixels(t, data, 0.35, 0.6, 0.35, 0.65)
			if tt.painted {
				assert.Greater(t, n, 0)
			} else {
				assert.Zero(t, n)
			}
		})
	}
}

func TestRender_AllMaskedSeriesIsNotError(t *testing.T) {
	ds := cleanedFixture(t, func(int, int) float64 { return 1e35 })
	_, series := smallFigures()

	data, err := newRenderer(t, config.DefaultProfile()).Render(context.Background(), series, ds)
	require.NoError(t, err)
	// Upper panels, right of the depth labels and away from the legend.
	assert.Zero(t, colouredPixels(t, data, 0.65, 0.95, 0.05, 0.6), "no velocity lines")
}

func TestRender_ColorBarOrientation(t *testing.T) {
	ds := cleanedFixture(t, func(int, int) float64 { return 1e35 })
	r := newRenderer(t, config.DefaultProfile())

	vertical := uContour()
	data, err := r.Render(context.Background(), vertical, ds)
	require.NoError(t, err)
	assert.Greater(t, colouredPixels(t, data, 0.85, 1, 0.3, 0.6), 0, "bar right of the panel")

	horizontal := uContour()
	horizontal.ColorBar = config.ColorBarHorizontal
	data, err = r.Render(context.Background(), horizontal, ds)
	require.NoError(t, err)
	img := decode(t, data)
	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 150, img.Height)
	assert.Zero(t, colouredPixels(t, data, 0.85, 1, 0.3, 0.6), "nothing right of the panel")
	assert.Greater(t, colouredPixels(t, data, 0, 1, 0.65, 1), 0, "bar under the panel")
}

func TestRender_TimeAxisUnitsAndTopLegend(t *testing.T) {
	ds := cleanedFixture(t, wave)
	contour, series := smallFigures()
	contour.TimeAxis = config.TimeAxisUnits
	series.TimeAxis = config.TimeAxisUnits
	series.Legend = config.LegendTop
	r := newRenderer(t, config.DefaultProfile())

	data, err := r.Render(context.Background(), contour, ds)
	require.NoError(t, err)
	assert.Equal(t, 200, decode(t, data).Width)

	data, err = r.Render(context.Background(), series, ds)
	require.NoError(t, err)
	assert.Equal(t, 160, decode(t, data).Height)
}

func TestRender_BinOutsideReducedAxis(t *testing.T) {
	ds := cleanedFixture(t, wave)
	_, series := smallFigures()
	series.Bins = []int{7}

	_, err := newRenderer(t, config.DefaultProfile()).Render(context.Background(), series, ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bin 7")
}

func TestRender_CancelledContext(t *testing.T) {
	ds := cleanedFixture(t, wave)
	contour, _ := smallFigures()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRenderer(t, config.DefaultProfile()).Render(ctx, contour, ds)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRender_UnknownKind(t *testing.T) {
	ds := cleanedFixture(t, wave)
	_, err := newRenderer(t, config.DefaultProfile()).Render(context.Background(), config.Figure{
		Kind: "rose", File: "rose.png", WidthIn: 1, HeightIn: 1, DPI: 10,
	}, ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rose")
}

func TestNewRenderer_BadColourSetup(t *testing.T) {
	p := config.DefaultProfile()
	p.ColorMap = "rainbow"
	_, err := render.NewRenderer(p, slog.Default())
	require.Error(t, err)

	p = config.DefaultProfile()
	p.VelocityBounds = config.Bounds{Min: 5, Max: 5}
	_, err = render.NewRenderer(p, slog.Default())
	require.Error(t, err)
}
