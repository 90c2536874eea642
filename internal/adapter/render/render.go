// Package render draws the mooring figures with gonum/plot and returns them
// as PNG bytes. Nothing here touches the filesystem.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// Renderer draws the figures described by a mooring profile.
type Renderer struct {
	profile config.Profile
	logger  *slog.Logger
}

// NewRenderer checks the profile's colour setup and returns a Renderer.
func NewRenderer(profile config.Profile, logger *slog.Logger) (*Renderer, error) {
	for _, b := range []config.Bounds{profile.VelocityBounds, profile.PercentGoodBounds} {
		if _, err := NewColorMap(profile.ColorMap, b.Min, b.Max); err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
	}
	return &Renderer{profile: profile, logger: logger}, nil
}

// Render draws one figure from the cleaned dataset and encodes it as PNG.
func (r *Renderer) Render(ctx context.Context, fig config.Figure, ds domain.CleanedDataset) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, nd := ds.U.Dims()
	if err := fig.CheckBins(nd); err != nil {
		return nil, err
	}
	ts, err := domain.Times(ds.Time)
	if err != nil {
		return nil, fmt.Errorf("figure %s: %w", fig.File, err)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("figure %s: no time samples", fig.File)
	}

	start := time.Now()
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(fig.WidthIn)*vg.Inch, vg.Length(fig.HeightIn)*vg.Inch),
		vgimg.UseDPI(fig.DPI),
	)
	dc := draw.New(img)

	ax := newTimeAxis(fig, ds, ts)
	switch fig.Kind {
	case config.KindContour:
		err = r.drawContour(dc, fig, ds, ax)
	case config.KindSeries:
		err = r.drawSeries(dc, fig, ds, ax)
	default:
		err = fmt.Errorf("unknown figure kind %q", fig.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("figure %s: %w", fig.File, err)
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("figure %s: encode png: %w", fig.File, err)
	}
	r.logger.Debug("figure rendered",
		"file", fig.File,
		"kind", fig.Kind,
		"bytes", buf.Len(),
		"elapsed", time.Since(start),
	)
	return buf.Bytes(), nil
}

func (r *Renderer) title(fig config.Figure) string {
	if fig.Title != "" {
		return fig.Title
	}
	return r.profile.Title
}

// label formats "<name> [<units>]", leaving out empty units.
func label(name, units string) string {
	if units == "" {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, units)
}
