package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// Figure kinds.
const (
	KindContour = "contour"
	KindSeries  = "series"
)

// Contour panel names.
const (
	PanelU           = "u"
	PanelV           = "v"
	PanelPercentGood = "pg"
)

// Colour map names.
const (
	ColorMapJet       = "jet"
	ColorMapBlueRed   = "blue-red"
	ColorMapBlackBody = "black-body"
)

// Contour colour bar orientations.
const (
	ColorBarVertical   = "vertical"
	ColorBarHorizontal = "horizontal"
)

// Series legend placements.
const (
	LegendBottom = "bottom"
	LegendTop    = "top"
)

// Time axis styles. Month labels the first of each month; units plots the
// raw time values labelled with the file's time units.
const (
	TimeAxisMonth = "month"
	TimeAxisUnits = "units"
)

// Bounds is a closed value range.
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max" validate:"gtfield=Min"`
}

// Figure describes one output image.
type Figure struct {
	Kind  string `yaml:"kind" validate:"oneof=contour series"`
	File  string `yaml:"file" validate:"required"`
	Title string `yaml:"title"`

	// Contour panels, top to bottom.
	Panels []string `yaml:"panels" validate:"required_if=Kind contour,dive,oneof=u v pg"`
	// ColorBar sits right of each panel (vertical, the default) or under it.
	ColorBar string `yaml:"colorbar" validate:"omitempty,oneof=vertical horizontal"`

	// Series panels: reduced-axis bin indices, top to bottom, and optional
	// depth labels overriding the ones derived from the depth axis.
	Bins   []int    `yaml:"bins" validate:"required_if=Kind series,dive,gte=0"`
	Labels []string `yaml:"labels"`
	// LabelAt places the depth label at this fraction of the time range,
	// LabelY at this velocity.
	LabelAt float64 `yaml:"label_at" validate:"gte=0,lte=1"`
	LabelY  float64 `yaml:"label_y"`
	// Legend is drawn in the bottom panel unless set to top.
	Legend string `yaml:"legend" validate:"omitempty,oneof=top bottom"`

	TimeAxis string `yaml:"time_axis" validate:"omitempty,oneof=month units"`

	WidthIn  float64 `yaml:"width_in" validate:"gt=0"`
	HeightIn float64 `yaml:"height_in" validate:"gt=0"`
	DPI      int     `yaml:"dpi" validate:"gt=0"`
}

// CheckBins verifies every series bin exists on a reduced axis of length n.
func (f Figure) CheckBins(n int) error {
	for _, b := range f.Bins {
		if b >= n {
			return fmt.Errorf("figure %s: bin %d outside reduced depth axis of length %d", f.File, b, n)
		}
	}
	return nil
}

// Profile is the per-mooring plotting and cleaning setup.
type Profile struct {
	Mooring   string               `yaml:"mooring" validate:"required"`
	Title     string               `yaml:"title"`
	Variables domain.VariableNames `yaml:"variables"`

	BadBins       []domain.BinRange `yaml:"bad_bins" validate:"dive"`
	MaskThreshold float64           `yaml:"mask_threshold" validate:"gt=0"`

	ColorMap          string `yaml:"color_map" validate:"oneof=jet blue-red black-body"`
	VelocityBounds    Bounds `yaml:"velocity_bounds"`
	PercentGoodBounds Bounds `yaml:"percent_good_bounds"`
	SeriesRange       Bounds `yaml:"series_range"`

	Figures []Figure `yaml:"figures" validate:"required,min=1,dive"`
}

// Cleaner returns the cleaning rules of the profile.
func (p Profile) Cleaner() domain.CleanerConfig {
	bins := make([]domain.BinRange, len(p.BadBins))
	copy(bins, p.BadBins)
	return domain.CleanerConfig{BadBins: bins, MaskThreshold: p.MaskThreshold}
}

// SeriesBins returns the distinct bins used by series figures in first-use order.
func (p Profile) SeriesBins() []int {
	seen := make(map[int]bool)
	var out []int
	for _, f := range p.Figures {
		if f.Kind != KindSeries {
			continue
		}
		for _, b := range f.Bins {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// Validate checks the profile on its own.
func (p Profile) Validate() error {
	if err := describe(newValidator().Struct(p)); err != nil {
		return err
	}
	files := make(map[string]bool)
	for i, f := range p.Figures {
		if filepath.Base(f.File) != f.File {
			return fmt.Errorf("invalid config: figures[%d]: file %q must be a bare file name", i, f.File)
		}
		if files[f.File] {
			return fmt.Errorf("invalid config: figures[%d]: duplicate file %q", i, f.File)
		}
		files[f.File] = true
		if len(f.Labels) > 0 && len(f.Labels) != len(f.Bins) {
			return fmt.Errorf("invalid config: figures[%d]: %d labels for %d bins", i, len(f.Labels), len(f.Bins))
		}
	}
	return nil
}

// DefaultProfile reproduces the mooring 1840 figures.
func DefaultProfile() Profile {
	return Profile{
		Mooring:       "1840",
		Title:         "ADCP Mooring #1840",
		Variables:     domain.DefaultVariableNames(),
		BadBins:       []domain.BinRange{{First: domain.DefaultBadBinFirst, Last: domain.DefaultBadBinLast}},
		MaskThreshold: domain.DefaultMaskThreshold,

		ColorMap:          ColorMapJet,
		VelocityBounds:    Bounds{Min: -50, Max: 50},
		PercentGoodBounds: Bounds{Min: 40, Max: 100},
		SeriesRange:       Bounds{Min: -80, Max: 80},

		Figures: []Figure{
			{
				Kind:     KindContour,
				File:     "UVPGD1840-contour.png",
				Title:    "ADCP Mooring #1840",
				Panels:   []string{PanelU, PanelV, PanelPercentGood},
				WidthIn:  8,
				HeightIn: 11,
				DPI:      100,
			},
			{
				Kind:     KindSeries,
				File:     "UV1840-Line.png",
				Title:    "ADCP, Mooring #1840",
				Bins:     []int{21, 18, 15, 12, 9, 6, 3, 0},
				Labels:   []string{"18 m", "42 m", "66 m", "90 m", "114 m", "138 m", "162 m", "186 m"},
				LabelAt:  0.6,
				LabelY:   -57,
				WidthIn:  9,
				HeightIn: 14,
				DPI:      100,
			},
		},
	}
}

// LoadProfile reads a YAML profile over the defaults. An empty path returns
// DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read MOORING_PROFILE: %w", err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return Profile{}, fmt.Errorf("parse MOORING_PROFILE %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes YAML over DefaultProfile. Unknown keys are rejected.
// Figures given in YAML replace the default figures; their size and label
// placement fall back to per-kind defaults.
func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	p.Figures = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, err
	}

	if p.Figures == nil {
		p.Figures = DefaultProfile().Figures
	}
	for i := range p.Figures {
		applyFigureDefaults(&p.Figures[i])
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func applyFigureDefaults(f *Figure) {
	if f.DPI == 0 {
		f.DPI = 100
	}
	switch f.Kind {
	case KindContour:
		if f.WidthIn == 0 {
			f.WidthIn = 8
		}
		if f.HeightIn == 0 {
			f.HeightIn = 11
		}
	case KindSeries:
		if f.WidthIn == 0 {
			f.WidthIn = 9
		}
		if f.HeightIn == 0 {
			f.HeightIn = 1.75 * float64(max(len(f.Bins), 1))
		}
		if f.LabelAt == 0 {
			f.LabelAt = 0.6
		}
	}
}
