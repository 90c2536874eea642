package domain

import "fmt"

// Defaults for mooring 1840.
const (
	DefaultBadBinFirst   = 22
	DefaultBadBinLast    = 39
	DefaultMaskThreshold = 100.0
)

// CleanerConfig holds the cleaning rules for one mooring.
type CleanerConfig struct {
	BadBins       []BinRange
	MaskThreshold float64
}

// DefaultCleanerConfig returns the rules used for mooring 1840.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		BadBins:       []BinRange{{First: DefaultBadBinFirst, Last: DefaultBadBinLast}},
		MaskThreshold: DefaultMaskThreshold,
	}
}

// Clean removes the configured bad bins from the depth axis and every
// depth-indexed grid, then masks sentinel velocities. The input is not modified.
func Clean(ds Dataset, cfg CleanerConfig) (CleanedDataset, error) {
	if cfg.MaskThreshold <= 0 {
		return CleanedDataset{}, fmt.Errorf("mask threshold must be positive, got %g", cfg.MaskThreshold)
	}
	set, err := NewBinSet(cfg.BadBins...)
	if err != nil {
		return CleanedDataset{}, fmt.Errorf("clean: %w", err)
	}
	if err := checkAligned(ds); err != nil {
		return CleanedDataset{}, err
	}

	nd := ds.Depth.Len()
	if minLen := set.MinLength(); nd < minLen {
		return CleanedDataset{}, &DataShapeError{
			Variable:  ds.Depth.Name,
			Shape:     []int{nd},
			Want:      fmt.Sprintf("at least %d depth bins", minLen),
			MinLength: minLen,
		}
	}
	if nd-set.Len() < 1 {
		return CleanedDataset{}, &DataShapeError{
			Variable: ds.Depth.Name,
			Shape:    []int{nd},
			Want:     fmt.Sprintf("more than %d depth bins", set.Len()),
		}
	}

	u := ds.U.RemoveColumns(set)
	v := ds.V.RemoveColumns(set)

	return CleanedDataset{
		Time:        ds.Time,
		Depth:       ds.Depth.Remove(set),
		U:           u,
		V:           v,
		PercentGood: ds.PercentGood.RemoveColumns(set),
		UMasked:     Mask(u, cfg.MaskThreshold),
		VMasked:     Mask(v, cfg.MaskThreshold),
		RemovedBins: set.Positions(),
		CleanedAt:   clock.Now(),
	}, nil
}

// checkAligned verifies every grid matches the time and depth axes.
func checkAligned(ds Dataset) error {
	nt, nd := ds.Time.Len(), ds.Depth.Len()
	for _, g := range []Grid{ds.U, ds.V, ds.PercentGood} {
		rows, cols := g.Dims()
		if rows != nt || cols != nd {
			return &DataShapeError{
				Variable: g.Name,
				Shape:    []int{rows, cols},
				Want:     fmt.Sprintf("[%d %d] (time, depth)", nt, nd),
			}
		}
	}
	return nil
}
