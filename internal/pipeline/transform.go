package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// DatasetCleaner implements Cleaner using the domain bad-bin removal and
// sentinel masking rules.
type DatasetCleaner struct {
	cfg    domain.CleanerConfig
	logger *slog.Logger
}

// NewCleaner creates a DatasetCleaner for the given rules.
func NewCleaner(cfg domain.CleanerConfig, logger *slog.Logger) *DatasetCleaner {
	return &DatasetCleaner{
		cfg:    cfg,
		logger: logger,
	}
}

func (c *DatasetCleaner) Clean(ctx context.Context, ds domain.Dataset) (domain.CleanedDataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.CleanedDataset{}, err
	}
	cleaned, err := domain.Clean(ds, c.cfg)
	if err != nil {
		return domain.CleanedDataset{}, err
	}

	c.logger.Debug("dataset cleaned",
		"depth_bins", ds.Depth.Len(),
		"reduced_bins", cleaned.Depth.Len(),
		"masked_u", cleaned.UMasked.MaskedCount(),
		"masked_v", cleaned.VMasked.MaskedCount(),
	)
	return cleaned, nil
}
