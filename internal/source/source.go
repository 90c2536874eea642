// Package source picks the scientific array source named by READER.
package source

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/libnetcdf"
	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/nativecdf"
	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/pipeline"
)

// New returns the reader configured by cfg.Reader for cfg.InputPath.
func New(cfg *config.Config, logger *slog.Logger) (pipeline.Extractor, error) {
	vars := cfg.Profile.Variables
	switch cfg.Reader {
	case config.ReaderNative, "":
		return nativecdf.NewReader(cfg.InputPath, vars, cfg.ReaderChunkRecords, logger), nil
	case config.ReaderLibNetCDF:
		r, err := libnetcdf.NewReader(cfg.InputPath, vars, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown reader %q", cfg.Reader)
	}
}
