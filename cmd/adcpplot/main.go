// Command adcpplot reads a moored ADCP NetCDF file, removes the bad depth bins,
// masks sentinel velocities and writes the contour and time-series figures.
// Settings come from the environment; see internal/config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/couchcryptid/moored-adcp-plots/internal/adapter/kafka"
	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/render"
	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/xlsx"
	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/observability"
	"github.com/couchcryptid/moored-adcp-plots/internal/pipeline"
	"github.com/couchcryptid/moored-adcp-plots/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, logger, metrics)
	stop()

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile error", "error", err)
		}
	}
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) int {
	extractor, err := source.New(cfg, logger)
	if err != nil {
		logger.Error("reader setup failed", "reader", cfg.Reader, "error", err)
		return 1
	}
	renderer, err := render.NewRenderer(cfg.Profile, logger)
	if err != nil {
		logger.Error("renderer setup failed", "error", err)
		return 1
	}
	cleaner := pipeline.NewCleaner(cfg.Profile.Cleaner(), logger)

	var opts []pipeline.Option
	if cfg.XLSXExport != "" {
		opts = append(opts, pipeline.WithExporter(xlsx.NewExporter(cfg.Profile.SeriesBins(), logger), cfg.ExportPath()))
		logger.Info("xlsx export enabled", "file", cfg.ExportPath())
	}
	if cfg.KafkaEnabled() {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		opts = append(opts, pipeline.WithPublisher(publisher))
		logger.Info("artifact publishing enabled", "topic", cfg.KafkaArtifactTopic)
	}

	p := pipeline.New(extractor, cleaner, renderer, cfg.Profile, cfg.OutputDir, logger, metrics, opts...)

	logger.Info("processing mooring file", "input", cfg.InputPath, "reader", cfg.Reader, "output_dir", cfg.OutputDir)
	report, err := p.Run(ctx)
	if err != nil {
		return 1
	}
	for _, a := range report.Artifacts {
		logger.Info("output", "kind", a.Kind, "path", a.Path)
	}
	logger.Info("summary",
		"run_id", report.RunID,
		"removed_bins", len(report.RemovedBins),
		"u_valid", report.U.Valid,
		"u_masked", report.U.Masked,
		"v_valid", report.V.Valid,
		"v_masked", report.V.Masked,
	)
	return 0
}
