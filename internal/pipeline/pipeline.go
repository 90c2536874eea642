package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
	"github.com/couchcryptid/moored-adcp-plots/internal/observability"
)

// Extractor reads the measurement series from a mooring file.
type Extractor interface {
	Extract(ctx context.Context) (domain.Dataset, error)
}

// Cleaner removes bad bins and masks sentinel values.
type Cleaner interface {
	Clean(ctx context.Context, ds domain.Dataset) (domain.CleanedDataset, error)
}

// Renderer draws one figure as encoded image bytes.
type Renderer interface {
	Render(ctx context.Context, fig config.Figure, ds domain.CleanedDataset) ([]byte, error)
}

// Exporter serializes the cleaned series into a supplementary file.
type Exporter interface {
	Export(ctx context.Context, ds domain.CleanedDataset) ([]byte, error)
}

// Publisher announces written artifacts downstream.
type Publisher interface {
	Publish(ctx context.Context, artifacts []domain.Artifact) error
}

// Report summarizes one run.
type Report struct {
	RunID       string
	Artifacts   []domain.Artifact
	DepthBins   int
	ReducedBins int
	TimeSamples int
	RemovedBins []int
	U, V        domain.Summary
	Duration    time.Duration
}

// Pipeline orchestrates a one-shot extract, clean, render and write run.
type Pipeline struct {
	extractor Extractor
	cleaner   Cleaner
	renderer  Renderer
	exporter  Exporter
	publisher Publisher

	profile    config.Profile
	outputDir  string
	exportPath string

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures optional pipeline stages.
type Option func(*Pipeline)

// WithExporter adds a spreadsheet export written alongside the figures. A
// relative path is resolved against the output directory.
func WithExporter(x Exporter, path string) Option {
	return func(p *Pipeline) {
		p.exporter = x
		p.exportPath = path
	}
}

// WithPublisher announces every written artifact after the files are in place.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, c Cleaner, r Renderer, profile config.Profile, outputDir string, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: e,
		cleaner:   c,
		renderer:  r,
		profile:   profile,
		outputDir: outputDir,
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full pass. Every failure before the write stage leaves the
// output directory untouched. Publishing failures are logged and counted but
// do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", report.RunID, "mooring", p.profile.Mooring)

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	logger.Info("run started", "figures", len(p.profile.Figures))
	err := p.run(ctx, logger, &report)
	report.Duration = time.Since(start)

	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		logger.Error("run failed", "error", err, "elapsed", report.Duration)
		return report, err
	}
	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.LastSuccess.SetToCurrentTime()
	logger.Info("run finished",
		"artifacts", len(report.Artifacts),
		"reduced_bins", report.ReducedBins,
		"elapsed", report.Duration,
	)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, report *Report) error {
	var ds domain.Dataset
	if err := p.stage("extract", func() (err error) {
		ds, err = p.extractor.Extract(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	report.DepthBins = ds.Depth.Len()
	report.TimeSamples = ds.Time.Len()
	p.metrics.DepthBins.WithLabelValues("raw").Set(float64(report.DepthBins))
	p.metrics.TimeSamples.Set(float64(report.TimeSamples))

	var cleaned domain.CleanedDataset
	if err := p.stage("clean", func() (err error) {
		cleaned, err = p.cleaner.Clean(ctx, ds)
		return err
	}); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	p.recordCleaned(cleaned, report)
	logger.Info("dataset cleaned",
		"depth_bins", report.DepthBins,
		"reduced_bins", report.ReducedBins,
		"time_samples", report.TimeSamples,
		"masked_u", report.U.Masked,
		"masked_v", report.V.Masked,
	)

	for _, fig := range p.profile.Figures {
		if err := fig.CheckBins(report.ReducedBins); err != nil {
			return err
		}
	}

	var outs []output
	if err := p.stage("render", func() error {
		for _, fig := range p.profile.Figures {
			data, err := p.renderer.Render(ctx, fig, cleaned)
			if err != nil {
				return err
			}
			outs = append(outs, output{kind: fig.Kind, path: filepath.Join(p.outputDir, fig.File), data: data})
		}
		return nil
	}); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if p.exporter != nil {
		if err := p.stage("export", func() error {
			data, err := p.exporter.Export(ctx, cleaned)
			if err != nil {
				return err
			}
			outs = append(outs, output{kind: domain.ArtifactXLSX, path: p.resolve(p.exportPath), data: data})
			return nil
		}); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.stage("write", func() error { return writeAll(outs) }); err != nil {
		return err
	}

	report.Artifacts = make([]domain.Artifact, len(outs))
	for i, o := range outs {
		report.Artifacts[i] = domain.Artifact{
			RunID:       report.RunID,
			Mooring:     p.profile.Mooring,
			Kind:        o.kind,
			Path:        o.path,
			Bytes:       len(o.data),
			BinsRemoved: report.RemovedBins,
			Masked:      map[string]int{"u": report.U.Masked, "v": report.V.Masked},
			RenderedAt:  cleaned.CleanedAt,
		}
		p.metrics.ArtifactsWritten.WithLabelValues(o.kind).Inc()
		p.metrics.ArtifactBytes.Add(float64(len(o.data)))
		logger.Info("artifact written", "kind", o.kind, "path", o.path, "bytes", len(o.data))
	}

	p.publish(ctx, logger, report.Artifacts)
	return nil
}

func (p *Pipeline) recordCleaned(cleaned domain.CleanedDataset, report *Report) {
	report.ReducedBins = cleaned.Depth.Len()
	report.RemovedBins = cleaned.RemovedBins
	report.U = domain.Summarize(cleaned.UMasked)
	report.V = domain.Summarize(cleaned.VMasked)

	p.metrics.DepthBins.WithLabelValues("reduced").Set(float64(report.ReducedBins))
	p.metrics.MaskedCells.WithLabelValues("u").Set(float64(report.U.Masked))
	p.metrics.MaskedCells.WithLabelValues("v").Set(float64(report.V.Masked))
}

func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, artifacts []domain.Artifact) {
	if p.publisher == nil {
		return
	}
	err := p.stage("publish", func() error { return p.publisher.Publish(ctx, artifacts) })
	if err != nil {
		p.metrics.PublishErrors.Inc()
		logger.Warn("publish artifacts failed, files are written", "error", err, "count", len(artifacts))
		return
	}
	p.metrics.ArtifactsPublished.Add(float64(len(artifacts)))
}

// stage times fn under the given stage label.
func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return err
}

func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.outputDir, path)
}
