package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "adcp"

// Metrics holds the Prometheus counters, histograms, and gauges for one run.
// They live on their own registry so a one-shot run can dump them to a
// node-exporter textfile.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal       *prometheus.CounterVec   // labels: outcome={success,error}
	StageDuration   *prometheus.HistogramVec // labels: stage={extract,clean,render,export,write,publish}
	PipelineRunning prometheus.Gauge

	// Data-quality metrics.
	DepthBins   *prometheus.GaugeVec // labels: axis={raw,reduced}
	TimeSamples prometheus.Gauge
	MaskedCells *prometheus.GaugeVec // labels: component={u,v}

	// Output metrics.
	ArtifactsWritten   *prometheus.CounterVec // labels: kind={contour,series,xlsx}
	ArtifactBytes      prometheus.Counter
	ArtifactsPublished prometheus.Counter
	PublishErrors      prometheus.Counter

	LastSuccess prometheus.Gauge
}

// NewMetrics creates all run metrics and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		DepthBins: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "depth_bins",
			Help:      "Length of the depth axis before and after bad-bin removal.",
		}, []string{"axis"}),
		TimeSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "time_samples",
			Help:      "Number of ensembles in the input file.",
		}),
		MaskedCells: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "masked_cells",
			Help:      "Velocity cells masked as sentinel values, by component.",
		}, []string{"component"}),
		ArtifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Output files written, by kind.",
		}, []string{"kind"}),
		ArtifactBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_bytes_total",
			Help:      "Total bytes written to output files.",
		}),
		ArtifactsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_published_total",
			Help:      "Artifact announcements published to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed artifact announcement attempts.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.Registry.MustRegister(
		m.RunsTotal,
		m.StageDuration,
		m.PipelineRunning,
		m.DepthBins,
		m.TimeSamples,
		m.MaskedCells,
		m.ArtifactsWritten,
		m.ArtifactBytes,
		m.ArtifactsPublished,
		m.PublishErrors,
		m.LastSuccess,
	)

	return m
}

// WriteTextfile writes the registry in the text exposition format. The file
// is written to a temporary name and renamed, as the textfile collector expects.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
