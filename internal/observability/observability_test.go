package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RunsTotal.WithLabelValues("success").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RunsTotal.WithLabelValues("success")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.DepthBins.WithLabelValues("raw").Set(40)
	m.DepthBins.WithLabelValues("reduced").Set(22)
	m.MaskedCells.WithLabelValues("u").Set(15)
	m.ArtifactsWritten.WithLabelValues("contour").Inc()

	path := filepath.Join(t.TempDir(), "adcp.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `adcp_depth_bins{axis="raw"} 40`)
	assert.Contains(t, text, `adcp_depth_bins{axis="reduced"} 22`)
	assert.Contains(t, text, `adcp_masked_cells{component="u"} 15`)
	assert.Contains(t, text, `adcp_artifacts_written_total{kind="contour"} 1`)
}

func TestMetrics_WriteTextfileBadDir(t *testing.T) {
	err := NewMetrics().WriteTextfile(filepath.Join(t.TempDir(), "missing", "adcp.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics textfile")
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "warn", "json").Info("dropped")
	assert.Empty(t, buf.String())

	newLogger(&buf, "warn", "json").Warn("kept", "bins", 22)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, 22.0, rec["bins"])

	buf.Reset()
	newLogger(&buf, "debug", "text").Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
