package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjet-platform/countydata/internal/model"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(model.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "county", "Nairobi")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "Nairobi", entry["county"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(model.LogConfig{Level: "debug", Format: "text"}, &buf).Debug("candidate failed", "attempt", 2)
	assert.Contains(t, buf.String(), "attempt=2")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAttempt("success", time.Millisecond)
		m.ObserveResolution(true, 1)
	})
}

func TestMetrics_Register(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.CandidateAttempts))
	require.NoError(t, reg.Register(m.CandidateDuration))
	require.NoError(t, reg.Register(m.Resolutions))
	require.NoError(t, reg.Register(m.AttemptsPerLookup))

	m.ObserveAttempt("status", 20*time.Millisecond)
	m.ObserveResolution(false, 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"countydata_candidate_attempts_total",
		"countydata_candidate_duration_seconds",
		"countydata_resolutions_total",
		"countydata_attempts_per_resolution",
	}, names)
}
