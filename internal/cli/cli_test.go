package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/model"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())
	bindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("COUNTYDATA_DATA_ORIGIN", "https://data.example.org")
	t.Setenv("COUNTYDATA_HTTP_TIMEOUT", "3s")
	t.Setenv("COUNTYDATA_SWEEP_WORKERS", "9")
	t.Setenv("COUNTYDATA_LOG_FORMAT", "json")

	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, "https://data.example.org", cfg.Data.Origin)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 9, cfg.Sweep.Workers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "static/data", cfg.Data.DataRoot)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  origin: https://file.example.org\n  cohort: c1\nsweep:\n  requests_per_second: 2.5\n"), 0644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.org", cfg.Data.Origin)
	assert.Equal(t, "c1", cfg.Data.Cohort)
	assert.InDelta(t, 2.5, cfg.Sweep.RequestsPerSecond, 0.0001)
	assert.Equal(t, 4, cfg.Sweep.Workers)
}

func TestLoadConfig_VerboseForcesDebug(t *testing.T) {
	v := newTestViper()
	v.Set("verbose", true)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestRequireOrigin(t *testing.T) {
	cfg := model.DefaultConfig()
	assert.Error(t, requireOrigin(cfg))

	cfg.Data.Origin = "https://data.example.org"
	assert.NoError(t, requireOrigin(cfg))
}

func TestSelectedCohort(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Data.Cohort = "c1"

	cohortFlag = ""
	assert.Equal(t, cohort.C1, selectedCohort(cfg))

	cohortFlag = "latest"
	t.Cleanup(func() { cohortFlag = "" })
	assert.Equal(t, cohort.Latest, selectedCohort(cfg))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)

	assert.Error(t, writeDefaultConfig(path), "existing file is not overwritten")
}

func TestSweepGate(t *testing.T) {
	cfg := model.DefaultConfig()
	assert.Len(t, sweepGate(cfg), 1)

	cfg.Sweep.RespectRobots = true
	assert.Len(t, sweepGate(cfg), 2)
}
