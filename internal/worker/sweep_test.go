package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/fetch"
	"github.com/kjet-platform/countydata/internal/model"
	"github.com/kjet-platform/countydata/internal/pipeline"
	"github.com/kjet-platform/countydata/internal/staticpath"
)

func newSweepLocator(t *testing.T, files map[string]bool) *pipeline.Locator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !files[r.URL.Path] {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"evaluation_metadata":{}}`))
	}))
	t.Cleanup(srv.Close)

	cfg := model.DefaultConfig()
	return pipeline.NewLocator(
		staticpath.NewResolver(srv.URL, ""),
		fetch.NewFetcher(cfg.HTTP).WithGate(NewLimiter(0, 0)),
		nil,
		nil,
	)
}

func TestSweeper_Run(t *testing.T) {
	locator := newSweepLocator(t, map[string]bool{
		"/static/data/latest/output-results/Muranga_evaluation_results.json": true,
		"/static/data/latest/output-results/Nairobi_evaluation_results.json": true,
	})

	names := []string{"Murang'a", "Nairobi", "Atlantis", "muranga", ""}
	report := NewSweeper(locator, 3).Run(context.Background(), names, pipeline.EvaluationResultsTemplate, cohort.Latest)

	require.Len(t, report.Entries, 3)
	assert.Equal(t, pipeline.EvaluationResultsTemplate, report.Dataset)
	assert.Equal(t, "latest", report.Cohort)
	assert.False(t, report.GeneratedAt.IsZero())

	muranga := report.Entries[0]
	assert.Equal(t, "Murang'a", muranga.County)
	assert.True(t, muranga.Resolved)
	assert.Equal(t, 3, muranga.Attempts)
	assert.Equal(t, 3, muranga.Candidates)
	assert.Contains(t, muranga.URL, "Muranga_evaluation_results.json")

	nairobi := report.Entries[1]
	assert.True(t, nairobi.Resolved)
	assert.Equal(t, 1, nairobi.Attempts)

	atlantis := report.Entries[2]
	assert.False(t, atlantis.Resolved)
	assert.Equal(t, 1, atlantis.Attempts)
	assert.Contains(t, atlantis.Error, "404")
	assert.Contains(t, atlantis.Error, "Atlantis_evaluation_results.json")

	assert.Equal(t, model.SweepSummary{Total: 3, Resolved: 2, Unresolved: 1, Fallbacks: 1}, report.Summary)
}

func TestSweeper_RunCancelled(t *testing.T) {
	locator := newSweepLocator(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewSweeper(locator, 2).Run(ctx, []string{"Nairobi", "Kisumu", "Kwale"}, pipeline.EvaluationResultsTemplate, cohort.C1)

	require.Len(t, report.Entries, 3)
	assert.Equal(t, 3, report.Summary.Unresolved)
	for _, e := range report.Entries {
		assert.False(t, e.Resolved)
		assert.NotEmpty(t, e.Error)
	}
}

func TestDedupeCounties(t *testing.T) {
	got := DedupeCounties([]string{"Homa Bay", " homabay ", "HOMA_BAY", "", "Nairobi", "nairobi", "Murang'a", "Murang_a"})
	assert.Equal(t, []string{"Homa Bay", "Nairobi", "Murang'a"}, got)
}

func TestReadNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.txt")
	content := "# coastal\nMombasa\n\nKwale\n  mombasa  \n# lake\nHoma Bay\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	names, err := ReadNamesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mombasa", "Kwale", "Homa Bay"}, names)
}

func TestReadNamesFromFile_Missing(t *testing.T) {
	_, err := ReadNamesFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
