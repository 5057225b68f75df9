package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/fetch"
	"github.com/kjet-platform/countydata/internal/model"
)

// staticTree serves JSON files keyed by decoded path and answers everything
// else with the dashboard's HTML shell, the way a single-page app host does.
type staticTree struct {
	mu    sync.Mutex
	files map[string]string
	hits  []string
}

func (s *staticTree) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits = append(s.hits, r.URL.Path)
	body, ok := s.files[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>Dashboard</title></head></html>"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func newTestLocator(t *testing.T, files map[string]string) (*Locator, *staticTree) {
	t.Helper()
	tree := &staticTree{files: files}
	srv := httptest.NewServer(tree)
	t.Cleanup(srv.Close)

	cfg := model.DefaultConfig()
	cfg.Data.Origin = srv.URL
	return NewLocatorFromConfig(cfg, nil, nil), tree
}

const murangaResults = `{
  "evaluation_metadata": {"county": "Murang'a", "evaluation_date": "2025-06-30"},
  "eligibility_summary": {"total_applications": 12, "eligible_applications": 9, "ineligible_applications": 3, "eligibility_rate": 75},
  "scoring_summary": {"total_scored": 9, "average_score": 61.5, "highest_score": 88, "lowest_score": 40},
  "application_evaluations": {"APP-001": {"score": 88}}
}`

func TestEvaluationResults_FallsBackToUnderscoreSpelling(t *testing.T) {
	l, tree := newTestLocator(t, map[string]string{
		"/static/data/latest/output-results/Murang_a_evaluation_results.json": murangaResults,
	})

	res, err := l.EvaluationResults(context.Background(), "Murang’a", cohort.Latest)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempts)
	assert.Contains(t, res.URL, "Murang_a_evaluation_results.json")
	assert.Equal(t, "Murang'a", res.Value.Metadata.County)
	assert.Equal(t, 9, res.Value.EligibilitySummary.EligibleApplications)
	assert.InDelta(t, 61.5, res.Value.ScoringSummary.AverageScore, 0.001)
	assert.Contains(t, res.Value.ApplicationEvaluations, "APP-001")
	assert.Equal(t, []string{
		"/static/data/latest/output-results/Murang'a_evaluation_results.json",
		"/static/data/latest/output-results/Murang_a_evaluation_results.json",
	}, tree.hits)
}

func TestEvaluationResults_CohortSelectsTree(t *testing.T) {
	l, _ := newTestLocator(t, map[string]string{
		"/static/data/c1/output-results/Nairobi_evaluation_results.json":     `{"evaluation_metadata":{"county":"Nairobi (c1)"}}`,
		"/static/data/latest/output-results/Nairobi_evaluation_results.json": `{"evaluation_metadata":{"county":"Nairobi"}}`,
	})

	c1, err := l.EvaluationResults(context.Background(), "Nairobi", cohort.Resolve("", "C1"))
	require.NoError(t, err)
	assert.Equal(t, "Nairobi (c1)", c1.Value.Metadata.County)

	latest, err := l.EvaluationResults(context.Background(), "Nairobi", cohort.Resolve("", ""))
	require.NoError(t, err)
	assert.Equal(t, "Nairobi", latest.Value.Metadata.County)
}

func TestEvaluationResults_Exhausted(t *testing.T) {
	l, tree := newTestLocator(t, nil)

	_, err := l.EvaluationResults(context.Background(), "Homa Bay", cohort.Latest)
	require.Error(t, err)

	var exhausted *fetch.ExhaustionError
	require.ErrorAs(t, err, &exhausted)
	assert.Len(t, exhausted.Attempts, len(tree.hits))
	assert.ErrorIs(t, err, fetch.ErrNotJSON)
	assert.Contains(t, err.Error(), "Homabay_evaluation_results.json")
	assert.Contains(t, err.Error(), "Dashboard")
}

func TestFileInventory(t *testing.T) {
	l, _ := newTestLocator(t, map[string]string{
		"/static/data/latest/data_file_inventory.json": `{
		  "APP-001": {"files": [{"filename": "bid.pdf", "absolute_path": "/srv/bid.pdf", "s3_url": "s3://bucket/bid.pdf"}]}
		}`,
	})

	res, err := l.FileInventory(context.Background(), cohort.Latest)
	require.NoError(t, err)
	require.Contains(t, res.Value, "APP-001")
	assert.Equal(t, "s3://bucket/bid.pdf", res.Value["APP-001"].Files[0].S3URL)
}

func TestNationalSummary(t *testing.T) {
	l, _ := newTestLocator(t, map[string]string{
		"/static/data/c1/output-results/national_evaluation_summary.json": `{
		  "national_summary": {"total_applications": 120, "total_eligible": 80},
		  "county_summaries": {"Nairobi": {"eligible": 10}}
		}`,
	})

	res, err := l.NationalSummary(context.Background(), cohort.C1)
	require.NoError(t, err)
	assert.Equal(t, 120, res.Value.National.TotalApplications)
	assert.Contains(t, res.Value.CountySummaries, "Nairobi")
}

func TestRawEntity_CustomTemplate(t *testing.T) {
	l, _ := newTestLocator(t, map[string]string{
		"/static/data/latest/Homabay/summary.json": `{"ok":true}`,
	})

	res, err := l.RawEntity(context.Background(), "Homa Bay", "{}/summary.json", cohort.Latest)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(res.Value))
	assert.Equal(t, 4, res.Attempts)
}
