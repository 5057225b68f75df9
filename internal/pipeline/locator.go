// Package pipeline wires path resolution and candidate fetching into the
// dataset lookups the dashboards make.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/fetch"
	"github.com/kjet-platform/countydata/internal/model"
	"github.com/kjet-platform/countydata/internal/observability"
	"github.com/kjet-platform/countydata/internal/staticpath"
)

// Published dataset paths, relative to a cohort directory.
const (
	EvaluationResultsTemplate = "output-results/{}_evaluation_results.json"
	FileInventoryPath         = "data_file_inventory.json"
	NationalSummaryPath       = "output-results/national_evaluation_summary.json"
)

// Locator resolves logical datasets to parsed payloads. It keeps no state
// between calls.
type Locator struct {
	resolver *staticpath.Resolver
	getter   fetch.Getter
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewLocator creates a Locator. logger and metrics may be nil.
func NewLocator(resolver *staticpath.Resolver, getter fetch.Getter, logger *slog.Logger, metrics *observability.Metrics) *Locator {
	if logger == nil {
		logger = observability.Discard()
	}
	return &Locator{
		resolver: resolver,
		getter:   getter,
		logger:   logger,
		metrics:  metrics,
	}
}

// NewLocatorFromConfig builds the resolver and fetcher from cfg.
func NewLocatorFromConfig(cfg *model.Config, logger *slog.Logger, metrics *observability.Metrics) *Locator {
	return NewLocator(
		staticpath.NewResolver(cfg.Data.Origin, cfg.Data.DataRoot),
		fetch.NewFetcher(cfg.HTTP),
		logger,
		metrics,
	)
}

// Resolver returns the path resolver.
func (l *Locator) Resolver() *staticpath.Resolver {
	return l.resolver
}

func (l *Locator) options(attrs ...any) []fetch.Option {
	return []fetch.Option{
		fetch.WithLogger(l.logger.With(attrs...)),
		fetch.WithMetrics(l.metrics),
	}
}

// LoadEntity resolves the dataset for entityName under pathTemplate, trying
// every name variant in order.
func LoadEntity[T any](ctx context.Context, l *Locator, entityName, pathTemplate string, c cohort.Cohort) (fetch.Result[T], error) {
	urls := l.resolver.BuildEntityURLs(entityName, pathTemplate, c)
	res, err := fetch.FetchFirst[T](ctx, l.getter, urls, l.options("entity", entityName, "cohort", c.String())...)
	if err != nil {
		return res, fmt.Errorf("load %s for %q: %w", pathTemplate, entityName, err)
	}
	return res, nil
}

// LoadPath resolves a dataset with a single fixed path.
func LoadPath[T any](ctx context.Context, l *Locator, path string, c cohort.Cohort) (fetch.Result[T], error) {
	urls := []string{l.resolver.BuildURL(path, c)}
	res, err := fetch.FetchFirst[T](ctx, l.getter, urls, l.options("path", path, "cohort", c.String())...)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", path, err)
	}
	return res, nil
}

// EvaluationResults loads a county's evaluation results.
func (l *Locator) EvaluationResults(ctx context.Context, county string, c cohort.Cohort) (fetch.Result[model.EvaluationResults], error) {
	return LoadEntity[model.EvaluationResults](ctx, l, county, EvaluationResultsTemplate, c)
}

// FileInventory loads the application file inventory.
func (l *Locator) FileInventory(ctx context.Context, c cohort.Cohort) (fetch.Result[model.FileInventory], error) {
	return LoadPath[model.FileInventory](ctx, l, FileInventoryPath, c)
}

// NationalSummary loads the cross-county evaluation summary.
func (l *Locator) NationalSummary(ctx context.Context, c cohort.Cohort) (fetch.Result[model.NationalSummary], error) {
	return LoadPath[model.NationalSummary](ctx, l, NationalSummaryPath, c)
}

// RawEntity resolves any entity template and returns the payload unparsed.
func (l *Locator) RawEntity(ctx context.Context, entityName, pathTemplate string, c cohort.Cohort) (fetch.Result[json.RawMessage], error) {
	return LoadEntity[json.RawMessage](ctx, l, entityName, pathTemplate, c)
}

// RawPath resolves a fixed dataset path and returns the payload unparsed.
func (l *Locator) RawPath(ctx context.Context, path string, c cohort.Cohort) (fetch.Result[json.RawMessage], error) {
	return LoadPath[json.RawMessage](ctx, l, path, c)
}
