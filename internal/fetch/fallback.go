package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kjet-platform/countydata/internal/observability"
)

// Getter retrieves one candidate. *Fetcher implements it.
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// Result is the first candidate that parsed.
type Result[T any] struct {
	Value    T
	URL      string // candidate that succeeded
	Attempts int    // candidates tried, including the successful one
}

// Option configures FetchFirst.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// WithLogger logs every attempt at debug and the outcome at info or warn.
// A nil logger keeps the default, which discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records attempts and resolutions.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// FetchFirst tries urls strictly in order and returns the first that yields a
// 2xx, JSON-typed, parseable response. No further candidates are requested
// after a success. When all fail it returns an *ExhaustionError whose message
// is the last candidate's error. A cancelled ctx stops the loop and returns
// ctx.Err().
func FetchFirst[T any](ctx context.Context, g Getter, urls []string, opts ...Option) (Result[T], error) {
	o := options{logger: observability.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	var zero Result[T]
	exhausted := &ExhaustionError{}

	if len(urls) == 0 {
		exhausted.Attempts = append(exhausted.Attempts, &AttemptError{Err: ErrNoCandidates})
		o.metrics.ObserveResolution(false, 0)
		o.logger.Warn("no candidates to resolve")
		return zero, exhausted
	}

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		start := time.Now()
		value, err := fetchOne[T](ctx, g, u)
		o.metrics.ObserveAttempt(Outcome(err), time.Since(start))

		if err == nil {
			o.metrics.ObserveResolution(true, i+1)
			o.logger.Info("candidate resolved", "url", u, "attempts", i+1)
			return Result[T]{Value: value, URL: u, Attempts: i + 1}, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		o.logger.Debug("candidate failed", "url", u, "attempt", i+1, "outcome", Outcome(err), "error", err)
		exhausted.Attempts = append(exhausted.Attempts, &AttemptError{URL: u, Err: err})
	}

	o.metrics.ObserveResolution(false, len(urls))
	o.logger.Warn("all candidates failed", "candidates", len(urls), "error", exhausted.Last())
	return zero, exhausted
}

// FetchFirstSuccess is FetchFirst without the resolution details.
func FetchFirstSuccess[T any](ctx context.Context, g Getter, urls []string, opts ...Option) (T, error) {
	res, err := FetchFirst[T](ctx, g, urls, opts...)
	return res.Value, err
}

func fetchOne[T any](ctx context.Context, g Getter, rawURL string) (T, error) {
	var v T
	resp, err := g.Fetch(ctx, rawURL)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return v, nil
}
