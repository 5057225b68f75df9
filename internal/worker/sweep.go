package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/fetch"
	"github.com/kjet-platform/countydata/internal/model"
	"github.com/kjet-platform/countydata/internal/pipeline"
	"github.com/kjet-platform/countydata/internal/variants"
)

// SweepJob resolves one county.
type SweepJob struct {
	Index    int
	Input    string
	Template string
	Cohort   cohort.Cohort
	Locator  *pipeline.Locator
}

// Execute runs the county's sequential candidate trial.
func (j *SweepJob) Execute(ctx context.Context) Result {
	start := time.Now()
	candidates := j.Locator.Resolver().BuildEntityURLs(j.Input, j.Template, j.Cohort)
	res, err := pipeline.LoadEntity[json.RawMessage](ctx, j.Locator, j.Input, j.Template, j.Cohort)

	entry := model.SweepEntry{
		Input:      j.Input,
		County:     variants.Canonical(j.Input),
		Candidates: len(candidates),
		DurationMS: time.Since(start).Milliseconds(),
	}

	if err != nil {
		var exhausted *fetch.ExhaustionError
		if errors.As(err, &exhausted) {
			entry.Attempts = len(exhausted.Attempts)
			entry.Error = exhausted.Last().Error()
		} else {
			entry.Error = err.Error()
		}
	} else {
		entry.Resolved = true
		entry.URL = res.URL
		entry.Attempts = res.Attempts
	}

	return &SweepResult{Index: j.Index, Entry: entry, Err: err}
}

// SweepResult is the outcome of one SweepJob.
type SweepResult struct {
	Index int
	Entry model.SweepEntry
	Err   error
}

// GetError returns the resolution error, if any.
func (r *SweepResult) GetError() error {
	return r.Err
}

// Sweeper resolves one dataset template for many counties.
type Sweeper struct {
	locator     *pipeline.Locator
	concurrency int
}

// NewSweeper creates a sweeper running up to concurrency counties at once.
func NewSweeper(locator *pipeline.Locator, concurrency int) *Sweeper {
	return &Sweeper{
		locator:     locator,
		concurrency: concurrency,
	}
}

// Run resolves template for every name. Names that canonicalize to the same
// county are resolved once. Entries keep input order.
func (s *Sweeper) Run(ctx context.Context, names []string, template string, c cohort.Cohort) *model.SweepReport {
	names = DedupeCounties(names)

	report := &model.SweepReport{
		Dataset: template,
		Cohort:  c.String(),
		Origin:  s.locator.Resolver().Origin(),
		Entries: make([]model.SweepEntry, len(names)),
	}

	pool := NewPool(ctx, s.concurrency)
	pool.Start()

	go func() {
		for i, name := range names {
			job := &SweepJob{
				Index:    i,
				Input:    name,
				Template: template,
				Cohort:   c,
				Locator:  s.locator,
			}
			if !pool.Submit(job) {
				break
			}
		}
		pool.Close()
	}()

	done := make([]bool, len(names))
	for result := range pool.Results() {
		r := result.(*SweepResult)
		report.Entries[r.Index] = r.Entry
		done[r.Index] = true
	}

	for i, ok := range done {
		if ok {
			continue
		}
		report.Entries[i] = model.SweepEntry{
			Input:  names[i],
			County: variants.Canonical(names[i]),
			Error:  fmt.Sprintf("not attempted: %v", context.Cause(ctx)),
		}
	}

	report.GeneratedAt = time.Now().UTC()
	report.Summarize()
	return report
}

// DedupeCounties drops blank names and names whose canonical form was seen
// earlier.
func DedupeCounties(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(variants.Canonical(n))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// ReadNamesFromFile reads county names, one per line. Blank lines and lines
// starting with # are skipped.
func ReadNamesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return DedupeCounties(names), nil
}
