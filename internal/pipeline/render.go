package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kjet-platform/countydata/internal/model"
)

// Renderer writes sweep reports.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON to path.
func (r *Renderer) RenderJSON(report *model.SweepReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown table to path.
func (r *Renderer) RenderMarkdown(report *model.SweepReport, path string) error {
	var b strings.Builder
	r.WriteMarkdown(&b, report)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteMarkdown renders the report as Markdown.
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.SweepReport) {
	fmt.Fprintf(w, "# Sweep: `%s` (%s)\n\n", report.Dataset, report.Cohort)
	if report.Origin != "" {
		fmt.Fprintf(w, "Origin: %s\n\n", report.Origin)
	}
	fmt.Fprintf(w, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	s := report.Summary
	fmt.Fprintf(w, "Resolved %d of %d (%d via fallback), %d unresolved.\n\n", s.Resolved, s.Total, s.Fallbacks, s.Unresolved)

	fmt.Fprintln(w, "| County | Input | Result | Attempts | Detail |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, e := range report.Entries {
		result, detail := "resolved", e.URL
		if !e.Resolved {
			result, detail = "failed", e.Error
		}
		fmt.Fprintf(w, "| %s | %s | %s | %d/%d | %s |\n",
			escapeCell(e.County), escapeCell(e.Input), result, e.Attempts, e.Candidates, escapeCell(detail))
	}
}

// RenderSummary prints a one-screen summary.
func (r *Renderer) RenderSummary(w io.Writer, report *model.SweepReport) {
	for _, e := range report.Entries {
		if e.Resolved {
			marker := "✓"
			if e.Attempts > 1 {
				marker = "↪"
			}
			fmt.Fprintf(w, "%s %-18s %s\n", marker, e.County, e.URL)
			continue
		}
		fmt.Fprintf(w, "✗ %-18s %s\n", e.County, e.Error)
	}

	s := report.Summary
	fmt.Fprintf(w, "\n  Total:      %d\n", s.Total)
	fmt.Fprintf(w, "  Resolved:   %d\n", s.Resolved)
	fmt.Fprintf(w, "  Fallbacks:  %d\n", s.Fallbacks)
	fmt.Fprintf(w, "  Unresolved: %d\n", s.Unresolved)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
