package model

import "time"

// SweepReport is the result of resolving one dataset for many counties.
type SweepReport struct {
	Dataset     string       `json:"dataset"`      // Path template that was resolved
	Cohort      string       `json:"cohort"`       // Cohort the sweep ran against
	Origin      string       `json:"origin"`       // Base origin of every candidate URL
	GeneratedAt time.Time    `json:"generated_at"` // When the sweep finished
	Entries     []SweepEntry `json:"entries"`      // One per distinct county, input order
	Summary     SweepSummary `json:"summary"`
}

// SweepEntry records how a single county resolved.
type SweepEntry struct {
	Input      string `json:"input"`  // Name as given
	County     string `json:"county"` // Canonical display name
	Resolved   bool   `json:"resolved"`
	URL        string `json:"url,omitempty"` // Candidate that succeeded
	Attempts   int    `json:"attempts"`      // Candidates tried
	Candidates int    `json:"candidates"`    // Candidates available
	Error      string `json:"error,omitempty"` // Last candidate error when unresolved
	DurationMS int64  `json:"duration_ms"`
}

// SweepSummary counts sweep outcomes.
type SweepSummary struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
	Fallbacks  int `json:"fallbacks"` // Resolved, but not on the first candidate
}

// Summarize fills in r.Summary from r.Entries.
func (r *SweepReport) Summarize() {
	s := SweepSummary{Total: len(r.Entries)}
	for _, e := range r.Entries {
		if !e.Resolved {
			s.Unresolved++
			continue
		}
		s.Resolved++
		if e.Attempts > 1 {
			s.Fallbacks++
		}
	}
	r.Summary = s
}
