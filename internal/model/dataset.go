package model

import "encoding/json"

// Payload shapes handed to presentation code. Only the fields a caller reads
// are declared; everything else in the published JSON is ignored.

// FileInventory maps an application id to the files published for it.
type FileInventory map[string]ApplicationFiles

// ApplicationFiles is one entry of the file inventory.
type ApplicationFiles struct {
	Files []FileEntry `json:"files"`
}

// FileEntry describes a single published document.
type FileEntry struct {
	Filename     string `json:"filename"`
	AbsolutePath string `json:"absolute_path"`
	S3URL        string `json:"s3_url"`
}

// EvaluationResults is the per-county evaluation output.
type EvaluationResults struct {
	Metadata               EvaluationMetadata         `json:"evaluation_metadata"`
	EligibilitySummary     EligibilitySummary         `json:"eligibility_summary"`
	ScoringSummary         ScoringSummary             `json:"scoring_summary"`
	ApplicationEvaluations map[string]json.RawMessage `json:"application_evaluations"`
}

// EvaluationMetadata identifies the county an evaluation belongs to.
type EvaluationMetadata struct {
	County         string `json:"county"`
	EvaluationDate string `json:"evaluation_date,omitempty"`
}

// EligibilitySummary counts eligible and ineligible applications.
type EligibilitySummary struct {
	TotalApplications        int            `json:"total_applications"`
	EligibleApplications     int            `json:"eligible_applications"`
	IneligibleApplications   int            `json:"ineligible_applications"`
	EligibilityRate          float64        `json:"eligibility_rate"`
	CriteriaFailureBreakdown map[string]int `json:"criteria_failure_breakdown,omitempty"`
}

// ScoringSummary holds the score distribution of scored applications.
type ScoringSummary struct {
	TotalScored       int            `json:"total_scored"`
	AverageScore      float64        `json:"average_score"`
	HighestScore      float64        `json:"highest_score"`
	LowestScore       float64        `json:"lowest_score"`
	ScoreDistribution map[string]int `json:"score_distribution,omitempty"`
}

// NationalSummary aggregates evaluation results across counties.
type NationalSummary struct {
	National struct {
		TotalApplications       int     `json:"total_applications"`
		TotalEligible           int     `json:"total_eligible"`
		TotalIneligible         int     `json:"total_ineligible"`
		NationalEligibilityRate float64 `json:"national_eligibility_rate"`
		TotalScored             int     `json:"total_scored"`
		NationalAverageScore    float64 `json:"national_average_score"`
	} `json:"national_summary"`
	CountySummaries map[string]json.RawMessage `json:"county_summaries"`
}
