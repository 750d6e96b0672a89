package models

import (
	"fmt"
	"time"
)

// ApplyStatus is the final outcome of one apply attempt. Every matched
// listing ends up in exactly one status.
type ApplyStatus string

const (
	StatusApplied                  ApplyStatus = "Applied"
	StatusInProgress               ApplyStatus = "In Progress"
	StatusFormDetectedNotSubmitted ApplyStatus = "Form detected, but not submitted"
	StatusRedirectedNoForm         ApplyStatus = "Redirected, but no form"
	StatusSingleClickApplied       ApplyStatus = "Single-click applied"
	StatusButtonNotVisible         ApplyStatus = "Button not visible"
	StatusNoButtonFound            ApplyStatus = "No button found"
	StatusError                    ApplyStatus = "Error"
	StatusNotAttempted             ApplyStatus = "Not attempted"
)

// ApplicationOutcome is created when an attempt starts and finalized once.
type ApplicationOutcome struct {
	Index   int         `json:"index"`
	Status  ApplyStatus `json:"status"`
	Message string      `json:"message,omitempty"`
}

func (o ApplicationOutcome) String() string {
	if o.Status == StatusError && o.Message != "" {
		return fmt.Sprintf("%s: %s", o.Status, o.Message)
	}
	return string(o.Status)
}

// ApplyResult is the auto-apply response.
type ApplyResult struct {
	RunID        string               `json:"runId"`
	Message      string               `json:"message"`
	TotalMatched int                  `json:"totalMatched"`
	Statuses     []ApplicationOutcome `json:"statuses"`
	Summary      map[ApplyStatus]int  `json:"summary"`
	Top          []ScoredListing      `json:"top,omitempty"`
	FinishedAt   time.Time            `json:"finishedAt"`
}

// Recommendation is the recommendation response.
type Recommendation struct {
	Recommendations []ScoredListing `json:"recommendations"`
	AppliedCount    int             `json:"appliedCount"`
	// Fallback is true when the scrape failed and the mock dataset was used.
	Fallback bool `json:"fallback"`
}

// SkillMatch is the skill-match analysis response.
type SkillMatch struct {
	Analysis        string   `json:"analysis"`
	SimilarityScore float64  `json:"similarityScore"`
	MissingSkills   []string `json:"missingSkills"`
	Suggestions     string   `json:"suggestions"`
}
