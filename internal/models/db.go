package models

import (
	"time"
)

// ApplicationRun is one persisted auto-apply batch.
type ApplicationRun struct {
	ID           string               `json:"id"`
	UserKey      string               `json:"user_key"`
	Type         ListingType          `json:"type"`
	Role         string               `json:"role"`
	TotalMatched int                  `json:"total_matched"`
	Outcomes     []TrackedApplication `json:"outcomes"`
	CreatedAt    time.Time            `json:"created_at"`
}

// TrackedApplication is one listing attempted within a run.
type TrackedApplication struct {
	RunID     string      `json:"run_id"`
	Index     int         `json:"index"`
	Title     string      `json:"title"`
	Company   string      `json:"company"`
	DetailURL string      `json:"url"`
	Score     float64     `json:"score"`
	Status    ApplyStatus `json:"status"`
	Message   string      `json:"message,omitempty"`
}
