// Package scraper fans a search out to external listing providers and merges
// the results. Each provider lives in its own subpackage.
package scraper

import (
	"context"
	"fmt"
	"net/http"

	"go-internship-automation/internal/models"
)

// Query is one multi-platform search.
type Query struct {
	Skills     string
	Field      string
	MinStipend int
	MaxStipend int
}

// Keywords is the free-text search sent to providers.
func (q Query) Keywords() string {
	if q.Field == "" {
		return q.Skills
	}
	return q.Skills + " " + q.Field
}

// Provider defines the interface that every listing source must implement
type Provider interface {
	// Name is the platform name (Indeed, JSearch, ...)
	Name() string

	// Fetch returns normalized listings for the query
	Fetch(ctx context.Context, q Query) ([]models.Listing, error)
}

// StatusError is a non-2xx answer from a provider API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s API error (status %d)", e.Provider, e.Code)
	switch e.Code {
	case http.StatusForbidden:
		msg = fmt.Sprintf("%s API: Forbidden - check API key or subscription", e.Provider)
	case http.StatusTooManyRequests:
		msg = fmt.Sprintf("%s API: Too Many Requests - rate limit exceeded", e.Provider)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Transient reports rate limiting and server-side failures.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}
