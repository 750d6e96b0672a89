package ai

import (
	"context"
	"errors"
)

// ErrUnavailable means no similarity backend is configured.
var ErrUnavailable = errors.New("ai: similarity backend unavailable")

// Client is the interface for sentence-similarity providers
type Client interface {
	// Similarity scores how close target is to source, in [0,1].
	Similarity(ctx context.Context, source, target string) (float64, error)
}
