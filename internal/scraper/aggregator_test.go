package scraper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-internship-automation/internal/models"
)

type fakeProvider struct {
	name     string
	listings []models.Listing
	err      error
	delay    time.Duration
	panics   bool
	calls    atomic.Int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context, _ Query) ([]models.Listing, error) {
	f.calls.Add(1)
	if f.panics {
		var seen map[string]int
		seen[f.name]++
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.listings, f.err
}

func titled(source string, stipend string, titles ...string) []models.Listing {
	out := make([]models.Listing, 0, len(titles))
	for _, t := range titles {
		out = append(out, models.Listing{Title: t, Source: source, Stipend: stipend})
	}
	return out
}

func titles(listings []models.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestAggregator_Fetch(t *testing.T) {
	tests := []struct {
		name      string
		providers []*fakeProvider
		platforms []string
		query     Query
		expected  []string
	}{
		{
			name: "Request order is kept regardless of completion order",
			providers: []*fakeProvider{
				{name: "Slow", listings: titled("Slow", "10000", "s1", "s2"), delay: 30 * time.Millisecond},
				{name: "Fast", listings: titled("Fast", "10000", "f1")},
			},
			platforms: []string{"slow", "fast"},
			expected:  []string{"s1", "s2", "f1"},
		},
		{
			name: "Failing provider contributes nothing",
			providers: []*fakeProvider{
				{name: "Broken", err: errors.New("boom")},
				{name: "Fine", listings: titled("Fine", "10000", "ok")},
			},
			platforms: []string{"Broken", "Fine"},
			expected:  []string{"ok"},
		},
		{
			name: "Panicking provider contributes nothing",
			providers: []*fakeProvider{
				{name: "Crashy", panics: true},
				{name: "Remotive", listings: titled("Remotive", "10000", "remote")},
			},
			platforms: []string{"Crashy", "Remotive"},
			expected:  []string{"remote"},
		},
		{
			name: "Unknown platform is skipped",
			providers: []*fakeProvider{
				{name: "Fine", listings: titled("Fine", "10000", "ok")},
			},
			platforms: []string{"Monster", " fine "},
			expected:  []string{"ok"},
		},
		{
			name: "Stipend range filters listings",
			providers: []*fakeProvider{
				{name: "Mixed", listings: []models.Listing{
					{Title: "low", Stipend: "5,000 - 8,000 INR"},
					{Title: "mid", Stipend: "12,000 - 15,000 INR"},
					{Title: "high", Stipend: "₹ 40,000 /month"},
					{Title: "undisclosed", Stipend: NotDisclosed},
				}},
			},
			platforms: []string{"mixed"},
			query:     Query{MinStipend: 10000, MaxStipend: 20000},
			expected:  []string{"mid"},
		},
		{
			name: "Zero max is unbounded",
			providers: []*fakeProvider{
				{name: "Mixed", listings: []models.Listing{
					{Title: "mid", Stipend: "12,000 - 15,000 INR"},
					{Title: "high", Stipend: "₹ 40,000 /month"},
				}},
			},
			platforms: []string{"mixed"},
			query:     Query{MinStipend: 10000},
			expected:  []string{"mid", "high"},
		},
		{
			name:      "No platforms yields empty slice",
			platforms: nil,
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers := make([]Provider, 0, len(tt.providers))
			for _, p := range tt.providers {
				providers = append(providers, p)
			}
			agg := NewAggregator(nil, time.Second, providers...)

			got := agg.Fetch(context.Background(), tt.platforms, tt.query)
			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, titles(got))
		})
	}
}

func TestAggregator_CallTimeout(t *testing.T) {
	hung := &fakeProvider{name: "Hung", listings: titled("Hung", "1", "late"), delay: time.Minute}
	quick := &fakeProvider{name: "Quick", listings: titled("Quick", "1", "q")}
	agg := NewAggregator(nil, 50*time.Millisecond, hung, quick)

	start := time.Now()
	got := agg.Fetch(context.Background(), []string{"hung", "quick"}, Query{})

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, []string{"q"}, titles(got))
	assert.Equal(t, int32(1), hung.calls.Load())
}

func TestAggregator_Platforms(t *testing.T) {
	agg := NewAggregator(nil, 0,
		&fakeProvider{name: "Indeed"},
		&fakeProvider{name: "JSearch"},
		&fakeProvider{name: "indeed"},
	)
	assert.Equal(t, []string{"Indeed", "JSearch"}, agg.Platforms())
}
