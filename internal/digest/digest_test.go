package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-internship-automation/internal/dedup"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/scraper"
)

type staticSource []models.Listing

func (s staticSource) Fetch(context.Context, []string, scraper.Query) []models.Listing {
	return s
}

type recordingSender struct {
	sent     []string
	statuses []string
	failURL  string
}

func (r *recordingSender) SendListing(l models.Listing) error {
	if l.DetailURL == r.failURL {
		return errors.New("telegram down")
	}
	r.sent = append(r.sent, l.DetailURL)
	return nil
}

func (r *recordingSender) SendStatus(msg string) error {
	r.statuses = append(r.statuses, msg)
	return nil
}

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func newDigest(t *testing.T, src Source, sender Sender) (*Digest, *dedup.SeenCache) {
	seen := dedup.NewSeenCache(t.TempDir(), nil)
	d := New(src, seen, sender, nil)
	d.delay = 0
	d.now = func() time.Time { return now }
	return d, seen
}

func TestDigest_Run(t *testing.T) {
	src := staticSource{
		{Title: "fresh", DetailURL: "https://a", DatePosted: "2026-10-10"},
		{Title: "old", DetailURL: "https://b", DatePosted: "2026-01-01"},
		{Title: "placeholder", DetailURL: "https://c", Placeholder: true},
		{Title: "no date", DetailURL: "https://d"},
		{Title: "fails", DetailURL: "https://e", DatePosted: "3 days ago"},
	}
	sender := &recordingSender{failURL: "https://e"}
	d, seen := newDigest(t, src, sender)

	report, err := d.Run(context.Background(), []string{"Indeed"}, scraper.Query{Skills: "go"})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Fetched)
	assert.Equal(t, 5, report.Fresh)
	assert.Equal(t, 3, report.Recent)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, []string{"https://a", "https://d"}, sender.sent)
	assert.Equal(t, []string{"Digest done: 2 new of 5 fetched"}, sender.statuses)

	assert.True(t, seen.IsSeen("https://a"))
	assert.False(t, seen.IsSeen("https://e"), "failed sends are retried next run")

	sender.failURL = ""
	report, err = d.Run(context.Background(), nil, scraper.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, "https://e", sender.sent[2])
}

func TestDigest_DryRun(t *testing.T) {
	d, seen := newDigest(t, staticSource{{Title: "fresh", DetailURL: "https://a"}}, nil)

	report, err := d.Run(context.Background(), nil, scraper.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Recent)
	assert.Zero(t, report.Sent)
	assert.False(t, seen.IsSeen("https://a"))
}

func TestDigest_NothingNew(t *testing.T) {
	sender := &recordingSender{}
	d, seen := newDigest(t, staticSource{{Title: "seen", DetailURL: "https://a"}}, sender)
	require.NoError(t, seen.Add("https://a"))

	report, err := d.Run(context.Background(), nil, scraper.Query{})
	require.NoError(t, err)
	assert.Zero(t, report.Fresh)
	assert.Equal(t, []string{"No new listings this run"}, sender.statuses)
}
