// Package digest sends newly found listings to Telegram once. It is meant to
// run on a schedule.
package digest

import (
	"context"
	"fmt"
	"time"

	"go-internship-automation/internal/dedup"
	"go-internship-automation/internal/filter"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/scraper"
)

// Source is the multi-platform search.
type Source interface {
	Fetch(ctx context.Context, platforms []string, q scraper.Query) []models.Listing
}

// Sender posts listings. A nil Sender makes Run a dry run.
type Sender interface {
	SendListing(l models.Listing) error
	SendStatus(message string) error
}

type Digest struct {
	source Source
	seen   *dedup.SeenCache
	sender Sender
	log    *logging.Logger
	// delay between messages keeps the bot under Telegram's per-chat limit.
	delay time.Duration
	now   func() time.Time
}

func New(source Source, seen *dedup.SeenCache, sender Sender, log *logging.Logger) *Digest {
	if log == nil {
		log = logging.Nop()
	}
	return &Digest{
		source: source,
		seen:   seen,
		sender: sender,
		log:    log,
		delay:  time.Second,
		now:    time.Now,
	}
}

// Report counts what one run did.
type Report struct {
	Fetched  int              `json:"fetched"`
	Fresh    int              `json:"fresh"`
	Recent   int              `json:"recent"`
	Sent     int              `json:"sent"`
	Listings []models.Listing `json:"listings"`
}

// Run fetches, drops listings already sent in the last 30 days and old
// postings, sends the rest and marks every sent listing as seen. Placeholder
// records are never sent. In a dry run nothing is marked.
func (d *Digest) Run(ctx context.Context, platforms []string, q scraper.Query) (Report, error) {
	var r Report

	listings := d.source.Fetch(ctx, platforms, q)
	r.Fetched = len(listings)

	fresh := d.seen.Unseen(listings)
	r.Fresh = len(fresh)

	now := d.now()
	recent := make([]models.Listing, 0, len(fresh))
	for _, l := range fresh {
		if l.Placeholder || !filter.IsRecent(l.DatePosted, now) {
			continue
		}
		recent = append(recent, l)
	}
	r.Recent = len(recent)
	r.Listings = recent
	d.log.Info("🔍 Digest filtered", "fetched", r.Fetched, "fresh", r.Fresh, "recent", r.Recent)

	if d.sender == nil {
		return r, nil
	}

	for i, l := range recent {
		if i > 0 {
			select {
			case <-ctx.Done():
				return r, ctx.Err()
			case <-time.After(d.delay):
			}
		}
		if err := d.sender.SendListing(l); err != nil {
			d.log.Warn("⚠️ Failed to send listing", "url", l.DetailURL, "error", err)
			continue
		}
		if err := d.seen.Add(l.DetailURL); err != nil {
			d.log.Warn("⚠️ Failed to persist seen listing", "url", l.DetailURL, "error", err)
		}
		r.Sent++
	}

	status := fmt.Sprintf("Digest done: %d new of %d fetched", r.Sent, r.Fetched)
	if r.Sent == 0 {
		status = "No new listings this run"
	}
	if err := d.sender.SendStatus(status); err != nil {
		return r, fmt.Errorf("send digest status: %w", err)
	}
	return r, nil
}
