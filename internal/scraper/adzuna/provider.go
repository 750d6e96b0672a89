package adzuna

import (
	"context"
	"fmt"
	"time"

	"go-internship-automation/internal/models"
	"go-internship-automation/internal/scraper"
)

// Provider implements scraper.Provider using the Adzuna API
type Provider struct {
	client *Client
	where  string
}

// NewProvider builds an Adzuna provider. where narrows results to a
// location and may be empty.
func NewProvider(client *Client, where string) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client, where: where}, nil
}

func (p *Provider) Name() string {
	return "Adzuna"
}

func (p *Provider) Fetch(ctx context.Context, q scraper.Query) ([]models.Listing, error) {
	postings, err := p.client.search(ctx, q.Keywords(), p.where)
	if err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(postings))
	for _, posting := range postings {
		out = append(out, p.mapPosting(posting, q))
	}
	return out, nil
}

func (p *Provider) mapPosting(posting posting, q scraper.Query) models.Listing {
	l := models.Listing{
		Title:     posting.Title,
		Company:   posting.Company.DisplayName,
		Location:  posting.Location.DisplayName,
		Stipend:   scraper.NotDisclosed,
		DetailURL: posting.RedirectURL,
		Source:    p.Name(),
	}
	if posting.SalaryMin > 0 || posting.SalaryMax > 0 {
		l.Stipend = scraper.SalaryRange(posting.SalaryMin, posting.SalaryMax, q, "INR")
	}
	l.StipendValue = float64(scraper.FirstNumber(l.Stipend))

	if ts, err := time.Parse(time.RFC3339, posting.Created); err == nil {
		l.DatePosted = ts.UTC().Format(time.RFC3339)
	} else {
		l.DatePosted = time.Now().UTC().Format(time.RFC3339)
	}

	if posting.Description != "" {
		l.Description = scraper.ParseDescription(posting.Description)
	} else {
		l.Description = scraper.NoDescription()
	}
	return l
}
