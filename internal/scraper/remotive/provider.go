// Package remotive searches the public Remotive remote-jobs API.
package remotive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-internship-automation/internal/models"
	"go-internship-automation/internal/scraper"
)

const defaultBaseURL = "https://remotive.com"

// Provider implements scraper.Provider for Remotive. It never retries.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	clock      func() time.Time
}

// NewProvider creates a provider. An empty baseURL uses the public API.
func NewProvider(baseURL string, httpClient *http.Client) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		clock:      time.Now,
	}
}

func (p *Provider) Name() string {
	return "Remotive"
}

type jobsResponse struct {
	Jobs []job `json:"jobs"`
}

type job struct {
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	Location        string `json:"candidate_required_location"`
	Salary          string `json:"salary"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	PublicationDate string `json:"publication_date"`
}

func (p *Provider) Fetch(ctx context.Context, q scraper.Query) ([]models.Listing, error) {
	values := url.Values{}
	values.Set("search", q.Skills)
	if q.Field != "" {
		values.Set("category", q.Field)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/remote-jobs?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("remotive: build request: %w", err)
	}

	var resp jobsResponse
	if err := scraper.DoJSON(p.httpClient, p.Name(), req, &resp); err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		l := models.Listing{
			Title:        j.Title,
			Company:      j.CompanyName,
			Location:     j.Location,
			Stipend:      j.Salary,
			StipendValue: float64(scraper.FirstNumber(j.Salary)),
			DetailURL:    j.URL,
			Source:       p.Name(),
			DatePosted:   j.PublicationDate,
		}
		if l.Location == "" {
			l.Location = "Remote"
		}
		if l.Stipend == "" {
			l.Stipend = scraper.NotDisclosed
		}
		if l.DatePosted == "" {
			l.DatePosted = p.clock().UTC().Format(time.RFC3339)
		}
		if j.Description != "" {
			l.Description = scraper.ParseDescription(j.Description)
		} else {
			l.Description = scraper.NoDescription()
		}
		out = append(out, l)
	}
	return out, nil
}
