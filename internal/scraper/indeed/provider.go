// Package indeed searches Indeed through the RapidAPI indeed12 endpoint.
package indeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-internship-automation/internal/models"
	"go-internship-automation/internal/scraper"
)

const (
	defaultBaseURL = "https://indeed12.p.rapidapi.com"
	rapidAPIHost   = "indeed12.p.rapidapi.com"
)

// Config defines the Indeed provider settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Retry      scraper.RetryPolicy
	Clock      func() time.Time
}

// Provider implements scraper.Provider for Indeed
type Provider struct {
	cfg Config
}

func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string {
	return "Indeed"
}

type searchResponse struct {
	Hits []hit `json:"hits"`
}

type hit struct {
	Title       string  `json:"title"`
	CompanyName string  `json:"company_name"`
	Location    string  `json:"location"`
	Salary      *salary `json:"salary"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	JobKey      string  `json:"jobkey"`
	DatePosted  string  `json:"date_posted"`
}

type salary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Fetch retries rate limiting, server errors and the 403 Indeed sends when
// the subscription quota is momentarily exhausted.
func (p *Provider) Fetch(ctx context.Context, q scraper.Query) ([]models.Listing, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("indeed: RapidAPI key is required")
	}

	var resp searchResponse
	err := scraper.Retry(ctx, p.cfg.Retry, retryable, func() error {
		return p.search(ctx, q, &resp)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		out = append(out, p.mapHit(h, q))
	}
	return out, nil
}

func (p *Provider) search(ctx context.Context, q scraper.Query, out *searchResponse) error {
	values := url.Values{}
	values.Set("query", q.Keywords())
	values.Set("locality", "in")
	values.Set("start", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/jobs/search?"+values.Encode(), nil)
	if err != nil {
		return fmt.Errorf("indeed: build request: %w", err)
	}
	req.Header.Set("x-rapidapi-host", rapidAPIHost)
	req.Header.Set("x-rapidapi-key", p.cfg.APIKey)

	return scraper.DoJSON(p.cfg.HTTPClient, p.Name(), req, out)
}

func retryable(err error) bool {
	var se *scraper.StatusError
	if errors.As(err, &se) && se.Code == http.StatusForbidden {
		return true
	}
	return scraper.TransientStatus(err)
}

func (p *Provider) mapHit(h hit, q scraper.Query) models.Listing {
	l := models.Listing{
		Title:      h.Title,
		Company:    h.CompanyName,
		Location:   h.Location,
		Stipend:    scraper.NotDisclosed,
		DetailURL:  h.URL,
		Source:     p.Name(),
		DatePosted: h.DatePosted,
	}
	if l.Location == "" {
		l.Location = "Not specified"
	}
	if h.Salary != nil {
		l.Stipend = scraper.SalaryRange(h.Salary.Min, h.Salary.Max, q, "INR")
	}
	l.StipendValue = float64(scraper.FirstNumber(l.Stipend))
	if l.DetailURL == "" {
		l.DetailURL = "https://in.indeed.com/viewjob?jk=" + url.QueryEscape(h.JobKey)
	}
	if l.DatePosted == "" {
		l.DatePosted = p.cfg.Clock().UTC().Format(time.RFC3339)
	}
	if h.Description != "" {
		l.Description = scraper.ParseDescription(h.Description)
	} else {
		l.Description = scraper.NoDescription()
	}
	return l
}
