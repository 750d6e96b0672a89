// Package jsearch searches Google for Jobs listings through RapidAPI JSearch.
package jsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"go-internship-automation/internal/models"
	"go-internship-automation/internal/scraper"
)

const (
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	rapidAPIHost   = "jsearch.p.rapidapi.com"
)

// Config defines the JSearch provider settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Retry      scraper.RetryPolicy
	// Limiter paces requests; the free tier allows a handful per second.
	Limiter *rate.Limiter
	Clock   func() time.Time
}

// Provider implements scraper.Provider for JSearch
type Provider struct {
	cfg Config
}

func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Limiter == nil {
		cfg.Limiter = rate.NewLimiter(rate.Every(time.Second), 5)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string {
	return "JSearch"
}

type searchResponse struct {
	Data []job `json:"data"`
}

type job struct {
	Title          string  `json:"job_title"`
	EmployerName   string  `json:"employer_name"`
	City           string  `json:"job_city"`
	State          string  `json:"job_state"`
	Country        string  `json:"job_country"`
	Salary         any     `json:"job_salary"`
	SalaryMin      float64 `json:"job_salary_min"`
	SalaryMax      float64 `json:"job_salary_max"`
	SalaryCurrency string  `json:"job_salary_currency"`
	Description    string  `json:"job_description"`
	ApplyLink      string  `json:"job_apply_link"`
	PostedAt       string  `json:"job_posted_at_datetime_utc"`
}

func (p *Provider) Fetch(ctx context.Context, q scraper.Query) ([]models.Listing, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("jsearch: RapidAPI key is required")
	}

	var resp searchResponse
	err := scraper.Retry(ctx, p.cfg.Retry, scraper.TransientStatus, func() error {
		if err := p.cfg.Limiter.Wait(ctx); err != nil {
			return err
		}
		return p.search(ctx, q, &resp)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(resp.Data))
	for _, j := range resp.Data {
		out = append(out, p.mapJob(j, q))
	}
	return out, nil
}

func (p *Provider) search(ctx context.Context, q scraper.Query, out *searchResponse) error {
	values := url.Values{}
	values.Set("query", q.Keywords()+" jobs")
	values.Set("page", "1")
	values.Set("num_pages", "1")
	values.Set("country", "in")
	values.Set("date_posted", "all")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/search?"+values.Encode(), nil)
	if err != nil {
		return fmt.Errorf("jsearch: build request: %w", err)
	}
	req.Header.Set("x-rapidapi-host", rapidAPIHost)
	req.Header.Set("x-rapidapi-key", p.cfg.APIKey)

	return scraper.DoJSON(p.cfg.HTTPClient, p.Name(), req, out)
}

func (p *Provider) mapJob(j job, q scraper.Query) models.Listing {
	l := models.Listing{
		Title:      j.Title,
		Company:    j.EmployerName,
		Location:   "Not specified",
		Stipend:    scraper.NotDisclosed,
		DetailURL:  j.ApplyLink,
		Source:     p.Name(),
		DatePosted: j.PostedAt,
	}
	if j.City != "" {
		l.Location = fmt.Sprintf("%s, %s, %s", j.City, j.State, j.Country)
	}
	if hasSalary(j.Salary) || j.SalaryMin > 0 || j.SalaryMax > 0 {
		l.Stipend = scraper.SalaryRange(j.SalaryMin, j.SalaryMax, q, j.SalaryCurrency)
	}
	l.StipendValue = float64(scraper.FirstNumber(l.Stipend))
	if l.DetailURL == "" {
		l.DetailURL = "Not available"
	}
	if l.DatePosted == "" {
		l.DatePosted = p.cfg.Clock().UTC().Format(time.RFC3339)
	}
	if j.Description != "" {
		l.Description = scraper.ParseDescription(j.Description)
	} else {
		l.Description = scraper.NoDescription()
	}
	return l
}

// hasSalary treats null, zero and empty values as absent.
func hasSalary(v any) bool {
	switch s := v.(type) {
	case nil:
		return false
	case float64:
		return s != 0
	case string:
		return s != ""
	default:
		return true
	}
}
