package indeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-internship-automation/internal/scraper"
)

const hitsJSON = `{"hits":[
{"title":"Go Intern","company_name":"Acme","location":"Pune","salary":{"min":10000,"max":15000},"description":"<div class=\"h3\">About</div><p>Ship Go.</p>","url":"https://in.indeed.com/viewjob?jk=1","jobkey":"1","date_posted":"2026-10-01"},
{"title":"Data Intern","company_name":"Beta","jobkey":"abc"}
]}`

func fixedClock() time.Time {
	return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
}

func TestProvider_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/search", r.URL.Path)
		assert.Equal(t, "golang backend", r.URL.Query().Get("query"))
		assert.Equal(t, "in", r.URL.Query().Get("locality"))
		assert.Equal(t, "secret", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, rapidAPIHost, r.Header.Get("x-rapidapi-host"))
		w.Write([]byte(hitsJSON))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIKey: "secret", BaseURL: srv.URL, Clock: fixedClock})
	got, err := p.Fetch(context.Background(), scraper.Query{Skills: "golang", Field: "backend", MinStipend: 5000, MaxStipend: 20000})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Indeed", got[0].Source)
	assert.Equal(t, "10000 - 15000 INR", got[0].Stipend)
	assert.Equal(t, float64(10000), got[0].StipendValue)
	assert.Equal(t, "Pune", got[0].Location)
	_, ok := got[0].Description.Section("About")
	assert.True(t, ok)

	assert.Equal(t, "Not specified", got[1].Location)
	assert.Equal(t, scraper.NotDisclosed, got[1].Stipend)
	assert.Equal(t, "https://in.indeed.com/viewjob?jk=abc", got[1].DetailURL)
	assert.Equal(t, "2026-10-18T09:00:00Z", got[1].DatePosted)
	assert.Equal(t, scraper.NoDescription(), got[1].Description)
}

func TestProvider_RetriesForbidden(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"hits":[]}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIKey: "secret", BaseURL: srv.URL, Retry: scraper.RetryPolicy{Retries: 2, Initial: time.Millisecond}})
	got, err := p.Fetch(context.Background(), scraper.Query{Skills: "go"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProvider_Errors(t *testing.T) {
	t.Run("Missing key", func(t *testing.T) {
		_, err := NewProvider(Config{}).Fetch(context.Background(), scraper.Query{Skills: "go"})
		assert.ErrorContains(t, err, "RapidAPI key is required")
	})

	t.Run("Bad request is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		p := NewProvider(Config{APIKey: "secret", BaseURL: srv.URL, Retry: scraper.RetryPolicy{Retries: 2, Initial: time.Millisecond}})
		_, err := p.Fetch(context.Background(), scraper.Query{Skills: "go"})
		assert.ErrorContains(t, err, "status 400")
		assert.Equal(t, int32(1), calls.Load())
	})
}
