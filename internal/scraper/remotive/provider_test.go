package remotive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-internship-automation/internal/scraper"
)

func TestProvider_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/remote-jobs", r.URL.Path)
		assert.Equal(t, "python", r.URL.Query().Get("search"))
		assert.Equal(t, "software-dev", r.URL.Query().Get("category"))
		w.Write([]byte(`{"jobs":[
{"title":"Python Intern","company_name":"Acme","candidate_required_location":"Worldwide","salary":"$1,500/month","url":"https://remotive.com/1","publication_date":"2026-10-01T00:00:00"},
{"title":"Backend Intern","company_name":"Beta","description":"<p>Nothing structured</p>"}
]}`))
	}))
	defer srv.Close()

	got, err := NewProvider(srv.URL, nil).Fetch(context.Background(), scraper.Query{Skills: "python", Field: "software-dev"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Worldwide", got[0].Location)
	assert.Equal(t, float64(1500), got[0].StipendValue)
	assert.Equal(t, "Remotive", got[0].Source)

	assert.Equal(t, "Remote", got[1].Location)
	assert.Equal(t, scraper.NotDisclosed, got[1].Stipend)
	require.Len(t, got[1].Description, 1)
	assert.Equal(t, "Description", got[1].Description[0].Heading)
}

func TestProvider_NoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL, nil).Fetch(context.Background(), scraper.Query{Skills: "go"})
	assert.ErrorContains(t, err, "Too Many Requests")
	assert.Equal(t, int32(1), calls.Load())
}
