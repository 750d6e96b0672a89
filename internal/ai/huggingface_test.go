package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceClient_Similarity(t *testing.T) {
	var got similarityRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/"+similarityModel, r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`[0.8123]`))
	}))
	defer srv.Close()

	c := NewHuggingFaceClient("hf_test", srv.URL)
	score, err := c.Similarity(context.Background(), "go, sql", "golang, postgres")
	require.NoError(t, err)

	assert.InDelta(t, 0.8123, score, 1e-9)
	assert.Equal(t, "go, sql", got.Inputs.SourceSentence)
	assert.Equal(t, []string{"golang, postgres"}, got.Inputs.Sentences)
}

func TestHuggingFaceClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{name: "model loading", status: http.StatusServiceUnavailable, body: `{"error":"Model is currently loading"}`, errMsg: "Model is currently loading"},
		{name: "plain error", status: http.StatusUnauthorized, body: `unauthorized`, errMsg: "status 401"},
		{name: "not an array", status: http.StatusOK, body: `{"score":1}`, errMsg: "decode"},
		{name: "empty array", status: http.StatusOK, body: `[]`, errMsg: "no scores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceClient("hf_test", srv.URL).Similarity(context.Background(), "a", "b")
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestHuggingFaceClient_NoKey(t *testing.T) {
	_, err := NewHuggingFaceClient("", "").Similarity(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrUnavailable)
}
