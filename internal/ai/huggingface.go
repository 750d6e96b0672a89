package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	huggingFaceURL   = "https://api-inference.huggingface.co/models/"
	similarityModel  = "sentence-transformers/all-MiniLM-L6-v2"
	defaultHFTimeout = 20 * time.Second
)

type huggingFaceClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewHuggingFaceClient creates a client for the hosted inference API. An
// empty baseURL uses the public endpoint.
func NewHuggingFaceClient(apiKey, baseURL string) Client {
	if baseURL == "" {
		baseURL = huggingFaceURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &huggingFaceClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      similarityModel,
		httpClient: &http.Client{Timeout: defaultHFTimeout},
	}
}

type similarityInputs struct {
	SourceSentence string   `json:"source_sentence"`
	Sentences      []string `json:"sentences"`
}

type similarityRequest struct {
	Inputs similarityInputs `json:"inputs"`
}

type apiError struct {
	Error string `json:"error"`
}

// Similarity sends both texts to the sentence-similarity pipeline
func (c *huggingFaceClient) Similarity(ctx context.Context, source, target string) (float64, error) {
	if c.apiKey == "" {
		return 0, ErrUnavailable
	}

	jsonData, err := json.Marshal(similarityRequest{
		Inputs: similarityInputs{SourceSentence: source, Sentences: []string{target}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal similarity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.model, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return 0, fmt.Errorf("huggingface API returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return 0, fmt.Errorf("huggingface API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var scores []float64
	if err := json.Unmarshal(bodyBytes, &scores); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("no scores returned from huggingface API")
	}
	return scores[0], nil
}
