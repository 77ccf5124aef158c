// Package exa provides a client for the Exa AI answer API.
package exa

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lamim/answer-api-bench/internal/providers"
)

const (
	defaultBaseURL = "https://api.exa.ai"
)

// Client represents an Exa API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryCfg   providers.RetryConfig
}

// NewClient creates a new Exa client.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("EXA_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("EXA_API_KEY environment variable not set")
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: providers.NewHTTPClient(),
		retryCfg:   providers.DefaultRetryConfig(),
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return providers.NameExa
}

// Answer runs the query through Exa's /answer endpoint.
func (c *Client) Answer(ctx context.Context, query string, opts providers.AnswerOptions) (*providers.AnswerResult, error) {
	start := time.Now()

	payload := map[string]interface{}{
		"query": query,
		"text":  true,
	}

	headers := map[string]string{
		"x-api-key": c.apiKey,
	}

	data, respBody, err := c.retryCfg.DoJSONRetry(ctx, c.httpClient, "POST", c.baseURL+"/answer", headers, payload)
	if err != nil {
		return nil, err
	}

	// Exa names its source list "citations".
	if _, ok := data["sources"]; !ok {
		if citations, ok := data["citations"]; ok {
			data["sources"] = citations
		}
	}

	return &providers.AnswerResult{
		Query:       query,
		Data:        data,
		RawResponse: respBody,
		Latency:     time.Since(start),
	}, nil
}
