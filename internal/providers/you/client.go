// Package you provides a client for the You.com smart search API.
package you

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/lamim/answer-api-bench/internal/providers"
)

const (
	defaultBaseURL = "https://chat-api.you.com"
)

// Client represents a You.com API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryCfg   providers.RetryConfig
}

// NewClient creates a new You.com client.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("YOU_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("YOU_API_KEY environment variable not set")
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
	return providers.NameYou
}

// Answer runs the query through You.com's smart endpoint.
func (c *Client) Answer(ctx context.Context, query string, opts providers.AnswerOptions) (*providers.AnswerResult, error) {
	start := time.Now()

	endpoint := c.baseURL + "/smart?query=" + url.QueryEscape(query)

	headers := map[string]string{
		"X-API-Key": c.apiKey,
	}

	data, respBody, err := c.retryCfg.DoJSONRetry(ctx, c.httpClient, "GET", endpoint, headers, nil)
	if err != nil {
		return nil, err
	}

	// You.com names its source list "search_results".
	if _, ok := data["sources"]; !ok {
		if results, ok := data["search_results"]; ok {
			data["sources"] = results
		}
	}

	return &providers.AnswerResult{
		Query:       query,
		Data:        data,
		RawResponse: respBody,
		Latency:     time.Since(start),
	}, nil
}
