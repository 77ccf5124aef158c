// Package tavily provides a client for the Tavily API.
// It implements the providers.Provider interface for benchmarking
// answer-with-sources queries.
package tavily

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lamim/answer-api-bench/internal/providers"
)

const (
	defaultBaseURL = "https://api.tavily.com"
)

// Client represents a Tavily API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryCfg   providers.RetryConfig
}

// NewClient creates a new Tavily client.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY environment variable not set")
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
	return providers.NameTavily
}

// Answer performs a search with include_answer using Tavily.
func (c *Client) Answer(ctx context.Context, query string, opts providers.AnswerOptions) (*providers.AnswerResult, error) {
	start := time.Now()

	searchDepth := "basic"
	if opts.SearchDepth == "deep" {
		searchDepth = "advanced"
	}

	payload := map[string]interface{}{
		"api_key":        c.apiKey,
		"query":          query,
		"search_depth":   searchDepth,
		"max_results":    opts.MaxSources,
		"include_answer": true,
		"include_images": opts.IncludeImages,
	}

	data, respBody, err := c.retryCfg.DoJSONRetry(ctx, c.httpClient, "POST", c.baseURL+"/search", nil, payload)
	if err != nil {
		return nil, err
	}

	// Tavily returns its cited pages under "results".
	if _, ok := data["sources"]; !ok {
		if results, ok := data["results"]; ok {
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
