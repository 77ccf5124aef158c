// Package valyu provides a client for the Valyu deep search API.
package valyu

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lamim/answer-api-bench/internal/providers"
)

const (
	defaultBaseURL = "https://api.valyu.network/v1"
)

// Client represents a Valyu API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryCfg   providers.RetryConfig
}

// NewClient creates a new Valyu client.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("VALYU_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("VALYU_API_KEY environment variable not set")
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
	return providers.NameValyu
}

// Answer runs the query through Valyu's answer endpoint.
func (c *Client) Answer(ctx context.Context, query string, opts providers.AnswerOptions) (*providers.AnswerResult, error) {
	start := time.Now()

	payload := map[string]interface{}{
		"query":       query,
		"search_type": "all",
	}
	if opts.MaxSources > 0 {
		payload["max_num_results"] = opts.MaxSources
	}

	headers := map[string]string{
		"x-api-key": c.apiKey,
	}

	data, respBody, err := c.retryCfg.DoJSONRetry(ctx, c.httpClient, "POST", c.baseURL+"/answer", headers, payload)
	if err != nil {
		return nil, err
	}

	// Valyu returns its cited documents under "results".
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
