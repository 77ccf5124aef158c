// Package perplexity provides a client for the Perplexity API.
// Chat-completion payloads are reshaped into the answer/sources layout
// the rest of the pipeline consumes.
package perplexity

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lamim/answer-api-bench/internal/providers"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar"
)

// Client represents a Perplexity API client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	retryCfg   providers.RetryConfig
}

// NewClient creates a new Perplexity client.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("PERPLEXITY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("PERPLEXITY_API_KEY environment variable not set")
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: providers.NewHTTPClient(),
		retryCfg:   providers.DefaultRetryConfig(),
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return providers.NamePerplexity
}

// Answer asks Perplexity for a sourced answer to the query.
func (c *Client) Answer(ctx context.Context, query string, opts providers.AnswerOptions) (*providers.AnswerResult, error) {
	start := time.Now()

	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": query},
		},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	raw, respBody, err := c.retryCfg.DoJSONRetry(ctx, c.httpClient, "POST", c.baseURL+"/chat/completions", headers, payload)
	if err != nil {
		return nil, err
	}

	// Pull the completion text out of choices[0].message.content and the
	// citation URLs out of the top-level citations array.
	answer := ""
	if choices, ok := raw["choices"].([]interface{}); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]interface{}); ok {
			if message, ok := choice["message"].(map[string]interface{}); ok {
				answer, _ = message["content"].(string)
			}
		}
	}

	sources := make([]interface{}, 0)
	if citations, ok := raw["citations"].([]interface{}); ok {
		sources = citations
	}

	data := map[string]interface{}{
		"answer":  answer,
		"sources": sources,
	}

	return &providers.AnswerResult{
		Query:       query,
		Data:        data,
		RawResponse: respBody,
		Latency:     time.Since(start),
	}, nil
}
