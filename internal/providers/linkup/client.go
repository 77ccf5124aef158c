// Package linkup provides a client for the Linkup search API.
// It implements the providers.Provider interface for both the standard
// and deep search depths, which are benchmarked as separate variants.
package linkup

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lamim/answer-api-bench/internal/providers"
)

const (
	defaultBaseURL = "https://api.linkup.so/v1"
)

// Client represents a Linkup API client pinned to one search depth.
type Client struct {
	apiKey     string
	baseURL    string
	depth      string // standard or deep
	httpClient *http.Client
	retryCfg   providers.RetryConfig
}

// NewStandardClient creates a Linkup client using standard depth.
func NewStandardClient() (*Client, error) {
	return newClient("standard")
}

// NewDeepClient creates a Linkup client using deep depth.
func NewDeepClient() (*Client, error) {
	return newClient("deep")
}

func newClient(depth string) (*Client, error) {
	apiKey := os.Getenv("LINKUP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("LINKUP_API_KEY environment variable not set")
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		depth:      depth,
		httpClient: providers.NewHTTPClient(),
		retryCfg:   providers.DefaultRetryConfig(),
	}, nil
}

// Name returns the provider identifier for this variant.
func (c *Client) Name() string {
	if c.depth == "deep" {
		return providers.NameLinkupDeep
	}
	return providers.NameLinkupStandard
}

// Answer runs a sourced-answer search against Linkup.
func (c *Client) Answer(ctx context.Context, query string, opts providers.AnswerOptions) (*providers.AnswerResult, error) {
	start := time.Now()

	depth := c.depth
	if opts.SearchDepth == "deep" {
		depth = "deep"
	}

	payload := map[string]interface{}{
		"q":          query,
		"depth":      depth,
		"outputType": "sourcedAnswer",
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	data, respBody, err := c.retryCfg.DoJSONRetry(ctx, c.httpClient, "POST", c.baseURL+"/search", headers, payload)
	if err != nil {
		return nil, err
	}

	// Linkup titles its answer field "content"; keep it that way so the
	// extractor's per-provider preference order stays meaningful.
	if _, ok := data["content"]; !ok {
		if answer, ok := data["answer"]; ok {
			data["content"] = answer
		}
	}

	return &providers.AnswerResult{
		Query:       query,
		Data:        data,
		RawResponse: respBody,
		Latency:     time.Since(start),
	}, nil
}
