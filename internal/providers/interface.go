// Package providers defines the interface for answer API providers
// and common types used across different provider implementations.
package providers

import (
	"context"
	"time"
)

// Known provider identifiers. Linkup is benchmarked in two variants
// that hit the same endpoint with different search depth.
const (
	NameLinkupStandard = "linkup_standard"
	NameLinkupDeep     = "linkup_deep"
	NamePerplexity     = "perplexity"
	NameExa            = "exa"
	NameYou            = "you"
	NameTavily         = "tavily"
	NameValyu          = "valyu"
)

// AllNames lists every benchmarkable provider identifier in the order
// reports use by default.
func AllNames() []string {
	return []string{
		NameLinkupStandard,
		NameLinkupDeep,
		NamePerplexity,
		NameExa,
		NameYou,
		NameTavily,
		NameValyu,
	}
}

// DisplayName returns the human-readable name for a provider identifier.
func DisplayName(name string) string {
	switch name {
	case NameLinkupStandard:
		return "Linkup Standard"
	case NameLinkupDeep:
		return "Linkup Deep"
	case NamePerplexity:
		return "Perplexity"
	case NameExa:
		return "Exa"
	case NameYou:
		return "You.com"
	case NameTavily:
		return "Tavily"
	case NameValyu:
		return "Valyu"
	default:
		return name
	}
}

// AnswerResult represents the outcome of a single answer request.
// Data holds the provider's decoded payload as returned; field naming
// differs across providers, so normalization happens downstream in the
// extract package rather than here.
type AnswerResult struct {
	Query       string
	Data        map[string]interface{}
	RawResponse []byte
	Latency     time.Duration
}

// AnswerOptions contains options for answer operations.
type AnswerOptions struct {
	MaxSources    int
	SearchDepth   string // standard, deep
	IncludeImages bool
}

// DefaultAnswerOptions returns default answer options.
func DefaultAnswerOptions() AnswerOptions {
	return AnswerOptions{
		MaxSources:  10,
		SearchDepth: "standard",
	}
}

// Provider defines the interface for answer API providers.
type Provider interface {
	Name() string
	Answer(ctx context.Context, query string, opts AnswerOptions) (*AnswerResult, error)
}

// Response is one recorded (query, provider) outcome, the unit the
// scoring and analysis pipeline consumes. ResponseData is nil when the
// request failed before a payload was decoded.
type Response struct {
	APIName             string                 `json:"api_name"`
	ResponseData        map[string]interface{} `json:"response_data"`
	ResponseTimeSeconds float64                `json:"response_time"`
	Success             bool                   `json:"success"`
	Error               string                 `json:"error,omitempty"`
	Timestamp           time.Time              `json:"timestamp"`
}

// QueryResponses groups every provider's response to one query.
type QueryResponses struct {
	Query     string     `json:"query"`
	Responses []Response `json:"responses"`
}
