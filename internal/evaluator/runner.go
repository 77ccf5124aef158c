// Package evaluator executes benchmark queries against answer providers.
package evaluator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lamim/answer-api-bench/internal/config"
	"github.com/lamim/answer-api-bench/internal/extract"
	"github.com/lamim/answer-api-bench/internal/metrics"
	"github.com/lamim/answer-api-bench/internal/progress"
	"github.com/lamim/answer-api-bench/internal/providers"
)

// Runner fans benchmark queries out across providers.
type Runner struct {
	providers []providers.Provider
	config    *config.Config
	collector *metrics.Collector
	progress  *progress.Manager

	mu      sync.Mutex
	results map[string][]providers.Response // query -> responses
}

// NewRunner creates a runner over the given providers.
func NewRunner(cfg *config.Config, provs []providers.Provider, prog *progress.Manager) *Runner {
	return &Runner{
		providers: provs,
		config:    cfg,
		collector: metrics.NewCollector(),
		progress:  prog,
		results:   make(map[string][]providers.Response),
	}
}

// Collector exposes the run-time metrics for terminal summaries.
func (r *Runner) Collector() *metrics.Collector {
	return r.collector
}

// Run sends every query to every provider and returns the responses
// grouped per query, in input query order. A global semaphore caps
// total in-flight requests; per-provider semaphores apply any
// provider-specific limits from the configuration.
func (r *Runner) Run(ctx context.Context, queries []string) []providers.QueryResponses {
	total := len(queries) * len(r.providers)
	if r.progress == nil || !r.progress.IsEnabled() {
		fmt.Printf("Starting benchmark: %d queries against %d providers (%d requests)\n",
			len(queries), len(r.providers), total)
		fmt.Printf("Concurrency: %d, Timeout: %s\n\n",
			r.config.General.Concurrency, r.config.General.Timeout)
	}

	sem := make(chan struct{}, r.config.General.Concurrency)
	providerSems := make(map[string]chan struct{}, len(r.providers))
	for _, p := range r.providers {
		limit := r.config.General.ConcurrencyForProvider(p.Name())
		providerSems[p.Name()] = make(chan struct{}, limit)
	}

	var wg sync.WaitGroup
	for _, query := range queries {
		for _, prov := range r.providers {
			wg.Add(1)
			go func(q string, p providers.Provider) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				psem := providerSems[p.Name()]
				psem <- struct{}{}
				defer func() { <-psem }()

				r.runQuery(ctx, q, p)
			}(query, prov)
		}
	}
	wg.Wait()

	if r.progress != nil {
		r.progress.Finish()
	}

	out := make([]providers.QueryResponses, 0, len(queries))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, query := range queries {
		out = append(out, providers.QueryResponses{
			Query:     query,
			Responses: r.results[query],
		})
	}
	return out
}

func (r *Runner) runQuery(ctx context.Context, query string, prov providers.Provider) {
	if r.progress != nil {
		r.progress.Start(prov.Name(), query)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.config.General.TimeoutDuration())
	defer cancel()

	start := time.Now()
	result, err := prov.Answer(timeoutCtx, query, providers.DefaultAnswerOptions())
	elapsed := time.Since(start)

	response := providers.Response{
		APIName:             prov.Name(),
		ResponseTimeSeconds: elapsed.Seconds(),
		Timestamp:           time.Now(),
	}

	record := metrics.Record{
		Query:     query,
		Provider:  prov.Name(),
		Latency:   elapsed,
		Timestamp: response.Timestamp,
	}

	if err != nil {
		response.Error = err.Error()
		record.Error = err.Error()
		record.ErrorCategory = categorizeError(err)
	} else {
		response.Success = true
		response.ResponseData = result.Data
		record.Success = true

		answer, sources := extract.Answer(prov.Name(), result.Data)
		record.AnswerLength = len(answer)
		record.SourceCount = len(sources)
	}

	r.collector.Add(record)

	r.mu.Lock()
	r.results[query] = append(r.results[query], response)
	r.mu.Unlock()

	if r.progress != nil {
		r.progress.Complete(prov.Name(), query, response.Success)
	} else {
		status := "ok"
		if !response.Success {
			status = "failed: " + response.Error
		}
		fmt.Printf("[%s] %q %s (%.2fs)\n", prov.Name(), truncate(query, 50), status, elapsed.Seconds())
	}
}

type errorPattern struct {
	patterns []string
	category string
}

var errorPatterns = []errorPattern{
	{
		patterns: []string{"timeout", "timed out", "context deadline exceeded", "i/o timeout"},
		category: "timeout",
	},
	// Rate limit before auth since "too many requests" can appear with 429
	{
		patterns: []string{"rate limit", "ratelimit", "too many requests", "429", "quota exceeded", "limit exceeded"},
		category: "rate_limit",
	},
	{
		patterns: []string{"401", "403", "unauthorized", "authentication", "api key"},
		category: "auth",
	},
	{
		patterns: []string{"500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable"},
		category: "server_error",
	},
	{
		patterns: []string{"400", "404", "405", "422", "bad request", "not found", "validation"},
		category: "client_error",
	},
	{
		patterns: []string{"connection refused", "no such host", "network", "dns", "temporary failure"},
		category: "network",
	},
	{
		patterns: []string{"unmarshal", "parse", "invalid character", "invalid syntax"},
		category: "parse",
	},
}

// categorizeError maps an error message to a coarse category for the
// failure breakdown.
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		for _, pattern := range ep.patterns {
			if strings.Contains(errStr, pattern) {
				return ep.category
			}
		}
	}
	return "other"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
