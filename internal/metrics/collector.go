// Package metrics provides run-time collection and aggregation of
// benchmark responses while a run is in flight.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Record is a single provider response to a single query.
type Record struct {
	Query         string        `json:"query"`
	Provider      string        `json:"provider"`
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
	ErrorCategory string        `json:"error_category,omitempty"`
	Latency       time.Duration `json:"latency"`
	AnswerLength  int           `json:"answer_length"`
	SourceCount   int           `json:"source_count"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Summary contains aggregated metrics for one provider.
type Summary struct {
	Provider        string        `json:"provider"`
	TotalQueries    int           `json:"total_queries"`
	Successes       int           `json:"successes"`
	Failures        int           `json:"failures"`
	SuccessRate     float64       `json:"success_rate"`
	AvgLatency      time.Duration `json:"avg_latency"`
	MinLatency      time.Duration `json:"min_latency"`
	MaxLatency      time.Duration `json:"max_latency"`
	P50Latency      time.Duration `json:"p50_latency"`
	P95Latency      time.Duration `json:"p95_latency"`
	P99Latency      time.Duration `json:"p99_latency"`
	AvgAnswerLength float64       `json:"avg_answer_length"`
	AvgSources      float64       `json:"avg_sources"`

	// Error breakdown by category
	ErrorBreakdown map[string]int `json:"error_breakdown,omitempty"`
}

// Collector accumulates records as workers report in.
type Collector struct {
	records []Record
	mu      sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		records: make([]Record, 0),
	}
}

// Add appends one record.
func (c *Collector) Add(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
}

// Records returns a copy of everything collected so far.
func (c *Collector) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records := make([]Record, len(c.records))
	copy(records, c.records)
	return records
}

// RecordsByProvider returns records filtered by provider.
func (c *Collector) RecordsByProvider(provider string) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var filtered []Record
	for _, r := range c.records {
		if r.Provider == provider {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Providers returns the sorted set of providers seen so far.
func (c *Collector) Providers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range c.records {
		seen[r.Provider] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summarize computes aggregate metrics for one provider. Latency stats
// cover successful responses only.
func (c *Collector) Summarize(provider string) *Summary {
	records := c.RecordsByProvider(provider)

	summary := &Summary{
		Provider:       provider,
		TotalQueries:   len(records),
		ErrorBreakdown: make(map[string]int),
	}
	if len(records) == 0 {
		return summary
	}

	var totalLatency time.Duration
	var totalAnswerLength, totalSources int
	latencies := make([]time.Duration, 0, len(records))

	for _, r := range records {
		if !r.Success {
			summary.Failures++
			category := r.ErrorCategory
			if category == "" {
				category = "unknown"
			}
			summary.ErrorBreakdown[category]++
			continue
		}

		summary.Successes++
		totalLatency += r.Latency
		totalAnswerLength += r.AnswerLength
		totalSources += r.SourceCount
		latencies = append(latencies, r.Latency)

		if summary.Successes == 1 {
			summary.MinLatency = r.Latency
			summary.MaxLatency = r.Latency
		} else {
			if r.Latency < summary.MinLatency {
				summary.MinLatency = r.Latency
			}
			if r.Latency > summary.MaxLatency {
				summary.MaxLatency = r.Latency
			}
		}
	}

	summary.SuccessRate = float64(summary.Successes) / float64(len(records)) * 100

	if summary.Successes > 0 {
		summary.AvgLatency = totalLatency / time.Duration(summary.Successes)
		summary.AvgAnswerLength = float64(totalAnswerLength) / float64(summary.Successes)
		summary.AvgSources = float64(totalSources) / float64(summary.Successes)

		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		summary.P50Latency = percentileDuration(latencies, 0.50)
		summary.P95Latency = percentileDuration(latencies, 0.95)
		summary.P99Latency = percentileDuration(latencies, 0.99)
	}

	return summary
}

// Summaries computes a summary per provider, sorted by descending
// success rate then name, for terminal output.
func (c *Collector) Summaries() []*Summary {
	providerNames := c.Providers()
	summaries := make([]*Summary, 0, len(providerNames))
	for _, name := range providerNames {
		summaries = append(summaries, c.Summarize(name))
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].SuccessRate != summaries[j].SuccessRate {
			return summaries[i].SuccessRate > summaries[j].SuccessRate
		}
		return summaries[i].Provider < summaries[j].Provider
	})
	return summaries
}

// percentileDuration uses nearest-rank on an already sorted slice.
func percentileDuration(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
