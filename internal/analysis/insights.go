// Package analysis turns a processed benchmark dataset into the
// aggregate insight report: per-API performance rankings, speed vs
// quality trade-offs, category and complexity breakdowns, failure
// patterns, source citation stats, and competitive positioning for the
// focal product variants. Everything here is a pure transformation of
// the input rows into an Insights value.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lamim/answer-api-bench/internal/dataset"
	"github.com/lamim/answer-api-bench/internal/providers"
)

// PerformanceMetrics is one API's overall scoreboard entry. Latency
// stats are nil when the API never succeeded.
type PerformanceMetrics struct {
	TotalQueries       int      `json:"total_queries"`
	Successes          int      `json:"successes"`
	SuccessRate        float64  `json:"success_rate"`
	Timeouts           int      `json:"timeouts"`
	AvgResponseTime    *float64 `json:"avg_response_time"`
	MedianResponseTime *float64 `json:"median_response_time"`
	P95ResponseTime    *float64 `json:"p95_response_time"`
	P99ResponseTime    *float64 `json:"p99_response_time"`
	AvgAnswerLength    float64  `json:"avg_answer_length"`
	AvgSources         float64  `json:"avg_sources"`
}

// SpeedQualityMetrics captures the value-per-second trade-off for APIs
// with at least one success.
type SpeedQualityMetrics struct {
	AvgResponseTime  float64 `json:"avg_response_time"`
	AvgAnswerLength  float64 `json:"avg_answer_length"`
	AvgSources       float64 `json:"avg_sources"`
	CharsPerSecond   float64 `json:"chars_per_second"`
	SourcesPerSecond float64 `json:"sources_per_second"`
}

// CategoryMetrics is one API's performance inside one query category.
type CategoryMetrics struct {
	QueryCount  int     `json:"query_count"`
	SuccessRate float64 `json:"success_rate"`
}

// FailureMetrics breaks an API's failures into timeouts and the rest.
type FailureMetrics struct {
	TotalFailures int     `json:"total_failures"`
	Timeouts      int     `json:"timeouts"`
	OtherErrors   int     `json:"other_errors"`
	TimeoutRate   float64 `json:"timeout_rate"`
}

// SourceMetrics describes an API's citation behavior over successes.
type SourceMetrics struct {
	AvgSources              float64 `json:"avg_sources"`
	MedianSources           int     `json:"median_sources"`
	MaxSources              int     `json:"max_sources"`
	MinSources              int     `json:"min_sources"`
	SourceAnswerCorrelation float64 `json:"source_answer_correlation"`
}

// ComplexityMetrics is one API's performance inside one query-length
// bucket.
type ComplexityMetrics struct {
	QueryCount      int      `json:"query_count"`
	SuccessRate     float64  `json:"success_rate"`
	AvgResponseTime *float64 `json:"avg_response_time"`
}

// Positioning lists the narrative strengths, weaknesses, and
// recommendations for one focal variant.
type Positioning struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Insights is the complete aggregate report over one dataset.
type Insights struct {
	PerformanceRankings    map[string]PerformanceMetrics           `json:"performance_rankings"`
	SpeedVsQuality         map[string]SpeedQualityMetrics          `json:"speed_vs_quality"`
	CategoryAnalysis       map[string]map[string]CategoryMetrics   `json:"category_analysis"`
	FailureAnalysis        map[string]FailureMetrics               `json:"failure_analysis"`
	SourceAnalysis         map[string]SourceMetrics                `json:"source_analysis"`
	ComplexityAnalysis     map[string]map[string]ComplexityMetrics `json:"complexity_analysis"`
	CompetitivePositioning map[string]Positioning                  `json:"competitive_positioning"`
}

// Options control whose perspective the competitive positioning takes.
type Options struct {
	// FocalVariants are the APIs the positioning narrative is written
	// for; every non-focal API is treated as a competitor.
	FocalVariants []string

	// TimeoutAlertThreshold is the timeout count above which a focal
	// variant gets a critical recommendation.
	TimeoutAlertThreshold int
}

// DefaultOptions positions the two Linkup variants against the rest.
func DefaultOptions() Options {
	return Options{
		FocalVariants:         []string{providers.NameLinkupStandard, providers.NameLinkupDeep},
		TimeoutAlertThreshold: 100,
	}
}

// Analyze computes the full insight report for a dataset.
func Analyze(rows []dataset.Row, opts Options) Insights {
	apis := dataset.APIs(rows)

	insights := Insights{
		PerformanceRankings: performanceRankings(rows, apis),
		SpeedVsQuality:      speedVsQuality(rows, apis),
		CategoryAnalysis:    categoryAnalysis(rows, apis),
		FailureAnalysis:     failureAnalysis(rows, apis),
		SourceAnalysis:      sourceAnalysis(rows, apis),
		ComplexityAnalysis:  complexityAnalysis(rows, apis),
	}
	insights.CompetitivePositioning = competitivePositioning(insights.PerformanceRankings, apis, opts)
	return insights
}

func performanceRankings(rows []dataset.Row, apis []string) map[string]PerformanceMetrics {
	results := make(map[string]PerformanceMetrics, len(apis))

	for _, api := range apis {
		var (
			successes     int
			timeouts      int
			successTimes  []float64
			answerLengths []float64
			sourceCounts  []float64
		)

		for _, row := range rows {
			cell := row.PerAPI[api]
			if cell.TimedOut {
				timeouts++
			}
			if !cell.Success {
				continue
			}
			successes++
			successTimes = append(successTimes, cell.ResponseTime)
			answerLengths = append(answerLengths, float64(len(cell.Answer)))
			sourceCounts = append(sourceCounts, float64(cell.NumSources))
		}

		metrics := PerformanceMetrics{
			TotalQueries: len(rows),
			Successes:    successes,
			Timeouts:     timeouts,
		}
		if len(rows) > 0 {
			metrics.SuccessRate = roundTo(float64(successes)/float64(len(rows))*100, 2)
		}
		if len(successTimes) > 0 {
			metrics.AvgResponseTime = roundPtr(ptr(Mean(successTimes)), 2)
			metrics.MedianResponseTime = roundPtr(ptr(Median(successTimes)), 2)
			metrics.P95ResponseTime = roundPtr(ptr(Quantile(successTimes, 0.95)), 2)
			metrics.P99ResponseTime = roundPtr(ptr(Quantile(successTimes, 0.99)), 2)
			metrics.AvgAnswerLength = roundTo(Mean(answerLengths), 0)
			metrics.AvgSources = roundTo(Mean(sourceCounts), 1)
		}

		results[api] = metrics
	}

	return results
}

func speedVsQuality(rows []dataset.Row, apis []string) map[string]SpeedQualityMetrics {
	results := make(map[string]SpeedQualityMetrics)

	for _, api := range apis {
		var times, lengths, counts []float64
		for _, row := range rows {
			cell := row.PerAPI[api]
			if !cell.Success {
				continue
			}
			times = append(times, cell.ResponseTime)
			lengths = append(lengths, float64(len(cell.Answer)))
			counts = append(counts, float64(cell.NumSources))
		}
		if len(times) == 0 {
			continue
		}

		avgTime := Mean(times)
		avgLength := Mean(lengths)
		avgSources := Mean(counts)

		var charsPerSecond, sourcesPerSecond float64
		if avgTime > 0 {
			charsPerSecond = avgLength / avgTime
			sourcesPerSecond = avgSources / avgTime
		}

		results[api] = SpeedQualityMetrics{
			AvgResponseTime:  roundTo(avgTime, 2),
			AvgAnswerLength:  roundTo(avgLength, 0),
			AvgSources:       roundTo(avgSources, 1),
			CharsPerSecond:   roundTo(charsPerSecond, 1),
			SourcesPerSecond: roundTo(sourcesPerSecond, 2),
		}
	}

	return results
}

func categoryAnalysis(rows []dataset.Row, apis []string) map[string]map[string]CategoryMetrics {
	byCategory := make(map[string][]dataset.Row)
	for _, row := range rows {
		category := CategorizeQuery(row.Query)
		byCategory[category] = append(byCategory[category], row)
	}

	results := make(map[string]map[string]CategoryMetrics, len(byCategory))
	for category, catRows := range byCategory {
		perAPI := make(map[string]CategoryMetrics, len(apis))
		for _, api := range apis {
			successes := 0
			for _, row := range catRows {
				if row.PerAPI[api].Success {
					successes++
				}
			}
			perAPI[api] = CategoryMetrics{
				QueryCount:  len(catRows),
				SuccessRate: roundTo(float64(successes)/float64(len(catRows))*100, 1),
			}
		}
		results[category] = perAPI
	}

	return results
}

func failureAnalysis(rows []dataset.Row, apis []string) map[string]FailureMetrics {
	results := make(map[string]FailureMetrics, len(apis))

	for _, api := range apis {
		var failures, timeouts int
		for _, row := range rows {
			cell := row.PerAPI[api]
			if cell.Success {
				continue
			}
			failures++
			if cell.TimedOut {
				timeouts++
			}
		}

		metrics := FailureMetrics{
			TotalFailures: failures,
			Timeouts:      timeouts,
			OtherErrors:   failures - timeouts,
		}
		if len(rows) > 0 {
			metrics.TimeoutRate = roundTo(float64(timeouts)/float64(len(rows))*100, 2)
		}
		results[api] = metrics
	}

	return results
}

func sourceAnalysis(rows []dataset.Row, apis []string) map[string]SourceMetrics {
	results := make(map[string]SourceMetrics)

	for _, api := range apis {
		var counts, lengths []float64
		for _, row := range rows {
			cell := row.PerAPI[api]
			if !cell.Success {
				continue
			}
			counts = append(counts, float64(cell.NumSources))
			lengths = append(lengths, float64(len(cell.Answer)))
		}
		if len(counts) == 0 {
			continue
		}

		minSources, maxSources := counts[0], counts[0]
		for _, c := range counts[1:] {
			if c < minSources {
				minSources = c
			}
			if c > maxSources {
				maxSources = c
			}
		}

		results[api] = SourceMetrics{
			AvgSources:              roundTo(Mean(counts), 1),
			MedianSources:           int(Median(counts)),
			MaxSources:              int(maxSources),
			MinSources:              int(minSources),
			SourceAnswerCorrelation: roundTo(Pearson(counts, lengths), 3),
		}
	}

	return results
}

func complexityAnalysis(rows []dataset.Row, apis []string) map[string]map[string]ComplexityMetrics {
	byBucket := make(map[string][]dataset.Row)
	for _, row := range rows {
		bucket := ComplexityBucket(row.QueryLength)
		byBucket[bucket] = append(byBucket[bucket], row)
	}

	results := make(map[string]map[string]ComplexityMetrics, len(byBucket))
	for bucket, bucketRows := range byBucket {
		perAPI := make(map[string]ComplexityMetrics, len(apis))
		for _, api := range apis {
			var successes int
			var successTimes []float64
			for _, row := range bucketRows {
				cell := row.PerAPI[api]
				if cell.Success {
					successes++
					successTimes = append(successTimes, cell.ResponseTime)
				}
			}

			metrics := ComplexityMetrics{
				QueryCount:  len(bucketRows),
				SuccessRate: roundTo(float64(successes)/float64(len(bucketRows))*100, 1),
			}
			if len(successTimes) > 0 {
				metrics.AvgResponseTime = roundPtr(ptr(Mean(successTimes)), 2)
			}
			perAPI[api] = metrics
		}
		results[bucket] = perAPI
	}

	return results
}

// competitivePositioning compares each focal variant's scoreboard entry
// against every non-focal API. Thresholds are multiplicative: a 1.5x
// source advantage is a strength, a 1.5x latency disadvantage or any
// lower success rate is a weakness.
func competitivePositioning(perf map[string]PerformanceMetrics, apis []string, opts Options) map[string]Positioning {
	positioning := make(map[string]Positioning, len(opts.FocalVariants))

	focal := make(map[string]struct{}, len(opts.FocalVariants))
	for _, v := range opts.FocalVariants {
		focal[v] = struct{}{}
	}

	var competitors []string
	for _, api := range apis {
		if _, ok := focal[api]; !ok {
			competitors = append(competitors, api)
		}
	}
	sort.Strings(competitors)

	for _, variant := range opts.FocalVariants {
		data, ok := perf[variant]
		if !ok {
			continue
		}

		pos := Positioning{
			Strengths:       []string{},
			Weaknesses:      []string{},
			Recommendations: []string{},
		}

		for _, competitor := range competitors {
			comp := perf[competitor]
			display := providers.DisplayName(competitor)

			if data.AvgSources > comp.AvgSources*1.5 {
				pos.Strengths = append(pos.Strengths, fmt.Sprintf(
					"Significantly more sources than %s (%.1f vs %.1f)",
					display, data.AvgSources, comp.AvgSources))
			}
			if data.SuccessRate < comp.SuccessRate {
				pos.Weaknesses = append(pos.Weaknesses, fmt.Sprintf(
					"Lower success rate than %s (%.1f%% vs %.1f%%)",
					display, data.SuccessRate, comp.SuccessRate))
			}
			if data.AvgResponseTime != nil && comp.AvgResponseTime != nil &&
				*data.AvgResponseTime > *comp.AvgResponseTime*1.5 {
				pos.Weaknesses = append(pos.Weaknesses, fmt.Sprintf(
					"Significantly slower than %s (%.2fs vs %.2fs)",
					display, *data.AvgResponseTime, *comp.AvgResponseTime))
			}
		}

		if data.Timeouts > opts.TimeoutAlertThreshold && data.TotalQueries > 0 {
			pos.Recommendations = append(pos.Recommendations, fmt.Sprintf(
				"CRITICAL: Reduce timeout rate from %d timeouts (%.1f%% of queries)",
				data.Timeouts, float64(data.Timeouts)/float64(data.TotalQueries)*100))
		}

		positioning[variant] = pos
	}

	return positioning
}

// CategorizeQuery maps a query to one of six fixed categories. Rules
// apply in priority order; the first match wins.
func CategorizeQuery(query string) string {
	queryLower := strings.ToLower(query)

	switch {
	case strings.Contains(queryLower, "linkedin") ||
		strings.Contains(queryLower, "ceo") ||
		strings.Contains(queryLower, "founder"):
		return "Company/LinkedIn Research"
	case strings.Contains(queryLower, "what is") ||
		strings.Contains(queryLower, "who is") ||
		strings.Contains(queryLower, "when was") ||
		strings.Contains(queryLower, "where is") ||
		strings.Contains(queryLower, "how to"):
		return "Q&A/Informational"
	case strings.Contains(queryLower, "summarize") ||
		strings.Contains(queryLower, "summary of"):
		return "Summarization"
	case len(queryLower) < 50:
		return "Short Query"
	case len(queryLower) > 500:
		return "Long/Complex Query"
	default:
		return "General Search"
	}
}

// Query-length buckets for the complexity breakdown.
const (
	BucketVeryShort = "Very Short (<50)"
	BucketShort     = "Short (50-200)"
	BucketMedium    = "Medium (200-500)"
	BucketLong      = "Long (500+)"
)

// ComplexityBucket maps a query length in characters to its bucket.
func ComplexityBucket(length int) string {
	switch {
	case length <= 50:
		return BucketVeryShort
	case length <= 200:
		return BucketShort
	case length <= 500:
		return BucketMedium
	default:
		return BucketLong
	}
}
