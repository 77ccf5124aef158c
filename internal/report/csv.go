package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lamim/answer-api-bench/internal/analysis"
	"github.com/lamim/answer-api-bench/internal/quality"
)

// writeRankingsCSV emits one row per API from the performance
// scoreboard, best success rate first.
func (g *Generator) writeRankingsCSV(insights analysis.Insights) error {
	rows := [][]string{{
		"api", "total_queries", "successes", "success_rate", "timeouts",
		"avg_response_time", "median_response_time", "p95_response_time",
		"p99_response_time", "avg_answer_length", "avg_sources",
	}}

	for _, api := range rankBySuccessRate(insights.PerformanceRankings) {
		m := insights.PerformanceRankings[api]
		rows = append(rows, []string{
			api,
			strconv.Itoa(m.TotalQueries),
			strconv.Itoa(m.Successes),
			formatFloat(m.SuccessRate),
			strconv.Itoa(m.Timeouts),
			formatFloatPtr(m.AvgResponseTime),
			formatFloatPtr(m.MedianResponseTime),
			formatFloatPtr(m.P95ResponseTime),
			formatFloatPtr(m.P99ResponseTime),
			formatFloat(m.AvgAnswerLength),
			formatFloat(m.AvgSources),
		})
	}

	return g.writeCSV("performance_rankings.csv", rows)
}

// GenerateQuality writes the per-query quality artifacts: the detailed
// metrics CSV, the win-rate summary, the use-case listing, and the
// competitive advantages CSV.
func (g *Generator) GenerateQuality(verdicts []quality.Verdict) error {
	if err := g.writeQualityCSV(verdicts); err != nil {
		return fmt.Errorf("generating quality CSV: %w", err)
	}
	if err := g.writeWinRatesCSV(verdicts); err != nil {
		return fmt.Errorf("generating win rates CSV: %w", err)
	}
	if err := g.writeUseCases(verdicts); err != nil {
		return fmt.Errorf("generating use cases: %w", err)
	}
	if err := g.writeAdvantagesCSV(verdicts); err != nil {
		return fmt.Errorf("generating advantages CSV: %w", err)
	}
	return nil
}

// writeQualityCSV emits one row per (query, API) score set.
func (g *Generator) writeQualityCSV(verdicts []quality.Verdict) error {
	rows := [][]string{{
		"query", "api", "completeness_score", "specificity_score",
		"source_quality", "confidence_level", "actionability",
		"word_count", "has_numbers", "has_specific_names",
		"response_time", "winner", "win_reason",
	}}

	for _, v := range verdicts {
		for _, api := range sortedKeys(v.PerAPI) {
			s := v.PerAPI[api]
			rows = append(rows, []string{
				v.Query,
				api,
				formatFloat(s.Completeness),
				formatFloat(s.Specificity),
				formatFloat(s.SourceQuality),
				formatFloat(s.Confidence),
				formatFloat(s.Actionability),
				strconv.Itoa(s.WordCount),
				strconv.FormatBool(s.HasNumbers),
				strconv.FormatBool(s.HasSpecificNames),
				formatFloat(s.ResponseTimeSeconds),
				v.Winner,
				v.WinReason,
			})
		}
	}

	return g.writeCSV("quality_analysis.csv", rows)
}

func (g *Generator) writeWinRatesCSV(verdicts []quality.Verdict) error {
	rows := [][]string{{"API", "Wins", "Win_Rate_%"}}
	for _, rate := range quality.WinRates(verdicts) {
		rows = append(rows, []string{
			rate.API,
			strconv.Itoa(rate.Wins),
			formatFloat(rate.RatePct),
		})
	}
	return g.writeCSV("win_rates.csv", rows)
}

// writeUseCases emits the plain-text use case listing, up to ten
// example queries per bucket.
func (g *Generator) writeUseCases(verdicts []quality.Verdict) error {
	useCases := quality.IdentifyUseCases(verdicts)

	var sb []byte
	sb = append(sb, "=== USE CASE ANALYSIS ===\n\n"...)
	for _, bucket := range sortedKeys(useCases) {
		sb = append(sb, fmt.Sprintf("\n%s:\n", bucket)...)
		sb = append(sb, "----------------------------------------\n"...)
		entries := useCases[bucket]
		if len(entries) > 10 {
			entries = entries[:10]
		}
		for _, e := range entries {
			sb = append(sb, fmt.Sprintf("  - %s (winner: %s)\n", e.Query, e.Winner)...)
		}
	}

	path := filepath.Join(g.outputDir, "use_cases.txt")
	return os.WriteFile(path, sb, 0o644)
}

func (g *Generator) writeAdvantagesCSV(verdicts []quality.Verdict) error {
	rows := [][]string{{"query", "winner", "reason"}}
	for _, v := range verdicts {
		if v.Winner == "" || v.Winner == "none" {
			continue
		}
		rows = append(rows, []string{v.Query, v.Winner, v.WinReason})
	}
	return g.writeCSV("competitive_advantages.csv", rows)
}

func (g *Generator) writeCSV(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(g.outputDir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
