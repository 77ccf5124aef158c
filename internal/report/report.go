// Package report renders analysis output into Markdown, JSON, and CSV
// artifacts. No computation happens here; ordering follows the sort
// keys the analysis already established.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lamim/answer-api-bench/internal/analysis"
	"github.com/lamim/answer-api-bench/internal/providers"
)

// Generator writes report artifacts into one output directory.
type Generator struct {
	outputDir string
}

// NewGenerator creates the output directory if needed.
func NewGenerator(outputDir string) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", outputDir, err)
	}
	return &Generator{outputDir: outputDir}, nil
}

// OutputDir returns the directory artifacts are written into.
func (g *Generator) OutputDir() string {
	return g.outputDir
}

// GenerateAnalysis writes the markdown report, the JSON insights
// mirror, and the per-API rankings CSV.
func (g *Generator) GenerateAnalysis(insights analysis.Insights, totalQueries int) error {
	if err := g.writeMarkdown(insights, totalQueries); err != nil {
		return fmt.Errorf("generating markdown report: %w", err)
	}
	if err := g.writeInsightsJSON(insights); err != nil {
		return fmt.Errorf("generating JSON insights: %w", err)
	}
	if err := g.writeRankingsCSV(insights); err != nil {
		return fmt.Errorf("generating rankings CSV: %w", err)
	}
	return nil
}

func (g *Generator) writeMarkdown(insights analysis.Insights, totalQueries int) error {
	var sb strings.Builder

	sb.WriteString("# Benchmark Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Dataset**: %d queries across %d APIs\n\n",
		totalQueries, len(insights.PerformanceRankings)))
	sb.WriteString("---\n\n")

	// 1. Performance rankings, best success rate first.
	sb.WriteString("## 1. Performance Rankings\n\n")
	sb.WriteString("| API | Success Rate | Avg Time | P95 Time | Avg Sources | Avg Answer Length |\n")
	sb.WriteString("|-----|--------------|----------|----------|-------------|-------------------|\n")
	for _, api := range rankBySuccessRate(insights.PerformanceRankings) {
		m := insights.PerformanceRankings[api]
		sb.WriteString(fmt.Sprintf("| %s | %.1f%% | %s | %s | %.1f | %.0f |\n",
			providers.DisplayName(api),
			m.SuccessRate,
			formatSeconds(m.AvgResponseTime),
			formatSeconds(m.P95ResponseTime),
			m.AvgSources,
			m.AvgAnswerLength,
		))
	}
	sb.WriteString("\n---\n\n")

	// 2. Speed vs quality, best value first.
	sb.WriteString("## 2. Speed vs Quality Analysis\n\n")
	sb.WriteString("### Best Value (Characters per Second)\n\n")
	for i, api := range rankByCharsPerSecond(insights.SpeedVsQuality) {
		m := insights.SpeedVsQuality[api]
		sb.WriteString(fmt.Sprintf("%d. **%s**: %.1f chars/sec\n", i+1, providers.DisplayName(api), m.CharsPerSecond))
		sb.WriteString(fmt.Sprintf("   - %.0f characters in %.2fs\n", m.AvgAnswerLength, m.AvgResponseTime))
		sb.WriteString(fmt.Sprintf("   - %.2f sources per second\n\n", m.SourcesPerSecond))
	}
	sb.WriteString("\n---\n\n")

	// 3. Reliability, worst timeout rate first.
	sb.WriteString("## 3. Reliability Analysis\n\n")
	sb.WriteString("### Timeout Rates\n\n")
	sb.WriteString("| API | Total Failures | Timeouts | Timeout Rate |\n")
	sb.WriteString("|-----|----------------|----------|-------------|\n")
	for _, api := range rankByTimeoutRate(insights.FailureAnalysis) {
		m := insights.FailureAnalysis[api]
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f%% |\n",
			providers.DisplayName(api), m.TotalFailures, m.Timeouts, m.TimeoutRate))
	}
	sb.WriteString("\n---\n\n")

	// 4. Competitive positioning per focal variant.
	sb.WriteString("## 4. Competitive Positioning\n\n")
	for _, variant := range sortedKeys(insights.CompetitivePositioning) {
		pos := insights.CompetitivePositioning[variant]
		sb.WriteString(fmt.Sprintf("### %s\n\n", providers.DisplayName(variant)))

		sb.WriteString("**Strengths:**\n")
		for _, s := range pos.Strengths {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
		sb.WriteString("\n**Areas for Improvement:**\n")
		for _, w := range pos.Weaknesses {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		if len(pos.Recommendations) > 0 {
			sb.WriteString("\n**Critical Issues:**\n")
			for _, r := range pos.Recommendations {
				sb.WriteString(fmt.Sprintf("- %s\n", r))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("---\n\n")

	// 5. Recommendations derived from the rankings.
	sb.WriteString("## 5. Recommendations\n\n")
	sb.WriteString(recommendations(insights))

	path := filepath.Join(g.outputDir, "analysis_report.md")
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func (g *Generator) writeInsightsJSON(insights analysis.Insights) error {
	data, err := json.MarshalIndent(insights, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(g.outputDir, "insights_summary.json")
	return os.WriteFile(path, data, 0o644)
}

// recommendations picks the best API for each usage profile from the
// scoreboard.
func recommendations(insights analysis.Insights) string {
	perf := insights.PerformanceRankings
	if len(perf) == 0 {
		return ""
	}

	apis := sortedKeys(perf)

	fastest, mostReliable, mostSources := apis[0], apis[0], apis[0]
	for _, api := range apis {
		m := perf[api]
		if lessLatency(m.AvgResponseTime, perf[fastest].AvgResponseTime) {
			fastest = api
		}
		if m.SuccessRate > perf[mostReliable].SuccessRate {
			mostReliable = api
		}
		if m.AvgSources > perf[mostSources].AvgSources {
			mostSources = api
		}
	}

	var sb strings.Builder
	sb.WriteString("### For Speed-Critical Applications\n")
	sb.WriteString(fmt.Sprintf("Use **%s** - fastest at %s average\n\n",
		providers.DisplayName(fastest), formatSeconds(perf[fastest].AvgResponseTime)))
	sb.WriteString("### For Maximum Reliability\n")
	sb.WriteString(fmt.Sprintf("Use **%s** - %.1f%% success rate\n\n",
		providers.DisplayName(mostReliable), perf[mostReliable].SuccessRate))
	sb.WriteString("### For Comprehensive Research\n")
	sb.WriteString(fmt.Sprintf("Use **%s** - %.1f sources per query\n",
		providers.DisplayName(mostSources), perf[mostSources].AvgSources))
	return sb.String()
}

// lessLatency treats nil (no successes) as infinitely slow.
func lessLatency(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

func formatSeconds(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2fs", *v)
}

func rankBySuccessRate(perf map[string]analysis.PerformanceMetrics) []string {
	apis := sortedKeys(perf)
	sort.SliceStable(apis, func(i, j int) bool {
		return perf[apis[i]].SuccessRate > perf[apis[j]].SuccessRate
	})
	return apis
}

func rankByCharsPerSecond(sq map[string]analysis.SpeedQualityMetrics) []string {
	apis := sortedKeys(sq)
	sort.SliceStable(apis, func(i, j int) bool {
		return sq[apis[i]].CharsPerSecond > sq[apis[j]].CharsPerSecond
	})
	return apis
}

func rankByTimeoutRate(failures map[string]analysis.FailureMetrics) []string {
	apis := sortedKeys(failures)
	sort.SliceStable(apis, func(i, j int) bool {
		return failures[apis[i]].TimeoutRate > failures[apis[j]].TimeoutRate
	})
	return apis
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
