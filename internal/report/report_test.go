package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lamim/answer-api-bench/internal/analysis"
	"github.com/lamim/answer-api-bench/internal/dataset"
	"github.com/lamim/answer-api-bench/internal/providers"
	"github.com/lamim/answer-api-bench/internal/quality"
)

func testInsights() (analysis.Insights, int) {
	rows := []dataset.Row{
		{
			Query:       "who founded Acme?",
			QueryLength: 17,
			PerAPI: map[string]dataset.Cell{
				"exa":    {Success: true, ResponseTime: 0.4, Answer: "Jane Doe founded Acme.", NumSources: 3},
				"tavily": {Success: false, Error: "timed out", TimedOut: true},
			},
		},
		{
			Query:       "where is Acme headquartered?",
			QueryLength: 28,
			PerAPI: map[string]dataset.Cell{
				"exa":    {Success: true, ResponseTime: 0.6, Answer: "Springfield.", NumSources: 2},
				"tavily": {Success: true, ResponseTime: 1.2, Answer: "Springfield, USA.", NumSources: 1},
			},
		},
	}
	opts := analysis.Options{FocalVariants: []string{"exa"}, TimeoutAlertThreshold: 100}
	return analysis.Analyze(rows, opts), len(rows)
}

func TestGenerateAnalysisArtifacts(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir)
	if err != nil {
		t.Fatal(err)
	}

	insights, total := testInsights()
	if err := g.GenerateAnalysis(insights, total); err != nil {
		t.Fatalf("generate: %v", err)
	}

	md, err := os.ReadFile(filepath.Join(dir, "analysis_report.md"))
	if err != nil {
		t.Fatalf("markdown missing: %v", err)
	}
	report := string(md)
	for _, section := range []string{
		"## 1. Performance Rankings",
		"## 2. Speed vs Quality Analysis",
		"## 3. Reliability Analysis",
		"## 4. Competitive Positioning",
		"## 5. Recommendations",
	} {
		if !strings.Contains(report, section) {
			t.Errorf("report missing section %q", section)
		}
	}
	if !strings.Contains(report, "Exa") {
		t.Error("report should use display names")
	}

	jsonData, err := os.ReadFile(filepath.Join(dir, "insights_summary.json"))
	if err != nil {
		t.Fatalf("JSON insights missing: %v", err)
	}
	var reloaded analysis.Insights
	if err := json.Unmarshal(jsonData, &reloaded); err != nil {
		t.Fatalf("JSON insights not parsable: %v", err)
	}
	if reloaded.PerformanceRankings["exa"].SuccessRate != insights.PerformanceRankings["exa"].SuccessRate {
		t.Error("JSON insights do not round-trip success rate")
	}

	csvData, err := os.ReadFile(filepath.Join(dir, "performance_rankings.csv"))
	if err != nil {
		t.Fatalf("rankings CSV missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	if len(lines) != 3 {
		t.Errorf("rankings CSV has %d lines, want header + 2", len(lines))
	}
	// exa has the better success rate and must rank first.
	if !strings.HasPrefix(lines[1], "exa,") {
		t.Errorf("first ranking row = %q", lines[1])
	}
}

func TestGenerateQualityArtifacts(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir)
	if err != nil {
		t.Fatal(err)
	}

	verdicts := []quality.Verdict{
		{
			Query: "who founded Acme?",
			PerAPI: map[string]quality.ScoreSet{
				"exa": {Completeness: 0.8, HasNumbers: true, ResponseTimeSeconds: 0.4},
			},
			Winner:    "exa",
			WinReason: "provides specific numbers",
		},
		{
			Query:     "unanswerable",
			PerAPI:    map[string]quality.ScoreSet{},
			Winner:    "none",
			WinReason: "No clear winner",
		},
	}

	if err := g.GenerateQuality(verdicts); err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, name := range []string{
		"quality_analysis.csv", "win_rates.csv", "use_cases.txt", "competitive_advantages.csv",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	adv, err := os.ReadFile(filepath.Join(dir, "competitive_advantages.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(adv), "none") {
		t.Error("advantages CSV should skip queries with no winner")
	}
}

func TestGenerateProcessedArtifacts(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir)
	if err != nil {
		t.Fatal(err)
	}

	queries := []providers.QueryResponses{
		{
			Query: "who founded Acme?",
			Responses: []providers.Response{
				{
					APIName: "exa",
					Success: true,
					ResponseData: map[string]interface{}{
						"answer":  "Jane   Doe founded Acme.",
						"sources": []interface{}{"https://acme.com"},
					},
					ResponseTimeSeconds: 0.4,
				},
				{APIName: "tavily", Success: false, Error: "timeout"},
			},
		},
	}

	if err := g.GenerateProcessed(queries); err != nil {
		t.Fatalf("generate: %v", err)
	}

	clean, err := os.ReadFile(filepath.Join(dir, "clean_responses.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(clean), "Jane Doe founded Acme.") {
		t.Error("clean responses should carry the whitespace-normalized answer")
	}

	stats, err := os.ReadFile(filepath.Join(dir, "response_statistics.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(stats), "founded Acme.") {
		t.Error("statistics CSV should not contain answer text")
	}

	cmp, err := os.ReadFile(filepath.Join(dir, "api_comparison.csv"))
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(cmp), "\n", 2)[0]
	for _, col := range []string{"exa_answer", "exa_sources", "tavily_answer"} {
		if !strings.Contains(header, col) {
			t.Errorf("comparison header missing %s: %q", col, header)
		}
	}
}
