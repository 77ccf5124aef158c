package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lamim/answer-api-bench/internal/dataset"
)

func cell(success bool, seconds float64, answer string, numSources int) dataset.Cell {
	return dataset.Cell{
		Success:      success,
		ResponseTime: seconds,
		Answer:       answer,
		NumSources:   numSources,
	}
}

func failedCell(errMsg string) dataset.Cell {
	return dataset.Cell{
		Success:  false,
		Error:    errMsg,
		TimedOut: dataset.IsTimeout(errMsg),
	}
}

// Two queries; alpha succeeds on both quickly with rich sources, beta
// fails one and is slow on the other.
func alphaBetaRows() []dataset.Row {
	return []dataset.Row{
		{
			Query:       "who is the founder of Acme?",
			QueryLength: 27,
			PerAPI: map[string]dataset.Cell{
				"alpha": cell(true, 0.3, strings.Repeat("a", 200), 5),
				"beta":  failedCell("request timed out"),
			},
		},
		{
			Query:       "where is Acme headquartered?",
			QueryLength: 28,
			PerAPI: map[string]dataset.Cell{
				"alpha": cell(true, 0.3, strings.Repeat("a", 200), 5),
				"beta":  cell(true, 2.0, strings.Repeat("b", 100), 2),
			},
		},
	}
}

func alphaFocalOptions() Options {
	return Options{FocalVariants: []string{"alpha"}, TimeoutAlertThreshold: 100}
}

func TestAnalyzeSuccessRates(t *testing.T) {
	insights := Analyze(alphaBetaRows(), alphaFocalOptions())

	alpha := insights.PerformanceRankings["alpha"]
	beta := insights.PerformanceRankings["beta"]

	if alpha.SuccessRate != 100 {
		t.Errorf("alpha success rate = %f, want 100", alpha.SuccessRate)
	}
	if beta.SuccessRate != 50 {
		t.Errorf("beta success rate = %f, want 50", beta.SuccessRate)
	}
	if alpha.AvgSources != 5 {
		t.Errorf("alpha avg sources = %f, want 5", alpha.AvgSources)
	}
	if beta.Timeouts != 1 {
		t.Errorf("beta timeouts = %d, want 1", beta.Timeouts)
	}
}

func TestAnalyzeZeroSuccessesNilLatency(t *testing.T) {
	rows := []dataset.Row{
		{
			Query:       "anything at all",
			QueryLength: 15,
			PerAPI: map[string]dataset.Cell{
				"alpha": failedCell("connection refused"),
			},
		},
	}

	insights := Analyze(rows, alphaFocalOptions())
	alpha := insights.PerformanceRankings["alpha"]

	if alpha.SuccessRate != 0 {
		t.Errorf("success rate = %f, want 0", alpha.SuccessRate)
	}
	if alpha.AvgResponseTime != nil || alpha.P95ResponseTime != nil {
		t.Error("latency stats should be nil with zero successes")
	}
	if _, ok := insights.SpeedVsQuality["alpha"]; ok {
		t.Error("speed-vs-quality should skip APIs with no successes")
	}
	if _, ok := insights.SourceAnalysis["alpha"]; ok {
		t.Error("source analysis should skip APIs with no successes")
	}
}

func TestAnalyzePercentilesOverSuccessesOnly(t *testing.T) {
	rows := make([]dataset.Row, 0, 6)
	times := []float64{1, 2, 3, 4, 5}
	for _, seconds := range times {
		rows = append(rows, dataset.Row{
			Query:       "q",
			QueryLength: 1,
			PerAPI: map[string]dataset.Cell{
				"alpha": cell(true, seconds, "answer", 1),
			},
		})
	}
	// A failure with a huge recorded time must not skew the stats.
	rows = append(rows, dataset.Row{
		Query:       "q",
		QueryLength: 1,
		PerAPI: map[string]dataset.Cell{
			"alpha": {Success: false, ResponseTime: 120, Error: "timeout", TimedOut: true},
		},
	})

	insights := Analyze(rows, alphaFocalOptions())
	alpha := insights.PerformanceRankings["alpha"]

	if alpha.MedianResponseTime == nil || *alpha.MedianResponseTime != 3 {
		t.Errorf("median = %v, want 3", alpha.MedianResponseTime)
	}
	if alpha.P95ResponseTime == nil || *alpha.P95ResponseTime != 4.8 {
		t.Errorf("p95 = %v, want 4.8", alpha.P95ResponseTime)
	}
}

func TestCategorizeQueryPriorityOrder(t *testing.T) {
	cases := map[string]string{
		"find the CEO of Acme on LinkedIn":     "Company/LinkedIn Research",
		"what is the founder of Acme known as": "Company/LinkedIn Research",
		"what is quantum computing and how does it affect cryptography today": "Q&A/Informational",
		"summarize the quarterly earnings call for Acme Corporation in 2024":  "Summarization",
		"weather in Paris": "Short Query",
		strings.Repeat("describe the history of industrial policy ", 13): "Long/Complex Query",
		strings.Repeat("general topic exploration without keywords ", 3): "General Search",
	}

	for query, want := range cases {
		if got := CategorizeQuery(query); got != want {
			t.Errorf("CategorizeQuery(%.40q) = %q, want %q", query, got, want)
		}
	}
}

func TestComplexityBuckets(t *testing.T) {
	cases := map[int]string{
		1:    BucketVeryShort,
		50:   BucketVeryShort,
		51:   BucketShort,
		200:  BucketShort,
		201:  BucketMedium,
		500:  BucketMedium,
		501:  BucketLong,
		5000: BucketLong,
	}
	for length, want := range cases {
		if got := ComplexityBucket(length); got != want {
			t.Errorf("ComplexityBucket(%d) = %q, want %q", length, got, want)
		}
	}
}

func TestCompetitivePositioningThresholds(t *testing.T) {
	insights := Analyze(alphaBetaRows(), alphaFocalOptions())

	pos, ok := insights.CompetitivePositioning["alpha"]
	if !ok {
		t.Fatal("no positioning for focal variant alpha")
	}

	// alpha avg sources 5 vs beta 2: past the 1.5x threshold.
	found := false
	for _, s := range pos.Strengths {
		if strings.Contains(s, "more sources") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected source-count strength, got %v", pos.Strengths)
	}

	// alpha is faster and more reliable than beta: no weaknesses.
	if len(pos.Weaknesses) != 0 {
		t.Errorf("unexpected weaknesses: %v", pos.Weaknesses)
	}
}

func TestCompetitivePositioningWeaknesses(t *testing.T) {
	rows := []dataset.Row{
		{
			Query:       "minor question",
			QueryLength: 14,
			PerAPI: map[string]dataset.Cell{
				"alpha": cell(true, 3.0, "answer", 1),
				"beta":  cell(true, 1.0, "answer", 1),
			},
		},
		{
			Query:       "second question",
			QueryLength: 15,
			PerAPI: map[string]dataset.Cell{
				"alpha": failedCell("boom"),
				"beta":  cell(true, 1.0, "answer", 1),
			},
		},
	}

	pos := Analyze(rows, alphaFocalOptions()).CompetitivePositioning["alpha"]

	var lowerSuccess, slower bool
	for _, w := range pos.Weaknesses {
		if strings.Contains(w, "Lower success rate") {
			lowerSuccess = true
		}
		if strings.Contains(w, "slower") {
			slower = true
		}
	}
	if !lowerSuccess {
		t.Errorf("expected lower-success weakness, got %v", pos.Weaknesses)
	}
	if !slower {
		t.Errorf("expected slower weakness, got %v", pos.Weaknesses)
	}
}

func TestTimeoutRecommendation(t *testing.T) {
	rows := make([]dataset.Row, 0, 150)
	for i := 0; i < 150; i++ {
		rows = append(rows, dataset.Row{
			Query:       "q",
			QueryLength: 1,
			PerAPI: map[string]dataset.Cell{
				"alpha": failedCell("request timed out"),
			},
		})
	}

	pos := Analyze(rows, alphaFocalOptions()).CompetitivePositioning["alpha"]
	if len(pos.Recommendations) != 1 {
		t.Fatalf("recommendations = %v, want one timeout alert", pos.Recommendations)
	}
	if !strings.Contains(pos.Recommendations[0], "CRITICAL") {
		t.Errorf("recommendation = %q", pos.Recommendations[0])
	}
}

func TestInsightsJSONRoundTrip(t *testing.T) {
	insights := Analyze(alphaBetaRows(), alphaFocalOptions())

	data, err := json.Marshal(insights)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var reloaded Insights
	if err := json.Unmarshal(data, &reloaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, api := range []string{"alpha", "beta"} {
		orig := insights.PerformanceRankings[api]
		got := reloaded.PerformanceRankings[api]
		if got.SuccessRate != orig.SuccessRate {
			t.Errorf("%s success rate %f != %f after round trip", api, got.SuccessRate, orig.SuccessRate)
		}
		switch {
		case orig.AvgResponseTime == nil && got.AvgResponseTime != nil,
			orig.AvgResponseTime != nil && got.AvgResponseTime == nil:
			t.Errorf("%s avg time nil mismatch after round trip", api)
		case orig.AvgResponseTime != nil && *got.AvgResponseTime != *orig.AvgResponseTime:
			t.Errorf("%s avg time %f != %f after round trip", api, *got.AvgResponseTime, *orig.AvgResponseTime)
		}
	}
}
