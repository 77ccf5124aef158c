package quality

import (
	"math"
	"testing"

	"github.com/lamim/answer-api-bench/internal/extract"
)

func inUnit(v float64) bool {
	return v >= 0.0 && v <= 1.0
}

func TestScoreSubScoresClamped(t *testing.T) {
	scorer := NewScorer()

	answers := []string{
		"",
		"The Acme Corporation has exactly 42 offices, specifically located across 12 locations in Europe, clearly a total of $1,000,000 in revenue, 85% growth on 01/02/2023. Call 555-123-4567 or visit acme.com to schedule a contact and locate the nearest office. John Smith and Jane Doe and Bob Brown run it.",
		"I don't know. It may vary, possibly unclear, approximately several various many some things.",
		"Short answer.",
	}

	for _, answer := range answers {
		scores := scorer.Score(answer, "how many offices does Acme have?", nil)
		for name, v := range map[string]float64{
			"completeness":   scores.Completeness,
			"specificity":    scores.Specificity,
			"source_quality": scores.SourceQuality,
			"confidence":     scores.Confidence,
			"actionability":  scores.Actionability,
		} {
			if !inUnit(v) {
				t.Errorf("answer %q: %s = %f outside [0, 1]", answer, name, v)
			}
		}
	}
}

func TestScoreEmptyAnswer(t *testing.T) {
	scorer := NewScorer()
	scores := scorer.Score("", "how many offices does Acme have?", nil)

	if scores.Completeness != 0 {
		t.Errorf("empty answer completeness = %f, want 0", scores.Completeness)
	}
	if scores.WordCount != 0 {
		t.Errorf("empty answer word count = %d, want 0", scores.WordCount)
	}
	if scores.HasNumbers {
		t.Error("empty answer should not have numbers")
	}
}

func TestScoreRefusalGetsNoSubstancePoints(t *testing.T) {
	scorer := NewScorer()

	refusal := scorer.Score("I don't have that information", "what is the revenue?", nil)
	substantive := scorer.Score("The revenue was strong last year", "what is the revenue?", nil)

	if refusal.Completeness >= substantive.Completeness {
		t.Errorf("refusal completeness %f should be below substantive %f",
			refusal.Completeness, substantive.Completeness)
	}
}

func TestSourceQualityEmpty(t *testing.T) {
	scorer := NewScorer()
	scores := scorer.Score("An answer.", "a query", nil)
	if scores.SourceQuality != 0 {
		t.Errorf("source quality with no sources = %f, want 0", scores.SourceQuality)
	}
}

func TestSourceQualityMonotonicWithCount(t *testing.T) {
	scorer := NewScorer()

	makeSources := func(n int) []extract.Source {
		sources := make([]extract.Source, n)
		for i := range sources {
			sources[i] = extract.Source{URL: "https://example.com/page"}
		}
		return sources
	}

	prev := 0.0
	for n := 1; n <= 3; n++ {
		scores := scorer.Score("An answer.", "a query", makeSources(n))
		if scores.SourceQuality <= prev {
			t.Errorf("%d plain sources: quality %f not above %f", n, scores.SourceQuality, prev)
		}
		prev = scores.SourceQuality
	}

	// Count contribution caps at 0.6 regardless of how many sources.
	many := scorer.Score("An answer.", "a query", makeSources(50))
	if many.SourceQuality > 0.6+1e-9 {
		t.Errorf("50 plain sources: quality %f exceeds count cap 0.6", many.SourceQuality)
	}
}

func TestSourceQualityAuthoritativeBonus(t *testing.T) {
	scorer := NewScorer()

	plain := scorer.Score("An answer.", "a query",
		[]extract.Source{{URL: "https://example.com"}})
	gov := scorer.Score("An answer.", "a query",
		[]extract.Source{{URL: "https://data.census.gov"}})

	if gov.SourceQuality <= plain.SourceQuality {
		t.Errorf(".gov source quality %f should exceed plain %f",
			gov.SourceQuality, plain.SourceQuality)
	}
}

func TestSpecificityVaguePenalty(t *testing.T) {
	scorer := NewScorer()

	precise := scorer.Score("There are exactly 42 offices.", "how many offices?", nil)
	vague := scorer.Score("There are various offices, it depends, possibly many.", "how many offices?", nil)

	if vague.Specificity >= precise.Specificity {
		t.Errorf("vague specificity %f should be below precise %f",
			vague.Specificity, precise.Specificity)
	}
}

func TestConfidenceShifts(t *testing.T) {
	scorer := NewScorer()

	confident := scorer.Score("There are exactly 42 offices in the region.", "q", nil)
	uncertain := scorer.Score("There may be offices, it seems unclear.", "q", nil)
	neutral := scorer.Score("There are offices in the region.", "q", nil)

	if confident.Confidence <= neutral.Confidence {
		t.Errorf("confident %f should exceed neutral %f", confident.Confidence, neutral.Confidence)
	}
	if uncertain.Confidence >= neutral.Confidence {
		t.Errorf("uncertain %f should be below neutral %f", uncertain.Confidence, neutral.Confidence)
	}
	if math.Abs(neutral.Confidence-0.7) > 1e-9 {
		t.Errorf("neutral confidence = %f, want 0.7", neutral.Confidence)
	}
}

func TestActionabilityPatterns(t *testing.T) {
	scorer := NewScorer()

	actionable := scorer.Score(
		"Call 555-123-4567 or visit acme.com to contact the team at 12 locations.", "q", nil)
	inert := scorer.Score("It is what it is.", "q", nil)

	if actionable.Actionability <= inert.Actionability {
		t.Errorf("actionable %f should exceed inert %f",
			actionable.Actionability, inert.Actionability)
	}
}

func TestHasNumbersAndNames(t *testing.T) {
	scorer := NewScorer()

	scores := scorer.Score("John Smith met Jane Doe and Bob Brown at 5 sites.", "q", nil)
	if !scores.HasNumbers {
		t.Error("expected has_numbers true")
	}
	if !scores.HasSpecificNames {
		t.Error("expected has_specific_names true with three proper nouns")
	}

	few := scorer.Score("Paris is nice.", "q", nil)
	if few.HasSpecificNames {
		t.Error("two or fewer proper nouns should not count as specific names")
	}
}
