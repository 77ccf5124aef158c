package quality

import (
	"sort"
	"strings"
)

// Composite weights for winner selection.
const (
	weightCompleteness  = 0.30
	weightSpecificity   = 0.25
	weightSourceQuality = 0.15
	weightConfidence    = 0.15
	weightActionability = 0.15

	// slowPenalty is a single flat multiplier applied above the latency
	// threshold, not proportional to how slow the response was.
	slowPenaltyThreshold = 1.0
	slowPenaltyFactor    = 0.9
)

// Composite returns the weighted composite score for one score set,
// including the flat latency penalty.
func Composite(s ScoreSet) float64 {
	score := s.Completeness*weightCompleteness +
		s.Specificity*weightSpecificity +
		s.SourceQuality*weightSourceQuality +
		s.Confidence*weightConfidence +
		s.Actionability*weightActionability

	if s.ResponseTimeSeconds > slowPenaltyThreshold {
		score *= slowPenaltyFactor
	}

	return score
}

// SelectWinner picks the best-scoring API for one query. APIs are
// evaluated in ascending name order with a strict-greater comparison,
// so ties deterministically go to the alphabetically first API.
// An empty input yields ("none", "No clear winner").
func SelectWinner(perAPI map[string]ScoreSet) (string, string) {
	if len(perAPI) == 0 {
		return "none", "No clear winner"
	}

	names := make([]string, 0, len(perAPI))
	for name := range perAPI {
		names = append(names, name)
	}
	sort.Strings(names)

	winner := ""
	best := 0.0
	for _, name := range names {
		composite := Composite(perAPI[name])
		if winner == "" || composite > best {
			winner = name
			best = composite
		}
	}

	return winner, winReason(perAPI[winner])
}

// winReason builds the semicolon-joined justification from the winner's
// own sub-scores. Each clause is gated by a fixed threshold; if none
// fire, the generic fallback applies.
func winReason(s ScoreSet) string {
	var reasons []string

	if s.HasNumbers {
		reasons = append(reasons, "provides specific numbers")
	}
	if s.Specificity > 0.7 {
		reasons = append(reasons, "gives specific details")
	}
	if s.SourceQuality > 0.5 {
		reasons = append(reasons, "has quality sources")
	}
	if s.Confidence > 0.7 {
		reasons = append(reasons, "confident answer")
	}
	if s.ResponseTimeSeconds < 0.5 {
		reasons = append(reasons, "fast response")
	}

	if len(reasons) == 0 {
		return "overall better quality"
	}
	return strings.Join(reasons, "; ")
}
