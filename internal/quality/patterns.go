// Package quality provides heuristic quality scoring for answer API
// responses and per-query winner selection.
package quality

// Patterns holds the phrase and pattern tables the scorer consults.
// These are data, not code: tests and deployments can swap entries
// without touching the scoring logic.
type Patterns struct {
	// StopWords are dropped from the query before keyword coverage.
	StopWords []string

	// RefusalPrefixes suppress the direct-answer bonus when the answer
	// starts with one of them (case-insensitive).
	RefusalPrefixes []string

	// VaguePhrases each subtract from specificity when present.
	VaguePhrases []string

	// ConfidentPhrases each add to confidence when present.
	ConfidentPhrases []string

	// UncertainPhrases each subtract from confidence when present.
	UncertainPhrases []string

	// AuthoritativeDomains mark a source URL as authoritative by
	// substring match.
	AuthoritativeDomains []string
}

// DefaultPatterns returns the stock pattern tables.
func DefaultPatterns() Patterns {
	return Patterns{
		StopWords: []string{
			"the", "a", "an", "is", "are", "was", "were",
			"in", "on", "at", "to", "for", "of", "with", "by",
		},
		RefusalPrefixes: []string{
			"i don't", "i cannot", "the exact",
		},
		VaguePhrases: []string{
			"multiple", "various", "several", "many", "some",
			"exact number is not specified", "approximately",
			"it depends", "varies", "unclear",
		},
		ConfidentPhrases: []string{
			"specifically", "exactly", "definitely", "clearly", "total of",
		},
		UncertainPhrases: []string{
			"may", "might", "possibly", "appears", "seems",
			"not specified", "unclear", "approximately", "about",
		},
		AuthoritativeDomains: []string{
			".gov", ".edu", ".org", "official", "wikipedia.org",
		},
	}
}
