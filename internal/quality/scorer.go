package quality

import (
	"regexp"
	"strings"

	"github.com/lamim/answer-api-bench/internal/extract"
)

// ScoreSet holds the five heuristic sub-scores for one response plus
// the raw features reports display. All sub-scores are clamped to [0,1].
type ScoreSet struct {
	Completeness     float64 `json:"completeness_score"`
	Specificity      float64 `json:"specificity_score"`
	SourceQuality    float64 `json:"source_quality"`
	Confidence       float64 `json:"confidence_level"`
	Actionability    float64 `json:"actionability"`
	WordCount        int     `json:"word_count"`
	HasNumbers       bool    `json:"has_numbers"`
	HasSpecificNames bool    `json:"has_specific_names"`

	// ResponseTimeSeconds is carried alongside the scores because the
	// winner selection applies a latency penalty.
	ResponseTimeSeconds float64 `json:"response_time"`
}

// Regex pattern classes used by the sub-scores. Compiled once; the
// scorer treats each class as present-or-absent, never counting repeats.
var (
	reDigits        = regexp.MustCompile(`\d+`)
	reDate          = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	reMoney         = regexp.MustCompile(`\$[\d,]+`)
	rePercent       = regexp.MustCompile(`\d+%`)
	reProperPair    = regexp.MustCompile(`[A-Z][a-z]+ [A-Z][a-z]+`)
	rePhoneAction   = regexp.MustCompile(`(?i)call \d{3}-\d{3}-\d{4}`)
	reWebsiteAction = regexp.MustCompile(`(?i)visit [a-zA-Z]+\.com`)
	reContactAction = regexp.MustCompile(`(?i)contact`)
	reScheduleWord  = regexp.MustCompile(`(?i)schedule`)
	reLocateWord    = regexp.MustCompile(`(?i)locate`)
	reLocations     = regexp.MustCompile(`\d+ (locations?|offices?|centers?)`)
	reProperNouns   = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// Scorer computes heuristic quality scores from an answer and its
// sources. It holds no state beyond its pattern tables; Score is pure.
type Scorer struct {
	patterns Patterns
}

// NewScorer creates a scorer with the default pattern tables.
func NewScorer() *Scorer {
	return NewScorerWithPatterns(DefaultPatterns())
}

// NewScorerWithPatterns creates a scorer with custom pattern tables.
func NewScorerWithPatterns(p Patterns) *Scorer {
	return &Scorer{patterns: p}
}

// Score computes the full score set for one answer.
func (s *Scorer) Score(answer, query string, sources []extract.Source) ScoreSet {
	return ScoreSet{
		Completeness:     s.Completeness(answer, query),
		Specificity:      s.Specificity(answer),
		SourceQuality:    s.SourceQuality(sources),
		Confidence:       s.Confidence(answer),
		Actionability:    s.Actionability(answer),
		WordCount:        len(strings.Fields(answer)),
		HasNumbers:       reDigits.MatchString(answer),
		HasSpecificNames: HasSpecificNames(answer),
	}
}

// Completeness scores how completely the answer addresses the query.
// Keyword coverage over the non-stop query tokens, plus a bonus for
// numeric data and for not opening with a refusal phrase.
func (s *Scorer) Completeness(answer, query string) float64 {
	score := 0.0
	answerLower := strings.ToLower(answer)

	keywords := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(query)) {
		keywords[token] = struct{}{}
	}
	for _, stop := range s.patterns.StopWords {
		delete(keywords, stop)
	}

	if len(keywords) > 0 {
		found := 0
		for kw := range keywords {
			if strings.Contains(answerLower, kw) {
				found++
			}
		}
		score = float64(found) / float64(len(keywords))
	}

	if reDigits.MatchString(answer) {
		score += 0.2
	}

	if strings.TrimSpace(answer) != "" && !hasAnyPrefix(answerLower, s.patterns.RefusalPrefixes) {
		score += 0.1
	}

	return clamp01(score)
}

// Specificity scores how specific vs vague the answer is. Starts
// neutral; each pattern class present adds once, each vague phrase
// present subtracts once.
func (s *Scorer) Specificity(answer string) float64 {
	score := 0.5

	for _, re := range []*regexp.Regexp{reDigits, reDate, reMoney, rePercent, reProperPair} {
		if re.MatchString(answer) {
			score += 0.1
		}
	}

	answerLower := strings.ToLower(answer)
	for _, phrase := range s.patterns.VaguePhrases {
		if strings.Contains(answerLower, phrase) {
			score -= 0.15
		}
	}

	return clamp01(score)
}

// SourceQuality scores the quantity and authority of cited sources.
// Zero sources means zero; the count contributes up to 0.6, and each
// source on an authoritative domain adds 0.1 once.
func (s *Scorer) SourceQuality(sources []extract.Source) float64 {
	if len(sources) == 0 {
		return 0
	}

	score := float64(len(sources)) * 0.2
	if score > 0.6 {
		score = 0.6
	}

	for _, source := range sources {
		urlLower := strings.ToLower(source.URL)
		for _, domain := range s.patterns.AuthoritativeDomains {
			if strings.Contains(urlLower, domain) {
				score += 0.1
				break
			}
		}
	}

	return clamp01(score)
}

// Confidence scores the assertiveness of the answer's language.
func (s *Scorer) Confidence(answer string) float64 {
	score := 0.7
	answerLower := strings.ToLower(answer)

	for _, phrase := range s.patterns.ConfidentPhrases {
		if strings.Contains(answerLower, phrase) {
			score += 0.15
		}
	}

	for _, phrase := range s.patterns.UncertainPhrases {
		if strings.Contains(answerLower, phrase) {
			score -= 0.1
		}
	}

	return clamp01(score)
}

// Actionability scores whether the answer gives the reader something to
// act on: phone numbers, website references, contact verbs, or a
// concrete "N locations" style count.
func (s *Scorer) Actionability(answer string) float64 {
	score := 0.5

	for _, re := range []*regexp.Regexp{rePhoneAction, reWebsiteAction, reContactAction, reScheduleWord, reLocateWord} {
		if re.MatchString(answer) {
			score += 0.2
		}
	}

	if reLocations.MatchString(answer) {
		score += 0.3
	}

	return clamp01(score)
}

// HasSpecificNames reports whether the answer names more than two
// capitalized entities.
func HasSpecificNames(answer string) bool {
	return len(reProperNouns.FindAllString(answer, -1)) > 2
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
