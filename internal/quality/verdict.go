package quality

import (
	"sort"
	"strings"

	"github.com/lamim/answer-api-bench/internal/extract"
	"github.com/lamim/answer-api-bench/internal/providers"
)

// Verdict is the per-query decision of which API won, with the scores
// that justify it. APIs that failed the query are excluded from PerAPI
// entirely; a query where every API failed gets winner "none".
type Verdict struct {
	Query     string              `json:"query"`
	PerAPI    map[string]ScoreSet `json:"per_api"`
	Winner    string              `json:"winner"`
	WinReason string              `json:"win_reason"`
}

// Analyzer runs the extract-score-select pipeline over recorded runs.
type Analyzer struct {
	scorer *Scorer
}

// NewAnalyzer creates an analyzer with the default scorer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{scorer: NewScorer()}
}

// NewAnalyzerWithScorer creates an analyzer using a custom scorer.
func NewAnalyzerWithScorer(s *Scorer) *Analyzer {
	return &Analyzer{scorer: s}
}

// AnalyzeQuery scores every successful response to one query and picks
// a winner. Failed responses contribute no score and cannot win.
func (a *Analyzer) AnalyzeQuery(qr providers.QueryResponses) Verdict {
	perAPI := make(map[string]ScoreSet)

	for _, resp := range qr.Responses {
		if !resp.Success {
			continue
		}

		answer, sources := extract.Answer(resp.APIName, resp.ResponseData)
		scores := a.scorer.Score(answer, qr.Query, sources)
		scores.ResponseTimeSeconds = resp.ResponseTimeSeconds
		perAPI[resp.APIName] = scores
	}

	winner, reason := SelectWinner(perAPI)

	return Verdict{
		Query:     qr.Query,
		PerAPI:    perAPI,
		Winner:    winner,
		WinReason: reason,
	}
}

// AnalyzeAll produces one verdict per query, in input order.
func (a *Analyzer) AnalyzeAll(queries []providers.QueryResponses) []Verdict {
	verdicts := make([]Verdict, 0, len(queries))
	for _, qr := range queries {
		verdicts = append(verdicts, a.AnalyzeQuery(qr))
	}
	return verdicts
}

// WinRate summarizes how often one API won across the query set.
type WinRate struct {
	API     string  `json:"api"`
	Wins    int     `json:"wins"`
	RatePct float64 `json:"win_rate_pct"`
}

// WinRates tallies verdict winners, sorted by descending wins then name.
func WinRates(verdicts []Verdict) []WinRate {
	counts := make(map[string]int)
	for _, v := range verdicts {
		counts[v.Winner]++
	}

	rates := make([]WinRate, 0, len(counts))
	for api, wins := range counts {
		rate := WinRate{API: api, Wins: wins}
		if len(verdicts) > 0 {
			rate.RatePct = float64(wins) / float64(len(verdicts)) * 100
		}
		rates = append(rates, rate)
	}

	sort.Slice(rates, func(i, j int) bool {
		if rates[i].Wins != rates[j].Wins {
			return rates[i].Wins > rates[j].Wins
		}
		return rates[i].API < rates[j].API
	})

	return rates
}

// Use-case buckets for the qualitative "where does each API excel"
// report. A query can land in several buckets.
const (
	UseCaseQuantitative = "quantitative_queries"
	UseCaseLocation     = "location_queries"
	UseCaseComparison   = "comparison_queries"
	UseCaseFactual      = "factual_queries"
	UseCaseComplex      = "complex_queries"
)

// UseCaseEntry pairs a query with its winner for the use-case report.
type UseCaseEntry struct {
	Query  string `json:"query"`
	Winner string `json:"winner"`
}

// IdentifyUseCases buckets verdicts by query type so the report can
// show where each API excels.
func IdentifyUseCases(verdicts []Verdict) map[string][]UseCaseEntry {
	useCases := map[string][]UseCaseEntry{
		UseCaseQuantitative: {},
		UseCaseLocation:     {},
		UseCaseComparison:   {},
		UseCaseFactual:      {},
		UseCaseComplex:      {},
	}

	for _, v := range verdicts {
		entry := UseCaseEntry{Query: v.Query, Winner: v.Winner}
		queryLower := strings.ToLower(v.Query)
		words := strings.Fields(v.Query)

		if containsAny(queryLower, "how many", "count", "number", "total", "percentage") {
			useCases[UseCaseQuantitative] = append(useCases[UseCaseQuantitative], entry)
		}
		if containsAny(queryLower, "where", "location", "place", "address") {
			useCases[UseCaseLocation] = append(useCases[UseCaseLocation], entry)
		}
		if containsAny(queryLower, "compare", "versus", "vs", "difference", "better") {
			useCases[UseCaseComparison] = append(useCases[UseCaseComparison], entry)
		}
		if strings.Contains(v.Query, "?") && len(words) < 10 {
			useCases[UseCaseFactual] = append(useCases[UseCaseFactual], entry)
		}
		if len(words) > 15 || strings.Count(v.Query, ",") > 2 {
			useCases[UseCaseComplex] = append(useCases[UseCaseComplex], entry)
		}
	}

	return useCases
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
