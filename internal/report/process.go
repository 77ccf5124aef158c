package report

import (
	"strconv"
	"strings"

	"github.com/lamim/answer-api-bench/internal/extract"
	"github.com/lamim/answer-api-bench/internal/providers"
)

// processedResponse is one (query, API) pair with its cleaned answer,
// the long form the process-stage CSVs are built from.
type processedResponse struct {
	Query       string
	APIName     string
	Answer      string
	SourceCount int
	SourceURLs  []string
	WordCount   int
	Time        float64
	Success     bool
	Timestamp   string
}

// GenerateProcessed writes the process-stage CSVs from raw query
// responses: cleaned answers with metrics, metrics only, and a
// side-by-side per-query comparison.
func (g *Generator) GenerateProcessed(queries []providers.QueryResponses) error {
	processed := processResponses(queries)

	if err := g.writeCleanResponsesCSV(processed); err != nil {
		return err
	}
	if err := g.writeStatisticsCSV(processed); err != nil {
		return err
	}
	return g.writeComparisonCSV(queries, processed)
}

func processResponses(queries []providers.QueryResponses) []processedResponse {
	var out []processedResponse
	for _, qr := range queries {
		for _, resp := range qr.Responses {
			answer, sources := extract.Answer(resp.APIName, resp.ResponseData)
			out = append(out, processedResponse{
				Query:       qr.Query,
				APIName:     resp.APIName,
				Answer:      answer,
				SourceCount: len(sources),
				SourceURLs:  extract.URLs(sources),
				WordCount:   len(strings.Fields(answer)),
				Time:        resp.ResponseTimeSeconds,
				Success:     resp.Success,
				Timestamp:   resp.Timestamp.Format("2006-01-02T15:04:05"),
			})
		}
	}
	return out
}

func (g *Generator) writeCleanResponsesCSV(processed []processedResponse) error {
	rows := [][]string{{
		"query", "api_name", "full_answer", "source_count", "word_count",
		"response_time", "success", "timestamp",
	}}
	for _, p := range processed {
		rows = append(rows, []string{
			p.Query, p.APIName, p.Answer,
			strconv.Itoa(p.SourceCount),
			strconv.Itoa(p.WordCount),
			formatFloat(p.Time),
			strconv.FormatBool(p.Success),
			p.Timestamp,
		})
	}
	return g.writeCSV("clean_responses.csv", rows)
}

// writeStatisticsCSV is the metrics-only variant without answer text.
func (g *Generator) writeStatisticsCSV(processed []processedResponse) error {
	rows := [][]string{{
		"query", "api_name", "source_count", "word_count",
		"response_time", "success", "timestamp",
	}}
	for _, p := range processed {
		rows = append(rows, []string{
			p.Query, p.APIName,
			strconv.Itoa(p.SourceCount),
			strconv.Itoa(p.WordCount),
			formatFloat(p.Time),
			strconv.FormatBool(p.Success),
			p.Timestamp,
		})
	}
	return g.writeCSV("response_statistics.csv", rows)
}

// writeComparisonCSV lays answers side by side, one row per query with
// a column group per API.
func (g *Generator) writeComparisonCSV(queries []providers.QueryResponses, processed []processedResponse) error {
	apiSet := make(map[string]struct{})
	for _, p := range processed {
		apiSet[p.APIName] = struct{}{}
	}
	apis := sortedKeys(apiSet)

	type key struct{ query, api string }
	byKey := make(map[key]processedResponse, len(processed))
	for _, p := range processed {
		byKey[key{p.Query, p.APIName}] = p
	}

	header := []string{"query"}
	for _, api := range apis {
		header = append(header,
			api+"_answer", api+"_sources", api+"_time", api+"_word_count")
	}
	rows := [][]string{header}

	for _, qr := range queries {
		row := []string{qr.Query}
		for _, api := range apis {
			p := byKey[key{qr.Query, api}]
			row = append(row,
				p.Answer,
				strconv.Itoa(p.SourceCount),
				formatFloat(p.Time),
				strconv.Itoa(p.WordCount),
			)
		}
		rows = append(rows, row)
	}

	return g.writeCSV("api_comparison.csv", rows)
}
