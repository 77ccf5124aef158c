// Package dataset flattens raw benchmark runs into a wide per-query
// table, one column group per API, and reads/writes it as CSV so the
// analysis stage can run on previously processed files.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lamim/answer-api-bench/internal/extract"
	"github.com/lamim/answer-api-bench/internal/providers"
)

// Cell is one API's outcome for one query.
type Cell struct {
	Success      bool
	ResponseTime float64
	Answer       string
	NumSources   int
	SourceURLs   []string
	Error        string
	TimedOut     bool
}

// Row is one query with the outcome of every API that was asked.
type Row struct {
	Query       string
	QueryLength int
	PerAPI      map[string]Cell
}

// APIs returns the union of API names across rows, sorted.
func APIs(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for api := range row.PerAPI {
			seen[api] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for api := range seen {
		names = append(names, api)
	}
	sort.Strings(names)
	return names
}

// Build flattens raw query responses into rows, extracting the answer
// text and source URLs per response. Input order is preserved.
func Build(queries []providers.QueryResponses) []Row {
	rows := make([]Row, 0, len(queries))
	for _, qr := range queries {
		row := Row{
			Query:       qr.Query,
			QueryLength: len(qr.Query),
			PerAPI:      make(map[string]Cell, len(qr.Responses)),
		}
		for _, resp := range qr.Responses {
			row.PerAPI[resp.APIName] = buildCell(resp)
		}
		rows = append(rows, row)
	}
	return rows
}

func buildCell(resp providers.Response) Cell {
	cell := Cell{
		Success:      resp.Success,
		ResponseTime: resp.ResponseTimeSeconds,
		Error:        resp.Error,
		TimedOut:     IsTimeout(resp.Error),
	}
	if !resp.Success {
		return cell
	}

	answer, sources := extract.Answer(resp.APIName, resp.ResponseData)
	cell.Answer = answer
	cell.NumSources = len(sources)
	cell.SourceURLs = extract.URLs(sources)
	return cell
}

// IsTimeout reports whether an error message describes a timeout.
// Matching is substring-based because the message may come from any of
// several HTTP client layers.
func IsTimeout(errMsg string) bool {
	lower := strings.ToLower(errMsg)
	return strings.Contains(lower, "timed out") || strings.Contains(lower, "timeout")
}

func joinURLs(urls []string) string {
	return strings.Join(urls, "; ")
}

func splitURLs(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ";")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
}
