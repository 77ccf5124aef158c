package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lamim/answer-api-bench/internal/providers"
)

// Result is one provider response to one query, flattened for the
// per-run results file.
type Result struct {
	Query string `json:"query"`
	providers.Response
}

// Run is the on-disk shape of one results_<run_id>.json file.
type Run struct {
	RunID          string   `json:"run_id"`
	Timestamp      string   `json:"timestamp"`
	TotalQueries   int      `json:"total_queries"`
	TotalResponses int      `json:"total_responses"`
	Results        []Result `json:"results"`
}

// RunInfo is the listing entry for one stored run.
type RunInfo struct {
	RunID          string `json:"run_id"`
	Timestamp      string `json:"timestamp"`
	TotalQueries   int    `json:"total_queries"`
	TotalResponses int    `json:"total_responses"`
}

// Comparison groups one run's results per query for display.
type Comparison struct {
	RunID       string                     `json:"run_id"`
	Timestamp   string                     `json:"timestamp"`
	Comparisons []providers.QueryResponses `json:"comparisons"`
}

// ResultsStore persists runs as JSON files under one directory.
type ResultsStore struct {
	dir string
}

// NewResultsStore creates the directory if needed.
func NewResultsStore(dir string) (*ResultsStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results dir %s: %w", dir, err)
	}
	return &ResultsStore{dir: dir}, nil
}

// Save writes one run. An empty runID gets a timestamp-based one.
// Returns the path written.
func (s *ResultsStore) Save(results []Result, runID string) (string, error) {
	if runID == "" {
		runID = time.Now().Format("20060102_150405")
	}

	queries := make(map[string]struct{})
	for _, r := range results {
		queries[r.Query] = struct{}{}
	}

	run := Run{
		RunID:          runID,
		Timestamp:      time.Now().Format(time.RFC3339),
		TotalQueries:   len(queries),
		TotalResponses: len(results),
		Results:        results,
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding run %s: %w", runID, err)
	}

	path := s.runPath(runID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Load reads one run by id, or the most recent when runID is empty.
func (s *ResultsStore) Load(runID string) (*Run, error) {
	path := ""
	if runID != "" {
		path = s.runPath(runID)
	} else {
		files, err := s.runFiles()
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, os.ErrNotExist
		}
		path = filepath.Join(s.dir, files[0])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &run, nil
}

// ListRuns lists stored runs, newest first.
func (s *ResultsStore) ListRuns() ([]RunInfo, error) {
	files, err := s.runFiles()
	if err != nil {
		return nil, err
	}

	runs := make([]RunInfo, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		runs = append(runs, RunInfo{
			RunID:          run.RunID,
			Timestamp:      run.Timestamp,
			TotalQueries:   run.TotalQueries,
			TotalResponses: run.TotalResponses,
		})
	}
	return runs, nil
}

// Comparison loads a run and regroups its flat results per query, in
// first-seen order.
func (s *ResultsStore) Comparison(runID string) (*Comparison, error) {
	run, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		RunID:       run.RunID,
		Timestamp:   run.Timestamp,
		Comparisons: GroupByQuery(run.Results),
	}, nil
}

// GroupByQuery regroups flat results per query, preserving the order
// queries first appear.
func GroupByQuery(results []Result) []providers.QueryResponses {
	var order []string
	grouped := make(map[string][]providers.Response)
	for _, r := range results {
		if _, ok := grouped[r.Query]; !ok {
			order = append(order, r.Query)
		}
		grouped[r.Query] = append(grouped[r.Query], r.Response)
	}

	out := make([]providers.QueryResponses, 0, len(order))
	for _, query := range order {
		out = append(out, providers.QueryResponses{
			Query:     query,
			Responses: grouped[query],
		})
	}
	return out
}

// Flatten is the inverse of GroupByQuery.
func Flatten(queries []providers.QueryResponses) []Result {
	var out []Result
	for _, qr := range queries {
		for _, resp := range qr.Responses {
			out = append(out, Result{Query: qr.Query, Response: resp})
		}
	}
	return out
}

func (s *ResultsStore) runPath(runID string) string {
	return filepath.Join(s.dir, "results_"+runID+".json")
}

// runFiles returns results_*.json names sorted descending, so the
// timestamp-named newest run sorts first.
func (s *ResultsStore) runFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "results_") && strings.HasSuffix(name, ".json") {
			files = append(files, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}
