// Package store handles on-disk persistence: the query catalog and the
// per-run raw result files. Plain JSON files, last write wins.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Query is one benchmark query from the catalog.
type Query struct {
	ID       int    `json:"id"`
	Text     string `json:"query"`
	Category string `json:"category"`
}

// QueryStore is a read-only view over a queries.json catalog.
type QueryStore struct {
	queries []Query
}

// LoadQueries reads the catalog. A missing file yields an empty store
// rather than an error so a fresh checkout still runs.
func LoadQueries(path string) (*QueryStore, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &QueryStore{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var queries []Query
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &QueryStore{queries: queries}, nil
}

// All returns every query in catalog order.
func (s *QueryStore) All() []Query {
	return s.queries
}

// ByID returns the query with the given id, or false.
func (s *QueryStore) ByID(id int) (Query, bool) {
	for _, q := range s.queries {
		if q.ID == id {
			return q, true
		}
	}
	return Query{}, false
}

// ByCategory returns the queries in one category, in catalog order.
func (s *QueryStore) ByCategory(category string) []Query {
	var out []Query
	for _, q := range s.queries {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// Categories returns the sorted distinct categories.
func (s *QueryStore) Categories() []string {
	seen := make(map[string]struct{})
	for _, q := range s.queries {
		seen[q.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Texts returns just the query strings, in catalog order.
func (s *QueryStore) Texts() []string {
	texts := make([]string, 0, len(s.queries))
	for _, q := range s.queries {
		texts = append(texts, q.Text)
	}
	return texts
}
