// Package web exposes the benchmark over a small JSON HTTP API:
// browsing the query catalog, triggering runs, and reading back stored
// results.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/lamim/answer-api-bench/internal/store"
)

// ExecuteSummary is what a triggered run reports back to the caller.
type ExecuteSummary struct {
	TotalQueries   int      `json:"total_queries"`
	TotalResponses int      `json:"total_responses"`
	TotalTime      float64  `json:"total_time"`
	APIsUsed       []string `json:"apis_used"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
}

// Executor runs the given queries against the named APIs and persists
// the results. An empty apiNames means all configured APIs.
type Executor interface {
	Execute(ctx context.Context, queries []store.Query, apiNames []string) (*ExecuteSummary, error)
}

// Server wires the stores and executor into an http.Handler.
type Server struct {
	queries  *store.QueryStore
	results  *store.ResultsStore
	executor Executor
	apis     []string
}

// NewServer builds the server. apis is the list reported by the
// available-apis endpoint.
func NewServer(queries *store.QueryStore, results *store.ResultsStore, executor Executor, apis []string) *Server {
	return &Server{
		queries:  queries,
		results:  results,
		executor: executor,
		apis:     apis,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/queries", s.handleQueries)
	mux.HandleFunc("POST /api/execute", s.handleExecute)
	mux.HandleFunc("GET /api/results", s.handleResults)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/available-apis", s.handleAvailableAPIs)
	return mux
}

// ListenAndServe blocks serving the API on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleQueries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"queries":    s.queries.All(),
		"categories": s.queries.Categories(),
	})
}

type executeRequest struct {
	QueryIDs []int    `json:"query_ids"`
	APINames []string `json:"api_names"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	var selected []store.Query
	if len(req.QueryIDs) == 0 {
		selected = s.queries.All()
	} else {
		for _, id := range req.QueryIDs {
			q, ok := s.queries.ByID(id)
			if !ok {
				writeError(w, http.StatusBadRequest, fmt.Errorf("unknown query id %d", id))
				return
			}
			selected = append(selected, q)
		}
	}

	summary, err := s.executor.Execute(r.Context(), selected, req.APINames)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")

	cmp, err := s.results.Comparison(runID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, errors.New("no results found"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    cmp,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, _ *http.Request) {
	runs, err := s.results.ListRuns()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"runs":    runs,
	})
}

func (s *Server) handleAvailableAPIs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"apis":    s.apis,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}
