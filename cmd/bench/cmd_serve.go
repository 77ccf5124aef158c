package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lamim/answer-api-bench/internal/config"
	"github.com/lamim/answer-api-bench/internal/evaluator"
	"github.com/lamim/answer-api-bench/internal/store"
	"github.com/lamim/answer-api-bench/internal/web"
)

var serveAddr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the benchmark over a JSON HTTP API",
		Long: `Serve exposes the query catalog and stored results over HTTP and
lets clients trigger new benchmark runs with a POST to /api/execute.`,
		RunE: serveCommandE,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")

	return cmd
}

func serveCommandE(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	queryStore, err := store.LoadQueries(cfg.General.QueriesFile)
	if err != nil {
		return err
	}
	resultsStore, err := store.NewResultsStore(cfg.General.ResultsDir)
	if err != nil {
		return err
	}

	executor := &runExecutor{cfg: cfg, results: resultsStore}
	srv := web.NewServer(queryStore, resultsStore, executor, cfg.General.SelectedAPIs())

	fmt.Printf("Serving on %s\n", serveAddr)
	return srv.ListenAndServe(cmd.Context(), serveAddr)
}

// runExecutor runs benchmarks on behalf of the HTTP API.
type runExecutor struct {
	cfg     *config.Config
	results *store.ResultsStore
}

func (e *runExecutor) Execute(ctx context.Context, queries []store.Query, apiNames []string) (*web.ExecuteSummary, error) {
	if len(apiNames) == 0 {
		apiNames = e.cfg.General.SelectedAPIs()
	}
	provs, err := buildProviders(apiNames)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(queries))
	for _, q := range queries {
		texts = append(texts, q.Text)
	}

	runner := evaluator.NewRunner(e.cfg, provs, nil)

	start := time.Now()
	responses := runner.Run(ctx, texts)
	elapsed := time.Since(start)

	if _, err := e.results.Save(store.Flatten(responses), ""); err != nil {
		return nil, fmt.Errorf("saving results: %w", err)
	}

	summary := &web.ExecuteSummary{
		TotalQueries: len(texts),
		TotalTime:    elapsed.Seconds(),
		APIsUsed:     apiNames,
	}
	for _, qr := range responses {
		for _, resp := range qr.Responses {
			summary.TotalResponses++
			if resp.Success {
				summary.Successful++
			} else {
				summary.Failed++
			}
		}
	}
	return summary, nil
}
