package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lamim/answer-api-bench/internal/evaluator"
	"github.com/lamim/answer-api-bench/internal/progress"
	"github.com/lamim/answer-api-bench/internal/providers"
	"github.com/lamim/answer-api-bench/internal/store"
)

var (
	runAPIs       []string
	runQueriesArg string
	runID         string
	runNoProgress bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark queries against the selected APIs",
		Long: `Run sends every query from the catalog to each selected API,
records the raw responses and latencies, and saves the run under the
results directory for later processing and analysis.`,
		RunE: runCommandE,
	}

	cmd.Flags().StringSliceVar(&runAPIs, "apis", nil, "APIs to benchmark (default: all configured)")
	cmd.Flags().StringVar(&runQueriesArg, "queries", "", "Path to queries.json (overrides config)")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run identifier (default: timestamp)")
	cmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func runCommandE(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	queriesFile := cfg.General.QueriesFile
	if runQueriesArg != "" {
		queriesFile = runQueriesArg
	}
	queryStore, err := store.LoadQueries(queriesFile)
	if err != nil {
		return err
	}
	queries := queryStore.Texts()
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", queriesFile)
	}

	apiNames := cfg.General.SelectedAPIs()
	if len(runAPIs) > 0 {
		apiNames = runAPIs
	}
	provs, err := buildProviders(apiNames)
	if err != nil {
		return err
	}

	resultsStore, err := store.NewResultsStore(cfg.General.ResultsDir)
	if err != nil {
		return err
	}

	prog := progress.NewManager(len(queries)*len(provs), !runNoProgress)
	runner := evaluator.NewRunner(cfg, provs, prog)

	start := time.Now()
	responses := runner.Run(cmd.Context(), queries)
	elapsed := time.Since(start)

	path, err := resultsStore.Save(store.Flatten(responses), runID)
	if err != nil {
		return fmt.Errorf("saving results: %w", err)
	}

	printSummaries(runner, elapsed)
	fmt.Printf("\nResults saved to %s\n", path)
	return nil
}

func printSummaries(runner *evaluator.Runner, elapsed time.Duration) {
	fmt.Printf("\nBenchmark completed in %s\n\n", elapsed.Round(time.Second))
	fmt.Printf("%-20s %9s %9s %9s %9s %9s\n",
		"API", "Success", "Avg", "P50", "P95", "Sources")

	for _, s := range runner.Collector().Summaries() {
		fmt.Printf("%-20s %8.1f%% %8.2fs %8.2fs %8.2fs %9.1f\n",
			providers.DisplayName(s.Provider),
			s.SuccessRate,
			s.AvgLatency.Seconds(),
			s.P50Latency.Seconds(),
			s.P95Latency.Seconds(),
			s.AvgSources,
		)
	}
}
