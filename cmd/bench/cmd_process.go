package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lamim/answer-api-bench/internal/dataset"
	"github.com/lamim/answer-api-bench/internal/report"
	"github.com/lamim/answer-api-bench/internal/store"
)

var processRunID string

func newProcessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a raw run into cleaned CSV datasets",
		Long: `Process extracts answers and sources from a stored run's raw
responses and writes the cleaned datasets: per-response CSVs, a
side-by-side comparison, and the wide per-query table the analyze
command consumes.`,
		RunE: processCommandE,
	}

	cmd.Flags().StringVar(&processRunID, "run-id", "", "Run to process (default: most recent)")

	return cmd
}

func processCommandE(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resultsStore, err := store.NewResultsStore(cfg.General.ResultsDir)
	if err != nil {
		return err
	}
	run, err := resultsStore.Load(processRunID)
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	queries := store.GroupByQuery(run.Results)
	gen, err := report.NewGenerator(cfg.General.OutputDir)
	if err != nil {
		return err
	}
	if err := gen.GenerateProcessed(queries); err != nil {
		return err
	}

	rows := dataset.Build(queries)
	wide := filepath.Join(cfg.General.OutputDir, "master_results.csv")
	if err := dataset.WriteCSVFile(wide, rows, dataset.APIs(rows)); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}

	fmt.Printf("Processed run %s: %d queries, %d responses\n",
		run.RunID, run.TotalQueries, run.TotalResponses)
	fmt.Printf("Artifacts written to %s:\n", cfg.General.OutputDir)
	for _, name := range []string{
		"clean_responses.csv", "response_statistics.csv",
		"api_comparison.csv", "master_results.csv",
	} {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}
