package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lamim/answer-api-bench/internal/analysis"
	"github.com/lamim/answer-api-bench/internal/dataset"
	"github.com/lamim/answer-api-bench/internal/report"
	"github.com/lamim/answer-api-bench/internal/store"
)

var (
	analyzeRunID   string
	analyzeCSVPath string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Generate the aggregate analysis report",
		Long: `Analyze computes per-API success rates, latency percentiles,
category and complexity breakdowns, failure patterns, and competitive
positioning, then writes the markdown report, JSON insights, and
rankings CSV.

Input comes from a stored run, or from a previously processed wide CSV
when --csv is given.`,
		RunE: analyzeCommandE,
	}

	cmd.Flags().StringVar(&analyzeRunID, "run-id", "", "Run to analyze (default: most recent)")
	cmd.Flags().StringVar(&analyzeCSVPath, "csv", "", "Analyze a processed wide CSV instead of a stored run")

	return cmd
}

func analyzeCommandE(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var rows []dataset.Row
	if analyzeCSVPath != "" {
		rows, err = dataset.ReadCSVFile(analyzeCSVPath)
		if err != nil {
			return fmt.Errorf("reading dataset: %w", err)
		}
	} else {
		resultsStore, err := store.NewResultsStore(cfg.General.ResultsDir)
		if err != nil {
			return err
		}
		run, err := resultsStore.Load(analyzeRunID)
		if err != nil {
			return fmt.Errorf("loading run: %w", err)
		}
		rows = dataset.Build(store.GroupByQuery(run.Results))
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to analyze")
	}

	opts := analysis.Options{
		FocalVariants:         cfg.Analysis.FocalVariants,
		TimeoutAlertThreshold: cfg.Analysis.TimeoutAlertThreshold,
	}
	insights := analysis.Analyze(rows, opts)

	gen, err := report.NewGenerator(cfg.General.OutputDir)
	if err != nil {
		return err
	}
	if err := gen.GenerateAnalysis(insights, len(rows)); err != nil {
		return err
	}

	fmt.Printf("Analyzed %d queries across %d APIs\n",
		len(rows), len(insights.PerformanceRankings))
	fmt.Printf("Artifacts written to %s:\n", cfg.General.OutputDir)
	for _, name := range []string{
		"analysis_report.md", "insights_summary.json", "performance_rankings.csv",
	} {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}
