package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lamim/answer-api-bench/internal/quality"
	"github.com/lamim/answer-api-bench/internal/report"
	"github.com/lamim/answer-api-bench/internal/store"
)

var qualityRunID string

func newQualityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Score answer quality and pick per-query winners",
		Long: `Quality scores every successful response on completeness,
specificity, source quality, confidence, and actionability, picks a
winner per query, and writes the quality artifacts: detailed metrics,
win rates, use cases, and competitive advantages.`,
		RunE: qualityCommandE,
	}

	cmd.Flags().StringVar(&qualityRunID, "run-id", "", "Run to analyze (default: most recent)")

	return cmd
}

func qualityCommandE(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resultsStore, err := store.NewResultsStore(cfg.General.ResultsDir)
	if err != nil {
		return err
	}
	run, err := resultsStore.Load(qualityRunID)
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	scorer := quality.NewScorerWithPatterns(cfg.Scoring.Patterns())
	analyzer := quality.NewAnalyzerWithScorer(scorer)
	verdicts := analyzer.AnalyzeAll(store.GroupByQuery(run.Results))

	gen, err := report.NewGenerator(cfg.General.OutputDir)
	if err != nil {
		return err
	}
	if err := gen.GenerateQuality(verdicts); err != nil {
		return err
	}

	fmt.Printf("Analyzed %d queries from run %s\n\n", len(verdicts), run.RunID)
	fmt.Println("Win rates:")
	for _, rate := range quality.WinRates(verdicts) {
		fmt.Printf("  %-20s %3d wins (%.1f%%)\n", rate.API, rate.Wins, rate.RatePct)
	}
	fmt.Printf("\nArtifacts written to %s\n", cfg.General.OutputDir)
	return nil
}
