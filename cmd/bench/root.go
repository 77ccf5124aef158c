package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lamim/answer-api-bench/internal/config"
)

var version = "dev"

var configPath string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark competing search-answer APIs",
		Long: `bench queries multiple search-answer APIs (Linkup, Perplexity, Exa,
You.com, Tavily, Valyu) with the same set of queries, stores the raw
responses, and produces comparative analytics: success rates, latency
percentiles, answer quality heuristics, and competitive positioning.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to TOML config file")
	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		loadEnvFile()
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newProcessCommand())
	cmd.AddCommand(newQualityCommand())
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// loadConfig loads the configured TOML file, or the defaults when no
// file was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadEnvFile loads KEY=VALUE pairs from a local .env file into the
// environment, so API keys don't need to be exported by hand.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			value = strings.Trim(value, `"'`)
			_ = os.Setenv(key, value)
		}
	}
}
