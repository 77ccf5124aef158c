// Package config provides configuration loading and validation for the
// benchmark tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lamim/answer-api-bench/internal/providers"
	"github.com/lamim/answer-api-bench/internal/quality"
)

// Config represents the main configuration structure
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// GeneralConfig contains general settings
type GeneralConfig struct {
	Concurrency         int            `toml:"concurrency"`
	ProviderConcurrency map[string]int `toml:"provider_concurrency"`
	Timeout             string         `toml:"timeout"`
	OutputDir           string         `toml:"output_dir"`
	QueriesFile         string         `toml:"queries_file"`
	ResultsDir          string         `toml:"results_dir"`
	// APIs selects which providers to benchmark; empty means all.
	APIs []string `toml:"apis"`
}

// ScoringConfig overrides the built-in quality pattern tables. Empty
// lists fall back to the defaults.
type ScoringConfig struct {
	StopWords            []string `toml:"stop_words"`
	RefusalPrefixes      []string `toml:"refusal_prefixes"`
	VaguePhrases         []string `toml:"vague_phrases"`
	ConfidentPhrases     []string `toml:"confident_phrases"`
	UncertainPhrases     []string `toml:"uncertain_phrases"`
	AuthoritativeDomains []string `toml:"authoritative_domains"`
}

// AnalysisConfig controls the competitive positioning narrative.
type AnalysisConfig struct {
	FocalVariants         []string `toml:"focal_variants"`
	TimeoutAlertThreshold int      `toml:"timeout_alert_threshold"`
}

// TimeoutDuration parses the timeout string into a Duration
func (g GeneralConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(g.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// ConcurrencyForProvider returns the effective concurrency for a provider.
// It uses provider-specific overrides when present and falls back to the
// global concurrency value.
func (g GeneralConfig) ConcurrencyForProvider(provider string) int {
	base := g.Concurrency
	if base <= 0 {
		base = 1
	}
	if len(g.ProviderConcurrency) == 0 {
		return base
	}
	normalized := strings.ToLower(strings.TrimSpace(provider))
	if normalized != "" {
		if limit, ok := g.ProviderConcurrency[normalized]; ok && limit > 0 {
			return limit
		}
	}
	if limit, ok := g.ProviderConcurrency[provider]; ok && limit > 0 {
		return limit
	}
	return base
}

// SelectedAPIs returns the configured API list, or every known API
// when none were named.
func (g GeneralConfig) SelectedAPIs() []string {
	if len(g.APIs) == 0 {
		return providers.AllNames()
	}
	return g.APIs
}

// Patterns builds the quality pattern tables, applying any overrides.
func (s ScoringConfig) Patterns() quality.Patterns {
	p := quality.DefaultPatterns()
	if len(s.StopWords) > 0 {
		p.StopWords = s.StopWords
	}
	if len(s.RefusalPrefixes) > 0 {
		p.RefusalPrefixes = s.RefusalPrefixes
	}
	if len(s.VaguePhrases) > 0 {
		p.VaguePhrases = s.VaguePhrases
	}
	if len(s.ConfidentPhrases) > 0 {
		p.ConfidentPhrases = s.ConfidentPhrases
	}
	if len(s.UncertainPhrases) > 0 {
		p.UncertainPhrases = s.UncertainPhrases
	}
	if len(s.AuthoritativeDomains) > 0 {
		p.AuthoritativeDomains = s.AuthoritativeDomains
	}
	return p
}

func normalizeProviderConcurrency(raw map[string]int) (map[string]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	normalized := make(map[string]int, len(raw))
	for provider, limit := range raw {
		name := strings.ToLower(strings.TrimSpace(provider))
		if name == "" {
			return nil, fmt.Errorf("provider_concurrency contains an empty provider name")
		}
		if limit <= 0 {
			return nil, fmt.Errorf("provider_concurrency for '%s' must be > 0", provider)
		}
		normalized[name] = limit
	}
	return normalized, nil
}

// validatePath checks for path traversal attempts
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.HasPrefix(cleanPath, "..") || strings.Contains(cleanPath, "../") {
		return fmt.Errorf("path contains invalid traversal sequence: %s", path)
	}
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.General.Concurrency <= 0 {
		cfg.General.Concurrency = 5
	}
	if cfg.General.Timeout == "" {
		cfg.General.Timeout = "120s"
	}
	if cfg.General.OutputDir == "" {
		cfg.General.OutputDir = "./results"
	}
	if cfg.General.QueriesFile == "" {
		cfg.General.QueriesFile = "queries.json"
	}
	if cfg.General.ResultsDir == "" {
		cfg.General.ResultsDir = "./data"
	}
	if len(cfg.Analysis.FocalVariants) == 0 {
		cfg.Analysis.FocalVariants = []string{
			providers.NameLinkupStandard,
			providers.NameLinkupDeep,
		}
	}
	if cfg.Analysis.TimeoutAlertThreshold <= 0 {
		cfg.Analysis.TimeoutAlertThreshold = 100
	}
}

// Load reads and parses the TOML configuration file
func Load(path string) (*Config, error) {
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	// #nosec G304 - Path validated above, this is intentional file inclusion
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	normalized, err := normalizeProviderConcurrency(cfg.General.ProviderConcurrency)
	if err != nil {
		return nil, err
	}
	cfg.General.ProviderConcurrency = normalized

	known := make(map[string]struct{})
	for _, name := range providers.AllNames() {
		known[name] = struct{}{}
	}
	for _, api := range cfg.General.APIs {
		if _, ok := known[api]; !ok {
			return nil, fmt.Errorf("unknown api '%s' in configuration", api)
		}
	}

	return &cfg, nil
}

// Save writes the configuration to a TOML file
func (c *Config) Save(path string) error {
	if err := validatePath(path); err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}

	// #nosec G304 - Path validated above, this is intentional file creation
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
