package main

import (
	"fmt"

	"github.com/lamim/answer-api-bench/internal/providers"
	"github.com/lamim/answer-api-bench/internal/providers/exa"
	"github.com/lamim/answer-api-bench/internal/providers/linkup"
	"github.com/lamim/answer-api-bench/internal/providers/perplexity"
	"github.com/lamim/answer-api-bench/internal/providers/tavily"
	"github.com/lamim/answer-api-bench/internal/providers/valyu"
	"github.com/lamim/answer-api-bench/internal/providers/you"
)

// buildProviders constructs clients for the named APIs. Construction
// fails when a required API key is missing from the environment.
func buildProviders(names []string) ([]providers.Provider, error) {
	out := make([]providers.Provider, 0, len(names))
	for _, name := range names {
		p, err := buildProvider(name)
		if err != nil {
			return nil, fmt.Errorf("initializing %s: %w", name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func buildProvider(name string) (providers.Provider, error) {
	switch name {
	case providers.NameLinkupStandard:
		return linkup.NewStandardClient()
	case providers.NameLinkupDeep:
		return linkup.NewDeepClient()
	case providers.NamePerplexity:
		return perplexity.NewClient()
	case providers.NameExa:
		return exa.NewClient()
	case providers.NameYou:
		return you.NewClient()
	case providers.NameTavily:
		return tavily.NewClient()
	case providers.NameValyu:
		return valyu.NewClient()
	default:
		return nil, fmt.Errorf("unknown provider '%s'", name)
	}
}
