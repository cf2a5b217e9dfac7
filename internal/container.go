// Package internal assembles the pipeline through a DIG container, keeping
// construction order (strategies -> services -> controller) in one place.
package internal

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/repozip/repozip/application"
	"github.com/repozip/repozip/config"
	"github.com/repozip/repozip/domain"
	"github.com/repozip/repozip/infrastructure/fetcher"
	"github.com/repozip/repozip/infrastructure/github"
	"github.com/repozip/repozip/infrastructure/saver"
)

// RegisterProviders registers every pipeline component with the container.
// The configuration decides which retrieval strategy the controller gets.
func RegisterProviders(container *dig.Container, cfg *config.Config) error {
	providers := []interface{}{
		func() *config.Config { return cfg },
		NewStrategyRegistry,
		newArchiveFetcher,
		newBranchLister,
		newRepositoryProber,
		newMaterializer,
		application.NewController,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("failed to register provider: %w", err)
		}
	}

	return nil
}

// NewStrategyRegistry registers both retrieval strategies.
func NewStrategyRegistry() *fetcher.Registry {
	registry := fetcher.NewRegistry()
	registry.Register(config.StrategyDirect, func() domain.ArchiveFetcher {
		return fetcher.NewDirectFetcher(nil, "")
	})
	registry.Register(config.StrategyAPI, func() domain.ArchiveFetcher {
		return fetcher.NewRedirectFetcher("")
	})
	return registry
}

func newArchiveFetcher(cfg *config.Config, registry *fetcher.Registry) (domain.ArchiveFetcher, error) {
	name := cfg.Strategy
	if name == "" {
		name = config.StrategyDirect
	}
	return registry.Get(name)
}

func newBranchLister() domain.BranchLister {
	return github.NewBranchService()
}

func newRepositoryProber() domain.RepositoryProber {
	return github.NewRepoService()
}

func newMaterializer(cfg *config.Config) domain.Materializer {
	return saver.NewFileSaver(cfg.OutputDir)
}
