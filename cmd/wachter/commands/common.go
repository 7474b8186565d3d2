package commands

import (
	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/engine"
	"github.com/valksor/go-wachter/internal/events"
	"github.com/valksor/go-wachter/internal/locate"
	"github.com/valksor/go-wachter/internal/provider"
	"github.com/valksor/go-wachter/internal/provider/claude"
	"github.com/valksor/go-wachter/internal/provider/copilot"
	"github.com/valksor/go-wachter/internal/provider/openai"
	"github.com/valksor/go-wachter/internal/secrets"
	"github.com/valksor/go-wachter/internal/vcs"
)

// resolveRepoRoot locates the git repository root for a directory.
func resolveRepoRoot(dir string) (string, error) {
	g, err := vcs.New(dir)
	if err != nil {
		return "", err
	}
	return g.Root(), nil
}

// buildRegistry wires the closed provider set with per-provider auth.
func buildRegistry(cfg *config.Config, store *secrets.Store, locator *locate.Locator) (*provider.Registry, error) {
	registry := provider.NewRegistry()

	if err := registry.Register(claude.New(cfg.AuthMethodFor(claude.ID), store, locator)); err != nil {
		return nil, err
	}
	if err := registry.Register(openai.New(cfg.AuthMethodFor(openai.ID), store, locator)); err != nil {
		return nil, err
	}
	if err := registry.Register(copilot.New(cfg.AuthMethodFor(copilot.ID), store, locator)); err != nil {
		return nil, err
	}

	return registry, nil
}

// buildEngine assembles the full engine for a repository.
func buildEngine(cfg *config.Config) (*engine.Engine, *events.Bus, error) {
	store := secrets.NewStore()
	locator := locate.New()

	registry, err := buildRegistry(cfg, store, locator)
	if err != nil {
		return nil, nil, err
	}

	bus := events.NewBus(64)
	gen := provider.NewGenerator(registry, bus)
	return engine.New(cfg, bus, gen), bus, nil
}
