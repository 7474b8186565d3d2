package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/events"
	"github.com/valksor/go-wachter/internal/log"
)

// Generator produces a single-line commit message for a staged diff,
// handling provider selection, timeout racing, bounded retries, and the
// timestamp fallback.
type Generator struct {
	registry *Registry
	bus      *events.Bus

	// now and sleep are injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGenerator creates a Generator. bus may be nil.
func NewGenerator(registry *Registry, bus *events.Bus) *Generator {
	return &Generator{
		registry: registry,
		bus:      bus,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Generate runs the full pipeline for one commit cycle.
func (g *Generator) Generate(ctx context.Context, diff string, cfg *config.AIConfig) (string, error) {
	p, err := g.resolve(cfg)
	if err != nil {
		return g.exhausted(cfg, err)
	}

	if err := p.Available(ctx); err != nil {
		log.Warn("provider unavailable", log.Provider(p.ID()), log.Err(err))
		return g.exhausted(cfg, fmt.Errorf("%w: %v", ErrProviderUnavailable, err))
	}

	opts := Options{
		Style:              cfg.Style,
		MaxLength:          cfg.MaxLength(),
		CustomInstructions: cfg.CustomInstructions,
		Emoji:              cfg.Emoji,
		Model:              cfg.ModelFor(p.ID()),
	}
	diff = TruncateDiff(diff, cfg.DiffCap)

	var lastErr error
	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		if attempt > 1 {
			if err := g.sleep(ctx, cfg.RetryDelay()); err != nil {
				return "", err
			}
		}

		msg, err := g.callWithTimeout(ctx, p, diff, opts, cfg.Timeout())
		if err == nil {
			msg = Normalize(msg)
			if msg == "" {
				return FallbackMessage(g.now()), nil
			}
			return msg, nil
		}

		lastErr = err
		log.Warn("commit message generation failed",
			log.Provider(p.ID()), "attempt", attempt, log.Err(err))
	}

	return g.exhausted(cfg, lastErr)
}

// resolve returns the active provider: the configured one if enabled,
// otherwise the first enabled provider in the fixed fallback order.
func (g *Generator) resolve(cfg *config.AIConfig) (Provider, error) {
	if pc, ok := cfg.ProviderFor(cfg.Provider); ok && pc.Enabled {
		return g.registry.Get(cfg.Provider)
	}

	for _, id := range g.registry.IDs() {
		pc, ok := cfg.ProviderFor(id)
		if !ok || !pc.Enabled {
			continue
		}
		p, err := g.registry.Get(id)
		if err != nil {
			continue
		}
		if cfg.Provider != "" && cfg.Provider != id {
			// Silent substitution of a disabled configured provider is a
			// policy choice; make it observable.
			log.Warn("configured provider disabled, falling back",
				"configured", cfg.Provider, "used", id)
			if g.bus != nil {
				g.bus.Publish(events.ProviderFallbackEvent{Configured: cfg.Provider, Used: id})
			}
		}
		return p, nil
	}

	return nil, ErrNoProvider
}

// callWithTimeout races the provider call against a timer. The loser is
// abandoned, not killed: on timeout the goroutine runs to completion and
// its result is discarded.
func (g *Generator) callWithTimeout(ctx context.Context, p Provider, diff string, opts Options, timeout time.Duration) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		msg string
		err error
	}
	ch := make(chan result, 1)

	go func() {
		msg, err := p.GenerateCommitMessage(tctx, diff, opts)
		ch <- result{msg, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", &RequestError{Provider: p.ID(), Err: r.err}
		}
		return r.msg, nil
	case <-tctx.Done():
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w after %s", ErrProviderTimeout, timeout)
	}
}

// exhausted applies the fallback policy after generation failed for good.
func (g *Generator) exhausted(cfg *config.AIConfig, err error) (string, error) {
	if cfg.FallbackOnFailure {
		log.Info("falling back to timestamp commit message", log.Err(err))
		return FallbackMessage(g.now()), nil
	}
	return "", err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
