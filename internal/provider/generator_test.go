package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/events"
)

type fakeProvider struct {
	id       string
	availErr error
	generate func(ctx context.Context, diff string, opts Options) (string, error)
	calls    int
	lastOpts Options
	lastDiff string
}

func (f *fakeProvider) ID() string          { return f.id }
func (f *fakeProvider) DisplayName() string { return f.id }

func (f *fakeProvider) Available(ctx context.Context) error { return f.availErr }

func (f *fakeProvider) GenerateCommitMessage(ctx context.Context, diff string, opts Options) (string, error) {
	f.calls++
	f.lastOpts = opts
	f.lastDiff = diff
	return f.generate(ctx, diff, opts)
}

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestGenerator(t *testing.T, bus *events.Bus, providers ...*fakeProvider) *Generator {
	t.Helper()
	reg := NewRegistry()
	for _, p := range providers {
		if err := reg.Register(p); err != nil {
			t.Fatalf("Register(%s) error = %v", p.id, err)
		}
	}
	g := NewGenerator(reg, bus)
	g.now = func() time.Time { return fixedNow }
	g.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return g
}

func testAIConfig() *config.AIConfig {
	cfg := config.NewDefault().AI
	cfg.MinTimeoutMS = 1
	cfg.TimeoutMS = 1000
	cfg.RetryDelayMS = 0
	return &cfg
}

func TestGenerateSuccess(t *testing.T) {
	p := &fakeProvider{id: "claude", generate: func(context.Context, string, Options) (string, error) {
		return "\"Fix race in watcher\"\n", nil
	}}
	g := newTestGenerator(t, nil, p)

	msg, err := g.Generate(context.Background(), "diff", testAIConfig())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if msg != "Fix race in watcher" {
		t.Errorf("Generate() = %q, want normalized message", msg)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
}

func TestGenerateRetriesThenFallsBack(t *testing.T) {
	p := &fakeProvider{id: "claude", generate: func(context.Context, string, Options) (string, error) {
		return "", errors.New("rate limited")
	}}
	g := newTestGenerator(t, nil, p)

	cfg := testAIConfig()
	cfg.RetryAttempts = 3
	cfg.FallbackOnFailure = true

	msg, err := g.Generate(context.Background(), "diff", cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if p.calls != 3 {
		t.Errorf("provider called %d times, want exactly 3", p.calls)
	}
	if msg != FallbackMessage(fixedNow) {
		t.Errorf("Generate() = %q, want timestamp fallback", msg)
	}
}

func TestGenerateFallbackDisabledReturnsError(t *testing.T) {
	p := &fakeProvider{id: "claude", generate: func(context.Context, string, Options) (string, error) {
		return "", errors.New("boom")
	}}
	g := newTestGenerator(t, nil, p)

	cfg := testAIConfig()
	cfg.RetryAttempts = 2
	cfg.FallbackOnFailure = false

	_, err := g.Generate(context.Background(), "diff", cfg)
	if err == nil {
		t.Fatal("Generate() error = nil, want generation failure")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("Generate() error = %v, want *RequestError", err)
	}
	if p.calls != 2 {
		t.Errorf("provider called %d times, want 2", p.calls)
	}
}

func TestGenerateTimeout(t *testing.T) {
	p := &fakeProvider{id: "claude", generate: func(ctx context.Context, _ string, _ Options) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	g := newTestGenerator(t, nil, p)

	cfg := testAIConfig()
	cfg.TimeoutMS = 10
	cfg.RetryAttempts = 1
	cfg.FallbackOnFailure = false

	_, err := g.Generate(context.Background(), "diff", cfg)
	if !errors.Is(err, ErrProviderTimeout) {
		t.Errorf("Generate() error = %v, want ErrProviderTimeout", err)
	}
}

func TestGenerateEmptyOutputFallsBack(t *testing.T) {
	p := &fakeProvider{id: "claude", generate: func(context.Context, string, Options) (string, error) {
		return "```\n```", nil
	}}
	g := newTestGenerator(t, nil, p)

	msg, err := g.Generate(context.Background(), "diff", testAIConfig())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if msg != FallbackMessage(fixedNow) {
		t.Errorf("Generate() = %q, want timestamp fallback for empty output", msg)
	}
}

func TestGenerateFallsBackToNextEnabledProvider(t *testing.T) {
	claude := &fakeProvider{id: "claude"}
	openai := &fakeProvider{id: "openai", generate: func(context.Context, string, Options) (string, error) {
		return "Add config loader", nil
	}}

	bus := events.NewBus(4)
	g := newTestGenerator(t, bus, claude, openai)

	cfg := testAIConfig()
	cfg.Provider = "claude"
	cfg.Claude.Enabled = false

	msg, err := g.Generate(context.Background(), "diff", cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if msg != "Add config loader" {
		t.Errorf("Generate() = %q, want openai output", msg)
	}
	if claude.calls != 0 {
		t.Errorf("disabled provider called %d times, want 0", claude.calls)
	}

	select {
	case ev := <-bus.Events():
		if ev.Type != events.TypeProviderFallback {
			t.Errorf("event type = %s, want provider_fallback", ev.Type)
		}
		if ev.Data["used"] != "openai" {
			t.Errorf("event used = %v, want openai", ev.Data["used"])
		}
	default:
		t.Error("no fallback event published")
	}
}

func TestGenerateNoProviderEnabled(t *testing.T) {
	claude := &fakeProvider{id: "claude"}
	g := newTestGenerator(t, nil, claude)

	cfg := testAIConfig()
	cfg.Claude.Enabled = false
	cfg.OpenAI.Enabled = false
	cfg.Copilot.Enabled = false
	cfg.FallbackOnFailure = false

	_, err := g.Generate(context.Background(), "diff", cfg)
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("Generate() error = %v, want ErrNoProvider", err)
	}
}

func TestGenerateNoProviderWithFallback(t *testing.T) {
	g := newTestGenerator(t, nil)

	cfg := testAIConfig()
	cfg.Claude.Enabled = false
	cfg.OpenAI.Enabled = false
	cfg.Copilot.Enabled = false
	cfg.FallbackOnFailure = true

	msg, err := g.Generate(context.Background(), "diff", cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if msg != FallbackMessage(fixedNow) {
		t.Errorf("Generate() = %q, want timestamp fallback", msg)
	}
}

func TestGenerateUnavailableProviderFallsBack(t *testing.T) {
	p := &fakeProvider{id: "claude", availErr: errors.New("no credentials")}
	g := newTestGenerator(t, nil, p)

	cfg := testAIConfig()
	cfg.FallbackOnFailure = false

	_, err := g.Generate(context.Background(), "diff", cfg)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("Generate() error = %v, want ErrProviderUnavailable", err)
	}
	if p.calls != 0 {
		t.Errorf("unavailable provider called %d times, want 0", p.calls)
	}
}

func TestGeneratePassesOptionsAndTruncatedDiff(t *testing.T) {
	p := &fakeProvider{id: "claude", generate: func(context.Context, string, Options) (string, error) {
		return "msg", nil
	}}
	g := newTestGenerator(t, nil, p)

	cfg := testAIConfig()
	cfg.Style = config.StyleConventional
	cfg.Length = config.LengthShort
	cfg.Model = "claude-sonnet-4-20250514"
	cfg.DiffCap = 5

	if _, err := g.Generate(context.Background(), "0123456789", cfg); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if p.lastOpts.Style != config.StyleConventional {
		t.Errorf("opts.Style = %q", p.lastOpts.Style)
	}
	if p.lastOpts.MaxLength != 50 {
		t.Errorf("opts.MaxLength = %d, want 50", p.lastOpts.MaxLength)
	}
	if p.lastOpts.Model != "claude-sonnet-4-20250514" {
		t.Errorf("opts.Model = %q", p.lastOpts.Model)
	}
	if p.lastDiff != "01234"+TruncationMarker {
		t.Errorf("diff = %q, want truncated at 5 chars", p.lastDiff)
	}
}
