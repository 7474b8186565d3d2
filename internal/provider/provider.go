// Package provider turns staged diffs into commit messages via AI providers.
//
// Providers form a closed set (claude, openai, copilot) dispatched by id
// through a Registry. The Generator owns selection, timeout racing, bounded
// retries, and the deterministic timestamp fallback.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the interface every AI backend implements.
type Provider interface {
	// ID returns the provider's identifier ("claude", "openai", "copilot")
	ID() string

	// DisplayName returns the human-readable name
	DisplayName() string

	// Available checks that credentials are present and the backend is usable
	Available(ctx context.Context) error

	// GenerateCommitMessage produces a message for a staged diff
	GenerateCommitMessage(ctx context.Context, diff string, opts Options) (string, error)
}

// ModelLister is implemented by providers that can enumerate models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ModelInfo describes an available model.
type ModelInfo struct {
	ID      string // Model identifier (e.g., "claude-sonnet-4-20250514")
	Name    string // Display name
	Default bool   // Is this the provider default?
}

// Options configures one message generation.
type Options struct {
	Style              string // simple, conventional, emoji, custom
	MaxLength          int    // target message length in characters
	CustomInstructions string // replaces the structural style rules when set
	Emoji              bool
	Model              string // resolved model, empty for provider default
}

// Sentinel errors of the generation pipeline.
var (
	ErrNoProvider          = errors.New("no AI provider configured")
	ErrProviderUnavailable = errors.New("AI provider unavailable")
	ErrProviderTimeout     = errors.New("AI provider timed out")
)

// RequestError is a vendor-side generation failure.
type RequestError struct {
	Provider string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
