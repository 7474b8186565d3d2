// Package secrets stores provider credentials outside of plain configuration.
//
// Credentials are keyed by (provider, kind) and live in the OS keyring.
// Environment variables take priority so CI and headless setups work
// without a keyring daemon.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// service is the keyring service name all wachter entries share.
const service = "wachter"

// Kind distinguishes credential types for a provider.
type Kind string

const (
	KindAPIKey Kind = "api-key"
	KindToken  Kind = "token" // OAuth-style token
)

// ErrNotFound is returned when no credential is stored.
var ErrNotFound = errors.New("credential not found")

// Store resolves and persists provider credentials.
type Store struct {
	// getenv overrides environment lookup in tests.
	getenv func(string) string
}

// NewStore creates a Store backed by the OS keyring and the environment.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWithEnv creates a Store with an environment lookup override.
func NewStoreWithEnv(getenv func(string) string) *Store {
	return &Store{getenv: getenv}
}

// Get resolves a credential.
// Priority: WACHTER_<PROVIDER>_<KIND> env var, conventional provider env
// vars, then the OS keyring. Returns ErrNotFound when nothing is set.
func (s *Store) Get(provider string, kind Kind) (string, error) {
	for _, key := range envCandidates(provider, kind) {
		if v := s.env(key); v != "" {
			return v, nil
		}
	}

	v, err := keyring.Get(service, entryKey(provider, kind))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s %s", ErrNotFound, provider, kind)
		}
		return "", fmt.Errorf("keyring get: %w", err)
	}
	return v, nil
}

// Set persists a credential in the OS keyring.
func (s *Store) Set(provider string, kind Kind, value string) error {
	if err := keyring.Set(service, entryKey(provider, kind), value); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

// Delete removes a credential from the OS keyring.
func (s *Store) Delete(provider string, kind Kind) error {
	err := keyring.Delete(service, entryKey(provider, kind))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}

func (s *Store) env(key string) string {
	if s.getenv != nil {
		return s.getenv(key)
	}
	return os.Getenv(key)
}

func entryKey(provider string, kind Kind) string {
	return provider + "/" + string(kind)
}

// envCandidates lists environment variables checked for a credential,
// highest priority first.
func envCandidates(provider string, kind Kind) []string {
	upper := strings.ToUpper(provider)
	suffix := "_API_KEY"
	if kind == KindToken {
		suffix = "_TOKEN"
	}

	keys := []string{"WACHTER_" + upper + suffix}

	// Conventional vendor variables.
	switch provider {
	case "claude":
		if kind == KindAPIKey {
			keys = append(keys, "ANTHROPIC_API_KEY")
		}
	case "openai":
		if kind == KindAPIKey {
			keys = append(keys, "OPENAI_API_KEY")
		}
	case "copilot":
		if kind == KindToken {
			keys = append(keys, "GITHUB_TOKEN", "GH_TOKEN")
		}
	}

	return keys
}
