// Package copilot implements the GitHub Copilot commit-message provider.
//
// Generation always goes through the copilot CLI. With api-key auth the
// stored GitHub token is validated against the GitHub API and exported to
// the CLI process; with cli-login auth the CLI's own session is used.
package copilot

import (
	"context"
	"fmt"

	"github.com/google/go-github/v67/github"
	"golang.org/x/oauth2"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/locate"
	"github.com/valksor/go-wachter/internal/provider"
	"github.com/valksor/go-wachter/internal/secrets"
)

// ID is the canonical provider id.
const ID = "copilot"

// Provider generates commit messages with the Copilot CLI.
type Provider struct {
	auth    string // api-key (GitHub token) or cli-login
	store   *secrets.Store
	locator *locate.Locator
}

// New creates a Copilot provider with the resolved auth method.
func New(auth string, store *secrets.Store, locator *locate.Locator) *Provider {
	return &Provider{auth: auth, store: store, locator: locator}
}

// ID returns the provider identifier
func (p *Provider) ID() string {
	return ID
}

// DisplayName returns the human-readable name
func (p *Provider) DisplayName() string {
	return "GitHub Copilot"
}

// Available checks that the CLI is resolvable and, for token auth, that
// the stored GitHub token is valid.
func (p *Provider) Available(ctx context.Context) error {
	if _, err := p.locator.Locate(ctx, "copilot"); err != nil {
		return fmt.Errorf("copilot CLI: %w", err)
	}

	if p.auth == config.AuthAPIKey {
		token, err := p.store.Get(ID, secrets.KindToken)
		if err != nil {
			return fmt.Errorf("github token: %w", err)
		}
		if err := validateToken(ctx, token); err != nil {
			return fmt.Errorf("github token rejected: %w", err)
		}
	}

	return nil
}

// GenerateCommitMessage produces a message for the staged diff.
func (p *Provider) GenerateCommitMessage(ctx context.Context, diff string, opts provider.Options) (string, error) {
	prompt := provider.SystemPrompt(opts) + "\n\n" + provider.UserPrompt(diff)

	var env map[string]string
	if p.auth == config.AuthAPIKey {
		token, err := p.store.Get(ID, secrets.KindToken)
		if err != nil {
			return "", err
		}
		env = map[string]string{"GH_TOKEN": token}
	}

	args := []string{"-p", prompt}
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}

	return provider.RunCLI(ctx, p.locator, "copilot", env, args...)
}

// validateToken checks the token by fetching the authenticated user.
func validateToken(ctx context.Context, token string) error {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	_, _, err := client.Users.Get(ctx, "")
	return err
}

var _ provider.Provider = (*Provider)(nil)
