// Package claude implements the Claude commit-message provider.
//
// Two backends exist: the Anthropic Messages API (api-key auth) and the
// claude CLI (cli-login auth), which is resolved through the executable
// locator because editor daemons rarely inherit the user's shell PATH.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/locate"
	"github.com/valksor/go-wachter/internal/provider"
	"github.com/valksor/go-wachter/internal/secrets"
)

// ID is the canonical provider id.
const ID = "claude"

// DefaultModel is used when neither a global override nor a provider
// model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

const maxTokens = 256

// Provider generates commit messages with Claude.
type Provider struct {
	auth    string // api-key or cli-login
	store   *secrets.Store
	locator *locate.Locator
}

// New creates a Claude provider with the resolved auth method.
func New(auth string, store *secrets.Store, locator *locate.Locator) *Provider {
	return &Provider{auth: auth, store: store, locator: locator}
}

// ID returns the provider identifier
func (p *Provider) ID() string {
	return ID
}

// DisplayName returns the human-readable name
func (p *Provider) DisplayName() string {
	return "Claude"
}

// Available checks credentials for the configured auth method.
func (p *Provider) Available(ctx context.Context) error {
	if p.auth == config.AuthAPIKey {
		if _, err := p.store.Get(ID, secrets.KindAPIKey); err != nil {
			return fmt.Errorf("claude API key: %w", err)
		}
		return nil
	}

	if _, err := p.locator.Locate(ctx, "claude"); err != nil {
		return fmt.Errorf("claude CLI: %w", err)
	}
	return nil
}

// GenerateCommitMessage produces a message for the staged diff.
func (p *Provider) GenerateCommitMessage(ctx context.Context, diff string, opts provider.Options) (string, error) {
	if p.auth == config.AuthAPIKey {
		return p.generateAPI(ctx, diff, opts)
	}
	return p.generateCLI(ctx, diff, opts)
}

func (p *Provider) generateAPI(ctx context.Context, diff string, opts provider.Options) (string, error) {
	key, err := p.store.Get(ID, secrets.KindAPIKey)
	if err != nil {
		return "", err
	}

	client := anthropic.NewClient(option.WithAPIKey(key))

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model(opts)),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: provider.SystemPrompt(opts)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(provider.UserPrompt(diff))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var out strings.Builder
	for _, block := range msg.Content {
		out.WriteString(block.Text)
	}
	return out.String(), nil
}

func (p *Provider) generateCLI(ctx context.Context, diff string, opts provider.Options) (string, error) {
	prompt := provider.SystemPrompt(opts) + "\n\n" + provider.UserPrompt(diff)

	args := []string{"--print"}
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	args = append(args, prompt)

	return provider.RunCLI(ctx, p.locator, "claude", nil, args...)
}

func (p *Provider) model(opts provider.Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	return DefaultModel
}

// ListModels returns the known Claude models.
func (p *Provider) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return []provider.ModelInfo{
		{ID: "claude-opus-4-20250514", Name: "Claude Opus 4"},
		{ID: DefaultModel, Name: "Claude Sonnet 4", Default: true},
		{ID: "claude-3-5-haiku-latest", Name: "Claude Haiku 3.5"},
	}, nil
}

var _ provider.Provider = (*Provider)(nil)
var _ provider.ModelLister = (*Provider)(nil)
