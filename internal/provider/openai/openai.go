// Package openai implements the OpenAI commit-message provider.
//
// The api-key backend uses the chat completions API; the cli-login backend
// shells out to the codex CLI.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/locate"
	"github.com/valksor/go-wachter/internal/provider"
	"github.com/valksor/go-wachter/internal/secrets"
)

// ID is the canonical provider id.
const ID = "openai"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Provider generates commit messages with OpenAI.
type Provider struct {
	auth    string // api-key or cli-login
	store   *secrets.Store
	locator *locate.Locator
}

// New creates an OpenAI provider with the resolved auth method.
func New(auth string, store *secrets.Store, locator *locate.Locator) *Provider {
	return &Provider{auth: auth, store: store, locator: locator}
}

// ID returns the provider identifier
func (p *Provider) ID() string {
	return ID
}

// DisplayName returns the human-readable name
func (p *Provider) DisplayName() string {
	return "OpenAI"
}

// Available checks credentials for the configured auth method.
func (p *Provider) Available(ctx context.Context) error {
	if p.auth == config.AuthAPIKey {
		if _, err := p.store.Get(ID, secrets.KindAPIKey); err != nil {
			return fmt.Errorf("openai API key: %w", err)
		}
		return nil
	}

	if _, err := p.locator.Locate(ctx, "codex"); err != nil {
		return fmt.Errorf("codex CLI: %w", err)
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

	client := openai.NewClient(option.WithAPIKey(key))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model(opts)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(provider.SystemPrompt(opts)),
			openai.UserMessage(provider.UserPrompt(diff)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completions: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) generateCLI(ctx context.Context, diff string, opts provider.Options) (string, error) {
	prompt := provider.SystemPrompt(opts) + "\n\n" + provider.UserPrompt(diff)

	args := []string{"exec"}
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	args = append(args, prompt)

	return provider.RunCLI(ctx, p.locator, "codex", nil, args...)
}

func (p *Provider) model(opts provider.Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	return DefaultModel
}

// ListModels returns the known OpenAI models.
func (p *Provider) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return []provider.ModelInfo{
		{ID: "gpt-4o", Name: "GPT-4o"},
		{ID: DefaultModel, Name: "GPT-4o mini", Default: true},
		{ID: "o3-mini", Name: "o3-mini"},
	}, nil
}

var _ provider.Provider = (*Provider)(nil)
var _ provider.ModelLister = (*Provider)(nil)
