package config

import (
	"fmt"
	"time"
)

// Sync modes control how push/pull follow commits.
const (
	SyncOnTrigger  = "on-trigger"  // immediately after the triggering operation
	SyncAfterDelay = "after-delay" // on an independent interval timer
	SyncOff        = "off"
)

// Push styles.
const (
	PushPlain          = "push"
	PushForce          = "force-push"
	PushForceWithLease = "force-push-with-lease"
)

// Validation levels gate commits on editor diagnostics.
const (
	ValidationError   = "error"
	ValidationWarning = "warning"
	ValidationNone    = "none"
)

// Auth methods for AI providers.
const (
	AuthAPIKey   = "api-key"
	AuthCLILogin = "cli-login"
	AuthInherit  = "inherit"
)

// Message styles.
const (
	StyleSimple       = "simple"
	StyleConventional = "conventional"
	StyleEmoji        = "emoji"
	StyleCustom       = "custom"
)

// Message length presets.
const (
	LengthShort    = "short"    // 50 chars
	LengthStandard = "standard" // 72 chars
	LengthDetailed = "detailed" // 100 chars
)

// Config holds all application configuration
type Config struct {
	Enabled bool `yaml:"enabled"`

	// CommitDelayMS is the save-event debounce window in milliseconds.
	CommitDelayMS int `yaml:"commit_delay_ms"`

	// FilePattern filters which saved paths trigger and get staged.
	FilePattern string `yaml:"file_pattern"`

	// ExcludeBranches suppresses triggering on matching branch names.
	ExcludeBranches []string `yaml:"exclude_branches"`

	// ValidationLevel gates commits on diagnostics: error, warning, none.
	ValidationLevel string `yaml:"validation_level"`

	PullOnOpen    bool `yaml:"pull_on_open"`
	CommitOnClose bool `yaml:"commit_on_close"`

	Thresholds ThresholdConfig `yaml:"thresholds"`
	Push       PushConfig      `yaml:"push"`
	Pull       PullConfig      `yaml:"pull"`
	AI         AIConfig        `yaml:"ai"`
	Auth       AuthConfig      `yaml:"auth"`
}

// ThresholdConfig sets minimum change volume for a commit.
type ThresholdConfig struct {
	MinFiles int `yaml:"min_files"`
	MinLines int `yaml:"min_lines"`

	// EnforceForPrestaged applies the thresholds even when changes were
	// already staged before the save arrived. Default is to bypass.
	EnforceForPrestaged bool `yaml:"enforce_for_prestaged"`
}

// PushConfig holds push sequencing settings.
type PushConfig struct {
	Mode    string `yaml:"mode"`  // on-trigger, after-delay, off
	Style   string `yaml:"style"` // push, force-push, force-push-with-lease
	DelayMS int    `yaml:"delay_ms"`

	// PullOnPush chains a pull after every successful push.
	PullOnPush bool `yaml:"pull_on_push"`
}

// PullConfig holds pull sequencing settings.
type PullConfig struct {
	Mode    string `yaml:"mode"` // on-trigger, after-delay, off
	DelayMS int    `yaml:"delay_ms"`
}

// AIConfig holds commit message generation settings.
type AIConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"` // active provider id

	// Model overrides every provider's model when set.
	Model string `yaml:"model"`

	Style              string `yaml:"style"`  // simple, conventional, emoji, custom
	Length             string `yaml:"length"` // short, standard, detailed
	CustomInstructions string `yaml:"custom_instructions"`
	Emoji              bool   `yaml:"emoji"`

	// DiffCap caps the diff characters sent to a provider.
	DiffCap int `yaml:"diff_cap"`

	TimeoutMS    int `yaml:"timeout_ms"`
	MinTimeoutMS int `yaml:"min_timeout_ms"`

	RetryAttempts int `yaml:"retry_attempts"`
	RetryDelayMS  int `yaml:"retry_delay_ms"`

	// FallbackOnFailure substitutes a timestamp message when generation
	// is exhausted instead of aborting the commit.
	FallbackOnFailure bool `yaml:"fallback_on_failure"`

	Claude  ProviderConfig `yaml:"claude"`
	OpenAI  ProviderConfig `yaml:"openai"`
	Copilot ProviderConfig `yaml:"copilot"`
}

// ProviderConfig holds per-provider settings.
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	Auth    string `yaml:"auth"` // api-key, cli-login, inherit
}

// AuthConfig holds the default credential method.
type AuthConfig struct {
	Method string `yaml:"method"` // api-key, cli-login
}

// NewDefault creates a Config with default values
func NewDefault() *Config {
	return &Config{
		Enabled:         true,
		CommitDelayMS:   30_000,
		FilePattern:     "**/*",
		ValidationLevel: ValidationNone,
		Push: PushConfig{
			Mode:    SyncOnTrigger,
			Style:   PushPlain,
			DelayMS: 60_000,
		},
		Pull: PullConfig{
			Mode:    SyncOff,
			DelayMS: 300_000,
		},
		AI: AIConfig{
			Enabled:           true,
			Provider:          "claude",
			Style:             StyleSimple,
			Length:            LengthStandard,
			DiffCap:           20_000,
			TimeoutMS:         30_000,
			MinTimeoutMS:      5_000,
			RetryAttempts:     3,
			RetryDelayMS:      1_000,
			FallbackOnFailure: true,
			Claude:            ProviderConfig{Enabled: true, Auth: AuthInherit},
			OpenAI:            ProviderConfig{Enabled: true, Auth: AuthInherit},
			Copilot:           ProviderConfig{Enabled: true, Auth: AuthInherit},
		},
		Auth: AuthConfig{Method: AuthCLILogin},
	}
}

// CommitDelay returns the debounce window as a duration.
func (c *Config) CommitDelay() time.Duration {
	return time.Duration(c.CommitDelayMS) * time.Millisecond
}

// PushDelay returns the push interval as a duration.
func (c *Config) PushDelay() time.Duration {
	return time.Duration(c.Push.DelayMS) * time.Millisecond
}

// PullDelay returns the pull interval as a duration.
func (c *Config) PullDelay() time.Duration {
	return time.Duration(c.Pull.DelayMS) * time.Millisecond
}

// Timeout returns the provider request timeout, clamped to the minimum.
func (a *AIConfig) Timeout() time.Duration {
	t := time.Duration(a.TimeoutMS) * time.Millisecond
	if min := time.Duration(a.MinTimeoutMS) * time.Millisecond; t < min {
		return min
	}
	return t
}

// RetryDelay returns the inter-attempt delay as a duration.
func (a *AIConfig) RetryDelay() time.Duration {
	return time.Duration(a.RetryDelayMS) * time.Millisecond
}

// MaxLength returns the target message length in characters.
func (a *AIConfig) MaxLength() int {
	switch a.Length {
	case LengthShort:
		return 50
	case LengthDetailed:
		return 100
	default:
		return 72
	}
}

// ProviderFor returns the settings for a provider id.
func (a *AIConfig) ProviderFor(id string) (ProviderConfig, bool) {
	switch id {
	case "claude":
		return a.Claude, true
	case "openai":
		return a.OpenAI, true
	case "copilot":
		return a.Copilot, true
	}
	return ProviderConfig{}, false
}

// AuthMethodFor resolves a provider's auth method, applying the global
// default when the provider is set to inherit.
func (c *Config) AuthMethodFor(id string) string {
	pc, ok := c.AI.ProviderFor(id)
	if !ok || pc.Auth == "" || pc.Auth == AuthInherit {
		return c.Auth.Method
	}
	return pc.Auth
}

// ModelFor resolves the model for a provider id.
// Precedence: global override > provider setting > provider default (empty).
func (a *AIConfig) ModelFor(id string) string {
	if a.Model != "" {
		return a.Model
	}
	if pc, ok := a.ProviderFor(id); ok {
		return pc.Model
	}
	return ""
}

// Validate performs validation beyond what yaml decoding enforces
func (c *Config) Validate() error {
	switch c.ValidationLevel {
	case ValidationError, ValidationWarning, ValidationNone:
	default:
		return fmt.Errorf("invalid validation_level: %s (must be error, warning, or none)", c.ValidationLevel)
	}

	for name, mode := range map[string]string{"push": c.Push.Mode, "pull": c.Pull.Mode} {
		switch mode {
		case SyncOnTrigger, SyncAfterDelay, SyncOff:
		default:
			return fmt.Errorf("invalid %s mode: %s (must be on-trigger, after-delay, or off)", name, mode)
		}
	}

	switch c.Push.Style {
	case PushPlain, PushForce, PushForceWithLease:
	default:
		return fmt.Errorf("invalid push style: %s", c.Push.Style)
	}

	switch c.AI.Style {
	case StyleSimple, StyleConventional, StyleEmoji, StyleCustom:
	default:
		return fmt.Errorf("invalid message style: %s", c.AI.Style)
	}

	switch c.AI.Length {
	case LengthShort, LengthStandard, LengthDetailed:
	default:
		return fmt.Errorf("invalid message length: %s", c.AI.Length)
	}

	if c.AI.Provider != "" {
		if _, ok := c.AI.ProviderFor(c.AI.Provider); !ok {
			return fmt.Errorf("unknown provider: %s (must be claude, openai, or copilot)", c.AI.Provider)
		}
	}

	switch c.Auth.Method {
	case AuthAPIKey, AuthCLILogin:
	default:
		return fmt.Errorf("invalid auth method: %s (must be api-key or cli-login)", c.Auth.Method)
	}

	if c.CommitDelayMS < 0 || c.Push.DelayMS < 0 || c.Pull.DelayMS < 0 {
		return fmt.Errorf("delays must be non-negative")
	}
	if c.AI.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1")
	}

	return nil
}
