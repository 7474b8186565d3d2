package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/log"
)

var (
	// Global flags.
	verbose bool
	quiet   bool
	jsonLog bool
	repoDir string
)

var rootCmd = &cobra.Command{
	Use:   "wachter",
	Short: "Save-triggered auto-commit with AI messages",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Long: `Wachter watches a git working tree, turns edits into commits with
AI-generated messages, and keeps the remote in sync - without a human
deciding when to commit.

Quick Start:
  wachter watch          Watch the current repository
  wachter commit         Run one commit cycle now
  wachter status         Show repository and engine status
  wachter providers      Manage AI providers`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env first so credentials are available for everything else
		if err := config.LoadDotEnvFromCwd(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load .wachter/.env: %v\n", err)
		}

		level := log.LevelInfo
		if quiet {
			level = log.LevelError
		}
		log.Configure(log.Options{
			Level:   level,
			Verbose: verbose,
			JSON:    jsonLog,
		})

		return nil
	},
}

// Execute runs the root command with signal handling.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&repoDir, "repo", "C", ".", "Repository directory")
}

// loadConfig resolves the repository root and loads its configuration.
func loadConfig() (*config.Config, string, error) {
	root, err := resolveRepoRoot(repoDir)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}
