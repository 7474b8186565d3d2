package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valksor/go-wachter/internal/events"
	"github.com/valksor/go-wachter/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the repository and auto-commit on save",
	Long: `Watch enables the engine: file saves are debounced into commit
attempts, commit messages come from the configured AI provider, and the
remote is synced per the push/pull modes. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Enabled {
			return fmt.Errorf("wachter is disabled in configuration")
		}

		lock := storage.NewRepoLock(root)
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer func() { _ = lock.Release() }()

		eng, bus, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		// Single consumer of the status stream.
		go func() {
			for ev := range bus.Events() {
				printEvent(cmd, ev)
			}
		}()
		defer bus.Close()

		return eng.Run(cmd.Context(), root)
	},
}

func printEvent(cmd *cobra.Command, ev events.Event) {
	if quiet {
		return
	}
	out := cmd.OutOrStdout()
	switch ev.Type {
	case events.TypeCommitCreated:
		fmt.Fprintf(out, "committed %v: %v\n", short(ev.Data["hash"]), ev.Data["message"])
	case events.TypeSyncFailed:
		fmt.Fprintf(out, "%v failed: %v\n", ev.Data["operation"], ev.Data["error"])
	case events.TypeProviderFallback:
		fmt.Fprintf(out, "provider %v disabled, using %v\n", ev.Data["configured"], ev.Data["used"])
	}
}

func short(v any) string {
	s, _ := v.(string)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
