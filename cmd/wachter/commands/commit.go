package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/valksor/go-wachter/internal/engine"
	"github.com/valksor/go-wachter/internal/vcs"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Run one commit cycle now",
	Long: `Commit runs a single cycle against the repository: stage changes
matching the file pattern, generate a message, commit, and push per the
configured mode. The save debounce is bypassed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}

		eng, bus, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer bus.Close()

		repo, err := vcs.New(root)
		if err != nil {
			return err
		}

		eng.State().SetEnabled(true)
		attempt := eng.CommitCycle(cmd.Context(), repo)
		return reportAttempt(cmd.OutOrStdout(), attempt)
	},
}

// reportAttempt prints the outcome of one manual commit cycle.
func reportAttempt(out io.Writer, attempt engine.Attempt) error {
	switch attempt.Outcome {
	case engine.OutcomeCommitted:
		fmt.Fprintf(out, "committed %s: %s\n", attempt.Hash[:minInt(8, len(attempt.Hash))], attempt.Message)
	case engine.OutcomeSkipped:
		fmt.Fprintln(out, "nothing to commit")
	case engine.OutcomeDropped:
		fmt.Fprintln(out, "commit already in flight")
	case engine.OutcomeAborted:
		return attempt.Err
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func init() {
	rootCmd.AddCommand(commitCmd)
}
