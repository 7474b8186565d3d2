package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valksor/go-wachter/internal/vcs"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show repository and engine status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}

		repo, err := vcs.New(root)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		branch, err := repo.CurrentBranch(ctx)
		if err != nil {
			return err
		}

		files, err := vcs.Status(ctx, repo)
		if err != nil {
			return err
		}
		staged := 0
		for _, f := range files {
			if f.IsStaged() {
				staged++
			}
		}

		upstream, _ := vcs.Upstream(ctx, repo)
		if upstream == "" {
			upstream = "(none)"
		}

		enabled := "disabled"
		if cfg.Enabled {
			enabled = "enabled"
		}

		fmt.Fprintf(out, "Repository: %s\n", root)
		fmt.Fprintf(out, "Branch:     %s\n", branch)
		fmt.Fprintf(out, "Upstream:   %s\n", upstream)
		fmt.Fprintf(out, "Changes:    %d (%d staged)\n", len(files), staged)
		fmt.Fprintf(out, "Engine:     %s\n", enabled)
		fmt.Fprintf(out, "Provider:   %s\n", cfg.AI.Provider)
		fmt.Fprintf(out, "Push mode:  %s (%s)\n", cfg.Push.Mode, cfg.Push.Style)
		fmt.Fprintf(out, "Pull mode:  %s\n", cfg.Pull.Mode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
