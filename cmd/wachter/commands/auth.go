package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valksor/go-wachter/internal/locate"
	"github.com/valksor/go-wachter/internal/secrets"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider credentials",
}

var authSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store an API key for a provider",
	Long: `Set-key reads an API key from stdin and stores it in the OS
keyring. Keys never touch the configuration files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !knownProvider(id) {
			return fmt.Errorf("unknown provider: %s", id)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Paste the %s key and press enter: ", id)
		reader := bufio.NewReader(cmd.InOrStdin())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read key: %w", err)
		}
		key := strings.TrimSpace(line)
		if key == "" {
			return fmt.Errorf("empty key")
		}

		kind := secrets.KindAPIKey
		if id == "copilot" {
			kind = secrets.KindToken
		}

		if err := secrets.NewStore().Set(id, kind, key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s credential\n", id)
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login <provider>",
	Short: "Verify CLI login for a provider",
	Long: `Login checks that the provider's CLI is resolvable and reports
how it was found. The CLI's own login flow manages the session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		tool, ok := cliToolFor(id)
		if !ok {
			return fmt.Errorf("unknown provider: %s", id)
		}

		res, err := locate.New().Locate(cmd.Context(), tool)
		if err != nil {
			return fmt.Errorf("%s CLI not found; install it and run its login flow", tool)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s resolved via %s: %s\n", tool, res.Provenance, res.Path)
		return nil
	},
}

var authDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !knownProvider(id) {
			return fmt.Errorf("unknown provider: %s", id)
		}

		store := secrets.NewStore()
		if err := store.Delete(id, secrets.KindAPIKey); err != nil {
			return err
		}
		if err := store.Delete(id, secrets.KindToken); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s credentials\n", id)
		return nil
	},
}

func knownProvider(id string) bool {
	_, ok := cliToolFor(id)
	return ok
}

// cliToolFor maps a provider id to its CLI binary name.
func cliToolFor(id string) (string, bool) {
	switch id {
	case "claude":
		return "claude", true
	case "openai":
		return "codex", true
	case "copilot":
		return "copilot", true
	}
	return "", false
}

func init() {
	authCmd.AddCommand(authSetKeyCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authDeleteCmd)
	rootCmd.AddCommand(authCmd)
}
