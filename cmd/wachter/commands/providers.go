package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valksor/go-wachter/internal/config"
	"github.com/valksor/go-wachter/internal/locate"
	"github.com/valksor/go-wachter/internal/provider"
	"github.com/valksor/go-wachter/internal/secrets"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage AI providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		registry, err := buildRegistry(cfg, secrets.NewStore(), locate.New())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range registry.IDs() {
			p, err := registry.Get(id)
			if err != nil {
				continue
			}

			pc, _ := cfg.AI.ProviderFor(id)
			state := "disabled"
			if pc.Enabled {
				state = "enabled"
			}
			marker := " "
			if cfg.AI.Provider == id {
				marker = "*"
			}

			avail := "available"
			if err := p.Available(cmd.Context()); err != nil {
				avail = fmt.Sprintf("unavailable (%v)", err)
			}

			model := cfg.AI.ModelFor(id)
			if model == "" {
				model = "(default)"
			}

			fmt.Fprintf(out, "%s %-8s %-9s model=%-30s auth=%-9s %s\n",
				marker, id, state, model, cfg.AuthMethodFor(id), avail)
		}
		return nil
	},
}

var providersSelectCmd = &cobra.Command{
	Use:   "select <provider>",
	Short: "Select the active provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}

		id := args[0]
		if _, ok := cfg.AI.ProviderFor(id); !ok {
			return fmt.Errorf("unknown provider: %s", id)
		}

		cfg.AI.Provider = id
		if err := config.Save(root, cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "active provider: %s\n", id)
		return nil
	},
}

var providersModelCmd = &cobra.Command{
	Use:   "model <provider> [model]",
	Short: "Show or set a provider's model",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}

		id := args[0]
		if _, ok := cfg.AI.ProviderFor(id); !ok {
			return fmt.Errorf("unknown provider: %s", id)
		}

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			registry, err := buildRegistry(cfg, secrets.NewStore(), locate.New())
			if err != nil {
				return err
			}
			p, err := registry.Get(id)
			if err != nil {
				return err
			}
			if lister, ok := p.(provider.ModelLister); ok {
				models, err := lister.ListModels(cmd.Context())
				if err != nil {
					return err
				}
				for _, m := range models {
					marker := " "
					if m.Default {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %-32s %s\n", marker, m.ID, m.Name)
				}
			}
			return nil
		}

		model := args[1]
		switch id {
		case "claude":
			cfg.AI.Claude.Model = model
		case "openai":
			cfg.AI.OpenAI.Model = model
		case "copilot":
			cfg.AI.Copilot.Model = model
		}
		if err := config.Save(root, cfg); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s model: %s\n", id, model)
		return nil
	},
}

func init() {
	providersCmd.AddCommand(providersSelectCmd)
	providersCmd.AddCommand(providersModelCmd)
	rootCmd.AddCommand(providersCmd)
}
