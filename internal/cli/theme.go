package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mytodos/internal/config"
	"mytodos/internal/theme"
)

func newThemeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the system appearance mirrored by the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.AppearanceFile == "" {
				return errors.New("no appearance file configured (set APPEARANCE_FILE or appearance_file)")
			}

			if len(args) == 1 {
				scheme, err := theme.ParseScheme(args[0])
				if err != nil {
					return err
				}
				if err := theme.WriteScheme(cfg.AppearanceFile, scheme); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Appearance set to %s\n", scheme)
				return nil
			}

			system, err := theme.ReadScheme(cfg.AppearanceFile)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if system == "" {
				system = theme.Light
			}
			effective := theme.Resolve(theme.Preference(cfg.Theme), system)
			fmt.Fprintf(cmd.OutOrStdout(), "system: %s\npreference: %s\nin use: %s\n", system, cfg.Theme, effective)
			return nil
		},
	}
}
