// Package cli implements the mytodos command line.
package cli

import (
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

// Assets are the embedded view files.
type Assets struct {
	Templates fs.FS
	Static    fs.FS
}

// Execute runs the root command with os.Args.
func Execute(assets Assets) error {
	return NewRootCommand(assets).Execute()
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(assets Assets) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "mytodos",
		Short:        "A single-screen to-do list",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, assets)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("MYTODOS_CONFIG"), "path to a TOML config file")

	root.AddCommand(
		newServeCommand(&configPath, assets),
		newListCommand(&configPath),
		newAddCommand(&configPath),
		newToggleCommand(&configPath),
		newRemoveCommand(&configPath),
		newThemeCommand(&configPath),
	)

	return root
}
