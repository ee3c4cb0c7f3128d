package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/missioncontrol/cmd/missionctl/handlers"
)

// Boosters returns the boosters command.
func Boosters() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "boosters",
		Aliases: []string{"catalog"},
		Short:   "List the boosters in the catalog",
		Long: `Boosters indexes the configured catalog and lists the boosters it holds.

The catalog is read from a local path, an S3 bucket, or a git repository,
in that order of preference.

Example:
  missionctl boosters
  missionctl boosters -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Boosters(cmd.Context(), configPath, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputText, "Output format: text, yaml or json")

	return cmd
}
