package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/missioncontrol/cmd/missionctl/handlers"
)

// Cleanup returns the cleanup command.
//
// The cleanup command deletes repositories and projects left by earlier
// launches, typically after a launch reported incomplete cleanup.
func Cleanup() *cobra.Command {
	var opts handlers.CleanupOptions

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete launched repositories and projects",
		Long: `Cleanup deletes GitHub repositories and OpenShift projects.

Repository names without an owner are resolved against the configured
organization or user. Targets that no longer exist are reported as
missing and do not fail the command.

Example:
  missionctl cleanup --repository demo-app --project demo-app
  missionctl cleanup --repository my-org/demo-app

WARNING: This operation is irreversible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cleanup(cmd.Context(), configPath, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Repositories, "repository", nil, "Repository to delete, as name or owner/name (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Projects, "project", nil, "OpenShift project to delete (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", handlers.OutputText, "Output format: text, yaml or json")

	return cmd
}
