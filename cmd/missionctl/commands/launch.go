package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/missioncontrol/cmd/missionctl/handlers"
)

// Launch returns the launch command.
//
// The launch command creates a repository from a booster, pushes its
// source, and creates the OpenShift project that builds it.
func Launch() *cobra.Command {
	var (
		opts handlers.LaunchOptions
		name string
	)

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a booster to a new repository and project",
		Long: `Launch creates everything a booster needs to run:

  1. Resolves the booster in the catalog
  2. Creates a GitHub repository
  3. Pushes the booster source to it
  4. Creates an OpenShift project
  5. Applies the build and deployment resources

If any step fails, the resources created so far are deleted again and
the failure is reported with its code, e.g. PUSH_FAILED.

Example:
  missionctl launch --booster vertx-rest --name demo-app
  missionctl launch -b vertx-rest --repository demo-app --project demo-dev -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Repository == "" {
				opts.Repository = name
			}
			if opts.Project == "" {
				opts.Project = name
			}
			return handlers.Launch(cmd.Context(), configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.BoosterID, "booster", "b", "", "Booster ID from the catalog (required)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name for both the repository and the project")
	cmd.Flags().StringVar(&opts.Repository, "repository", "", "GitHub repository name (overrides --name)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "OpenShift project name (overrides --name)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "Local staging directory for the booster source")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", handlers.OutputText, "Output format: text, yaml or json")
	_ = cmd.MarkFlagRequired("booster")

	return cmd
}
