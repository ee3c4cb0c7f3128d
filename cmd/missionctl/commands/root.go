// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Persistent flags shared by every subcommand.
var (
	configPath string
	debug      bool
)

// Root returns the root command for the missionctl CLI.
//
// The root command owns the --config and --debug flags and installs the
// logger before any subcommand runs.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "missionctl",
		Short:         "Launch boosters to GitHub and OpenShift",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetLogger(zap.New(zap.UseDevMode(debug), zap.WriteTo(os.Stderr)))
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (defaults to the environment)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose logging")

	cmd.AddCommand(Launch())
	cmd.AddCommand(Boosters())
	cmd.AddCommand(Cleanup())
	cmd.AddCommand(Serve())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
