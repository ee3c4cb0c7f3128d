// Package main is the entry point for the missionctl CLI.
//
// missionctl launches boosters: it creates a GitHub repository holding a
// booster's source and an OpenShift project that builds and deploys it.
// A launch either completes or removes everything it created.
//
// Commands: launch, boosters, cleanup, serve, version.
//
// For detailed usage information, run:
//
//	missionctl --help
package main

import (
	"fmt"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/imamik/missioncontrol/cmd/missionctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctrl.SetupSignalHandler()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
