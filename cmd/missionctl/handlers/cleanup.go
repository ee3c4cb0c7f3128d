package handlers

import (
	"context"
	"errors"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/provisioning/destroy"
	"github.com/imamik/missioncontrol/internal/util/naming"
)

// CleanupOptions holds the cleanup command's flags.
type CleanupOptions struct {
	// Repositories are "owner/name" or bare names owned by the configured account.
	Repositories []string
	Projects     []string
	Output       string
}

// Cleanup handles the cleanup command.
//
// It deletes launched repositories and projects. Targets that no longer
// exist are reported as missing and do not fail the command.
func Cleanup(ctx context.Context, configPath string, opts CleanupOptions) error {
	if err := validateOutput(opts.Output); err != nil {
		return err
	}
	if len(opts.Repositories) == 0 && len(opts.Projects) == 0 {
		return errors.New("nothing to clean up: pass --repository or --project")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	svc, err := newServices(ctx, cfg, false)
	if err != nil {
		return err
	}

	targets := destroy.Targets{Projects: opts.Projects}
	for _, name := range opts.Repositories {
		if !strings.Contains(name, "/") {
			name = naming.FullName(cfg.Owner(), name)
		}
		targets.Repositories = append(targets.Repositories, name)
	}

	log.FromContext(ctx).Info("cleaning up",
		"repositories", len(targets.Repositories),
		"projects", len(targets.Projects))

	report, destroyErr := svc.destroy.Destroy(ctx, targets)
	if err := writeOutput(stdout, opts.Output, report, func() string { return renderReport(report) }); err != nil {
		return err
	}
	return destroyErr
}
