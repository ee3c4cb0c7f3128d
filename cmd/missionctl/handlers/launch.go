package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/projectile"
)

// LaunchOptions holds the launch command's flags.
type LaunchOptions struct {
	BoosterID  string
	Repository string
	Project    string

	// Location is the staging directory. Empty uses <staging root>/<repository>.
	Location string

	Output string
}

// Launch handles the launch command.
//
// It resolves the booster in the catalog, creates the repository and the
// project, and prints the result. A failed launch removes what it created
// before the error is returned.
func Launch(ctx context.Context, configPath string, opts LaunchOptions) error {
	if err := validateOutput(opts.Output); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	svc, err := newServices(ctx, cfg, false)
	if err != nil {
		return err
	}

	req := projectile.CreateProjectileContext{
		GitRepositoryName:    opts.Repository,
		OpenShiftProjectName: opts.Project,
		BoosterID:            opts.BoosterID,
		ProjectLocation:      opts.Location,
	}
	if req.OpenShiftProjectName == "" {
		req.OpenShiftProjectName = req.GitRepositoryName
	}
	if req.ProjectLocation == "" && req.GitRepositoryName != "" {
		req.ProjectLocation = filepath.Join(svc.cfg.Staging.Root, req.GitRepositoryName)
	}

	log.FromContext(ctx).Info("launching booster",
		"booster", req.BoosterID,
		"repository", req.GitRepositoryName,
		"project", req.OpenShiftProjectName)

	boom, err := svc.mission.LaunchFromContext(ctx, req)
	if err != nil {
		return describeLaunchError(err)
	}

	return writeOutput(stdout, opts.Output, boom, func() string { return renderBoom(boom) })
}

// describeLaunchError appends compensation diagnostics to a launch failure.
func describeLaunchError(err error) error {
	var lerr *launcherr.Error
	if !errors.As(err, &lerr) || !lerr.CompensationIncomplete() {
		return err
	}
	return fmt.Errorf("%w (cleanup reported: %v)", err, errors.Join(lerr.Compensation...))
}
