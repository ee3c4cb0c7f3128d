package projectile

import (
	"context"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/launcherr"
)

// CreateProjectileContext is a launch request as supplied by a caller.
type CreateProjectileContext struct {
	GitRepositoryName    string `json:"gitRepositoryName" yaml:"gitRepositoryName"`
	OpenShiftProjectName string `json:"openShiftProjectName" yaml:"openShiftProjectName"`
	BoosterID            string `json:"boosterId" yaml:"boosterId"`

	// ProjectLocation is the local staging directory for the booster source.
	ProjectLocation string `json:"projectLocation" yaml:"projectLocation"`
}

// Validate checks names and the staging path. Every violation is reported
// in a single INVALID_PROJECTILE error.
func (c CreateProjectileContext) Validate() error {
	errs := validateNames(c.GitRepositoryName, c.OpenShiftProjectName)
	if strings.TrimSpace(c.BoosterID) == "" {
		errs.add("boosterId", "must not be empty")
	}
	errs.validateLocation(c.ProjectLocation)
	return invalid(c.OpenShiftProjectName, errs)
}

// LauncherCreateProjectile is a resolved, validated launch request.
// It is passed by value and never modified after construction.
type LauncherCreateProjectile struct {
	Booster              booster.Booster
	GitRepositoryName    string
	OpenShiftProjectName string
	ProjectLocation      string
}

// New validates c and binds it to b.
func New(ctx context.Context, c CreateProjectileContext, b booster.Booster) (LauncherCreateProjectile, error) {
	if err := c.Validate(); err != nil {
		return LauncherCreateProjectile{}, err
	}

	p := LauncherCreateProjectile{
		Booster:              b,
		GitRepositoryName:    c.GitRepositoryName,
		OpenShiftProjectName: c.OpenShiftProjectName,
		ProjectLocation:      c.ProjectLocation,
	}
	if err := p.validateBooster(); err != nil {
		return LauncherCreateProjectile{}, err
	}

	log.FromContext(ctx).V(1).Info("projectile created",
		"booster", b.ID,
		"repository", p.GitRepositoryName,
		"project", p.OpenShiftProjectName)
	return p, nil
}

// Validate re-checks a projectile that was built without New.
func (p LauncherCreateProjectile) Validate() error {
	errs := validateNames(p.GitRepositoryName, p.OpenShiftProjectName)
	if err := p.Booster.Validate(); err != nil {
		errs.add("booster", err.Error())
	}
	errs.validateLocation(p.ProjectLocation)
	return invalid(p.OpenShiftProjectName, errs)
}

func (p LauncherCreateProjectile) validateBooster() error {
	if err := p.Booster.Validate(); err != nil {
		var errs FieldErrors
		errs.add("booster", err.Error())
		return invalid(p.OpenShiftProjectName, errs)
	}
	return nil
}

// GitRepositoryDescription is the description set on the created repository.
func (p LauncherCreateProjectile) GitRepositoryDescription() string {
	return p.Booster.DisplayName() + " booster"
}

func invalid(name string, errs FieldErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return launcherr.New(launcherr.CodeInvalidProjectile, name, errs)
}
