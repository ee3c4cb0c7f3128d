package testing

import (
	"path/filepath"
	"testing"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/projectile"
)

// VertxRest returns the booster used throughout launcher tests.
func VertxRest() booster.Booster {
	return booster.Booster{
		ID:          "vertx-rest",
		Name:        "Vert.x HTTP",
		Description: "Expose a greeting REST endpoint",
		Mission:     "rest",
		Runtime:     booster.Runtime{ID: "vertx", Name: "Eclipse Vert.x", Version: "3.5.0"},
		Source: booster.Source{
			GitURL: "https://github.com/openshiftio-vertx-boosters/vertx-http-booster.git",
			GitRef: "master",
		},
	}
}

// ProjectileBuilder provides a fluent interface for constructing projectiles.
// Each method returns a new builder (immutable) for chaining.
type ProjectileBuilder struct {
	p projectile.LauncherCreateProjectile
}

// NewProjectileBuilder creates a builder for a vertx-rest launch of
// test-project-1001 staged below t.TempDir().
func NewProjectileBuilder(t *testing.T) *ProjectileBuilder {
	t.Helper()
	return &ProjectileBuilder{
		p: projectile.LauncherCreateProjectile{
			Booster:              VertxRest(),
			GitRepositoryName:    "test-project-1001",
			OpenShiftProjectName: "test-project-1001",
			ProjectLocation:      filepath.Join(t.TempDir(), "test-project-1001"),
		},
	}
}

// WithNames sets both the repository and the project name.
func (b *ProjectileBuilder) WithNames(name string) *ProjectileBuilder {
	nb := b.clone()
	nb.p.GitRepositoryName = name
	nb.p.OpenShiftProjectName = name
	return nb
}

// WithRepositoryName sets the repository name.
func (b *ProjectileBuilder) WithRepositoryName(name string) *ProjectileBuilder {
	nb := b.clone()
	nb.p.GitRepositoryName = name
	return nb
}

// WithProjectName sets the project name.
func (b *ProjectileBuilder) WithProjectName(name string) *ProjectileBuilder {
	nb := b.clone()
	nb.p.OpenShiftProjectName = name
	return nb
}

// WithBooster sets the booster.
func (b *ProjectileBuilder) WithBooster(bst booster.Booster) *ProjectileBuilder {
	nb := b.clone()
	nb.p.Booster = bst
	return nb
}

// WithLocation sets the staging path.
func (b *ProjectileBuilder) WithLocation(dir string) *ProjectileBuilder {
	nb := b.clone()
	nb.p.ProjectLocation = dir
	return nb
}

// Build returns the projectile.
func (b *ProjectileBuilder) Build() projectile.LauncherCreateProjectile {
	return b.p
}

// Context returns the caller-side request matching the projectile.
func (b *ProjectileBuilder) Context() projectile.CreateProjectileContext {
	return projectile.CreateProjectileContext{
		GitRepositoryName:    b.p.GitRepositoryName,
		OpenShiftProjectName: b.p.OpenShiftProjectName,
		BoosterID:            b.p.Booster.ID,
		ProjectLocation:      b.p.ProjectLocation,
	}
}

func (b *ProjectileBuilder) clone() *ProjectileBuilder {
	return &ProjectileBuilder{p: b.p}
}
