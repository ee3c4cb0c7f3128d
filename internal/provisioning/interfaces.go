package provisioning

import (
	"context"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/projectile"
)

// CatalogGateway resolves boosters. Implemented by booster.Catalog.
type CatalogGateway interface {
	// WaitForIndex blocks until the catalog has been populated.
	WaitForIndex(ctx context.Context) error

	// Boosters returns the populated boosters without blocking.
	Boosters() []booster.Booster

	// Resolve fails with TEMPLATE_NOT_FOUND for unknown IDs.
	Resolve(id string) (booster.Booster, error)
}

// RepositoryProvisioner manages source-control repositories.
// Implemented by repository.Provisioner.
type RepositoryProvisioner interface {
	// CreateRepository fails with REPOSITORY_CREATE_FAILED.
	CreateRepository(ctx context.Context, p projectile.LauncherCreateProjectile) (GitRepository, error)

	// PushSource stages the booster source and pushes it as the initial
	// commit. It fails with PUSH_FAILED.
	PushSource(ctx context.Context, repo GitRepository, p projectile.LauncherCreateProjectile) error

	// DeleteRepository reports whether a repository was removed. A missing
	// repository yields false and NO_SUCH_REPOSITORY.
	DeleteRepository(ctx context.Context, fullName string) (bool, error)
}

// PlatformProvisioner manages platform projects.
// Implemented by platform.Provisioner.
type PlatformProvisioner interface {
	// CreateProject fails with PROJECT_CREATE_FAILED.
	CreateProject(ctx context.Context, name string) (OpenShiftProject, error)

	// ApplyResources builds and deploys repo's code in project. It returns
	// the project with its applied resources and fails with RESOURCE_APPLY_FAILED.
	ApplyResources(ctx context.Context, project OpenShiftProject, repo GitRepository, b booster.Booster) (OpenShiftProject, error)

	// ListResources returns the launcher-managed resources of a project.
	ListResources(ctx context.Context, name string) ([]OpenShiftResource, error)

	// DeleteProject reports whether a project was removed. A missing project
	// yields false and NO_SUCH_PROJECT.
	DeleteProject(ctx context.Context, name string) (bool, error)
}
