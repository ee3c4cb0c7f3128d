package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/projectile"
	"github.com/imamik/missioncontrol/internal/provisioning"
)

// MockCatalog is a mock implementation of provisioning.CatalogGateway.
type MockCatalog struct {
	mock.Mock
}

// WaitForIndex blocks until the mocked index completes.
func (m *MockCatalog) WaitForIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Boosters returns the mocked boosters.
func (m *MockCatalog) Boosters() []booster.Booster {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]booster.Booster)
}

// Resolve returns the mocked booster for id.
func (m *MockCatalog) Resolve(id string) (booster.Booster, error) {
	args := m.Called(id)
	return args.Get(0).(booster.Booster), args.Error(1)
}

// NewMockCatalog creates a MockCatalog that is indexed and resolves the given boosters.
func NewMockCatalog(boosters ...booster.Booster) *MockCatalog {
	m := &MockCatalog{}
	m.On("WaitForIndex", mock.Anything).Return(nil)
	m.On("Boosters").Return(boosters)
	for _, b := range boosters {
		m.On("Resolve", b.ID).Return(b, nil)
	}
	return m
}

// MockRepositoryProvisioner is a mock implementation of provisioning.RepositoryProvisioner.
type MockRepositoryProvisioner struct {
	mock.Mock
}

// CreateRepository creates a mock repository.
func (m *MockRepositoryProvisioner) CreateRepository(ctx context.Context, p projectile.LauncherCreateProjectile) (provisioning.GitRepository, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(provisioning.GitRepository), args.Error(1)
}

// PushSource pushes mock source.
func (m *MockRepositoryProvisioner) PushSource(ctx context.Context, repo provisioning.GitRepository, p projectile.LauncherCreateProjectile) error {
	args := m.Called(ctx, repo, p)
	return args.Error(0)
}

// DeleteRepository deletes a mock repository.
func (m *MockRepositoryProvisioner) DeleteRepository(ctx context.Context, fullName string) (bool, error) {
	args := m.Called(ctx, fullName)
	return args.Bool(0), args.Error(1)
}

// MockPlatformProvisioner is a mock implementation of provisioning.PlatformProvisioner.
type MockPlatformProvisioner struct {
	mock.Mock
}

// CreateProject creates a mock project.
func (m *MockPlatformProvisioner) CreateProject(ctx context.Context, name string) (provisioning.OpenShiftProject, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(provisioning.OpenShiftProject), args.Error(1)
}

// ApplyResources applies mock resources.
func (m *MockPlatformProvisioner) ApplyResources(ctx context.Context, project provisioning.OpenShiftProject, repo provisioning.GitRepository, b booster.Booster) (provisioning.OpenShiftProject, error) {
	args := m.Called(ctx, project, repo, b)
	return args.Get(0).(provisioning.OpenShiftProject), args.Error(1)
}

// ListResources lists mock resources.
func (m *MockPlatformProvisioner) ListResources(ctx context.Context, name string) ([]provisioning.OpenShiftResource, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provisioning.OpenShiftResource), args.Error(1)
}

// DeleteProject deletes a mock project.
func (m *MockPlatformProvisioner) DeleteProject(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

var (
	_ provisioning.CatalogGateway        = (*MockCatalog)(nil)
	_ provisioning.RepositoryProvisioner = (*MockRepositoryProvisioner)(nil)
	_ provisioning.PlatformProvisioner   = (*MockPlatformProvisioner)(nil)
)
