package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/projectile"
	"github.com/imamik/missioncontrol/internal/provisioning"
	"github.com/imamik/missioncontrol/internal/util/naming"
)

// GitHost is an in-memory RepositoryProvisioner.
type GitHost struct {
	mu     sync.Mutex
	owner  string
	repos  map[string]provisioning.GitRepository
	pushed map[string]bool

	createErr error
	pushErr   error
	deleteErr error

	creates int
	pushes  int
	deletes int
}

// NewGitHost creates an empty host whose repositories belong to owner.
func NewGitHost(owner string) *GitHost {
	return &GitHost{
		owner:  owner,
		repos:  map[string]provisioning.GitRepository{},
		pushed: map[string]bool{},
	}
}

// FailCreate makes every CreateRepository call fail with err.
func (h *GitHost) FailCreate(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.createErr = err
}

// FailPush makes every PushSource call fail with err.
func (h *GitHost) FailPush(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushErr = err
}

// FailDelete makes every DeleteRepository call fail with err.
func (h *GitHost) FailDelete(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleteErr = err
}

// CreateRepository implements provisioning.RepositoryProvisioner.
func (h *GitHost) CreateRepository(_ context.Context, p projectile.LauncherCreateProjectile) (provisioning.GitRepository, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.creates++

	if h.createErr != nil {
		return provisioning.GitRepository{}, launcherr.New(launcherr.CodeRepositoryCreateFailed, p.GitRepositoryName, h.createErr)
	}
	fullName := naming.FullName(h.owner, p.GitRepositoryName)
	if _, exists := h.repos[fullName]; exists {
		return provisioning.GitRepository{}, launcherr.Newf(launcherr.CodeRepositoryCreateFailed, p.GitRepositoryName, "name already exists on this account")
	}

	repo := provisioning.GitRepository{
		FullName: fullName,
		CloneURL: fmt.Sprintf("https://github.com/%s.git", fullName),
		HTMLURL:  "https://github.com/" + fullName,
	}
	h.repos[fullName] = repo
	return repo, nil
}

// PushSource implements provisioning.RepositoryProvisioner.
func (h *GitHost) PushSource(_ context.Context, repo provisioning.GitRepository, _ projectile.LauncherCreateProjectile) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushes++

	if h.pushErr != nil {
		return launcherr.New(launcherr.CodePushFailed, repo.FullName, h.pushErr)
	}
	if _, ok := h.repos[repo.FullName]; !ok {
		return launcherr.Newf(launcherr.CodePushFailed, repo.FullName, "repository not found")
	}
	h.pushed[repo.FullName] = true
	return nil
}

// DeleteRepository implements provisioning.RepositoryProvisioner.
func (h *GitHost) DeleteRepository(_ context.Context, fullName string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletes++

	if h.deleteErr != nil {
		return false, h.deleteErr
	}
	if _, ok := h.repos[fullName]; !ok {
		return false, launcherr.New(launcherr.CodeNoSuchRepository, fullName, nil)
	}
	delete(h.repos, fullName)
	delete(h.pushed, fullName)
	return true, nil
}

// RepositoryExists reports whether fullName exists.
func (h *GitHost) RepositoryExists(_ context.Context, fullName string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.repos[fullName]
	return ok, nil
}

// Pushed reports whether source was pushed to fullName.
func (h *GitHost) Pushed(fullName string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pushed[fullName]
}

// Seed adds an existing repository.
func (h *GitHost) Seed(name string) provisioning.GitRepository {
	h.mu.Lock()
	defer h.mu.Unlock()
	fullName := naming.FullName(h.owner, name)
	repo := provisioning.GitRepository{FullName: fullName, CloneURL: fmt.Sprintf("https://github.com/%s.git", fullName)}
	h.repos[fullName] = repo
	return repo
}

// Calls returns how often create, push and delete were invoked.
func (h *GitHost) Calls() (creates, pushes, deletes int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.creates, h.pushes, h.deletes
}

// Cluster is an in-memory PlatformProvisioner.
type Cluster struct {
	mu       sync.Mutex
	projects map[string]provisioning.OpenShiftProject

	createErr error
	applyErr  error
	deleteErr error

	creates int
	applies int
	deletes int
}

// NewCluster creates a cluster without projects.
func NewCluster() *Cluster {
	return &Cluster{projects: map[string]provisioning.OpenShiftProject{}}
}

// FailCreate makes every CreateProject call fail with err.
func (c *Cluster) FailCreate(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createErr = err
}

// FailApply makes every ApplyResources call fail with err.
func (c *Cluster) FailApply(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyErr = err
}

// FailDelete makes every DeleteProject call fail with err.
func (c *Cluster) FailDelete(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteErr = err
}

// CreateProject implements provisioning.PlatformProvisioner.
func (c *Cluster) CreateProject(_ context.Context, name string) (provisioning.OpenShiftProject, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates++

	if c.createErr != nil {
		return provisioning.OpenShiftProject{}, launcherr.New(launcherr.CodeProjectCreateFailed, name, c.createErr)
	}
	if _, exists := c.projects[name]; exists {
		return provisioning.OpenShiftProject{}, launcherr.Newf(launcherr.CodeProjectCreateFailed, name, "project already exists")
	}
	project := provisioning.OpenShiftProject{Name: name}
	c.projects[name] = project
	return project, nil
}

// ApplyResources implements provisioning.PlatformProvisioner.
func (c *Cluster) ApplyResources(_ context.Context, project provisioning.OpenShiftProject, repo provisioning.GitRepository, _ booster.Booster) (provisioning.OpenShiftProject, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applies++

	if c.applyErr != nil {
		return provisioning.OpenShiftProject{}, launcherr.New(launcherr.CodeResourceApplyFailed, project.Name, c.applyErr)
	}
	if _, ok := c.projects[project.Name]; !ok {
		return provisioning.OpenShiftProject{}, launcherr.Newf(launcherr.CodeResourceApplyFailed, project.Name, "project not found")
	}

	app := naming.Application(repo.Name())
	applied := project.WithResources([]provisioning.OpenShiftResource{
		{Kind: "ImageStream", Name: app},
		{Kind: "BuildConfig", Name: app},
		{Kind: "DeploymentConfig", Name: app},
		{Kind: "Service", Name: app},
		{Kind: "Route", Name: app},
	})
	c.projects[project.Name] = applied
	return applied, nil
}

// ListResources implements provisioning.PlatformProvisioner.
func (c *Cluster) ListResources(_ context.Context, name string) ([]provisioning.OpenShiftResource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	project, ok := c.projects[name]
	if !ok {
		return nil, launcherr.New(launcherr.CodeNoSuchProject, name, nil)
	}
	return append([]provisioning.OpenShiftResource(nil), project.Resources...), nil
}

// DeleteProject implements provisioning.PlatformProvisioner.
func (c *Cluster) DeleteProject(_ context.Context, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++

	if c.deleteErr != nil {
		return false, c.deleteErr
	}
	if _, ok := c.projects[name]; !ok {
		return false, launcherr.New(launcherr.CodeNoSuchProject, name, nil)
	}
	delete(c.projects, name)
	return true, nil
}

// ProjectExists reports whether name exists.
func (c *Cluster) ProjectExists(_ context.Context, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.projects[name]
	return ok, nil
}

// Seed adds an existing project.
func (c *Cluster) Seed(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects[name] = provisioning.OpenShiftProject{Name: name}
}

// Calls returns how often create, apply and delete were invoked.
func (c *Cluster) Calls() (creates, applies, deletes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creates, c.applies, c.deletes
}

var (
	_ provisioning.RepositoryProvisioner = (*GitHost)(nil)
	_ provisioning.PlatformProvisioner   = (*Cluster)(nil)
)
