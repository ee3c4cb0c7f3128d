package platform

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/platform/openshift"
	"github.com/imamik/missioncontrol/internal/provisioning"
	"github.com/imamik/missioncontrol/internal/util/labels"
	"github.com/imamik/missioncontrol/internal/util/naming"
)

const phase = "platform"

// ClusterAPI is the cluster surface the provisioner uses. Implemented by
// *openshift.Client.
type ClusterAPI interface {
	CreateProject(ctx context.Context, name, displayName string, labels map[string]string) error
	ProjectExists(ctx context.Context, name string) (bool, error)
	DeleteProject(ctx context.Context, name string) (bool, error)
	Apply(ctx context.Context, namespace string, objs []*unstructured.Unstructured) error
	List(ctx context.Context, namespace, selector string) ([]openshift.Resource, error)
}

// Provisioner creates projects and applies booster resources.
type Provisioner struct {
	cluster    ClusterAPI
	observer   provisioning.Observer
	consoleURL string
	gitRef     string
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithConsoleURL sets the web console base URL used for project links.
func WithConsoleURL(url string) Option {
	return func(p *Provisioner) {
		p.consoleURL = strings.TrimSuffix(url, "/")
	}
}

// WithGitRef sets the branch BuildConfigs build from.
func WithGitRef(ref string) Option {
	return func(p *Provisioner) {
		p.gitRef = ref
	}
}

// WithObserver sets the event observer.
func WithObserver(o provisioning.Observer) Option {
	return func(p *Provisioner) {
		p.observer = o
	}
}

// NewProvisioner creates a platform provisioner.
func NewProvisioner(cluster ClusterAPI, opts ...Option) *Provisioner {
	p := &Provisioner{
		cluster: cluster,
		gitRef:  config.DefaultBranch,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provisioner) observerFor(ctx context.Context) provisioning.Observer {
	if p.observer != nil {
		return p.observer
	}
	return provisioning.NewObserverFromContext(ctx)
}

// CreateProject creates an empty project.
func (p *Provisioner) CreateProject(ctx context.Context, name string) (provisioning.OpenShiftProject, error) {
	if err := p.cluster.CreateProject(ctx, name, name, labels.NewLabelBuilder(name).Build()); err != nil {
		return provisioning.OpenShiftProject{}, launcherr.New(launcherr.CodeProjectCreateFailed, name, err)
	}

	return provisioning.OpenShiftProject{
		Name:       name,
		ConsoleURL: p.projectURL(name),
	}, nil
}

// ApplyResources applies the build and deployment objects for repo into
// project and returns the project listing them in application order.
func (p *Provisioner) ApplyResources(ctx context.Context, project provisioning.OpenShiftProject, repo provisioning.GitRepository, b booster.Booster) (provisioning.OpenShiftProject, error) {
	image, err := BuilderImage(b)
	if err != nil {
		return provisioning.OpenShiftProject{}, launcherr.New(launcherr.CodeResourceApplyFailed, project.Name, err)
	}

	app := naming.Application(repo.Name())
	spec := resourceSpec{
		App: app,
		Labels: labels.NewLabelBuilder(project.Name).
			WithApp(app).
			WithBooster(b.ID, b.Runtime.ID, b.Mission).
			Build(),
		GitURI:       repo.CloneURL,
		GitRef:       p.gitRef,
		BuilderImage: image,
	}
	objs := spec.objects()

	if err := p.cluster.Apply(ctx, project.Name, objs); err != nil {
		return provisioning.OpenShiftProject{}, launcherr.New(launcherr.CodeResourceApplyFailed, project.Name, err)
	}

	obs := p.observerFor(ctx)
	applied := make([]provisioning.OpenShiftResource, 0, len(objs))
	for _, obj := range objs {
		applied = append(applied, provisioning.OpenShiftResource{Kind: obj.GetKind(), Name: obj.GetName()})
		provisioning.LogResourceCreated(obs, phase, obj.GetKind(), project.Name+"/"+obj.GetName())
	}
	return project.WithResources(applied), nil
}

// ListResources returns the launcher-managed objects of a project.
func (p *Provisioner) ListResources(ctx context.Context, name string) ([]provisioning.OpenShiftResource, error) {
	exists, err := p.cluster.ProjectExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, launcherr.New(launcherr.CodeNoSuchProject, name, nil)
	}

	found, err := p.cluster.List(ctx, name, labels.SelectorForProject(name))
	if err != nil {
		return nil, err
	}
	out := make([]provisioning.OpenShiftResource, len(found))
	for i, r := range found {
		out[i] = provisioning.OpenShiftResource{Kind: r.Kind, Name: r.Name}
	}
	return out, nil
}

// DeleteProject deletes a project and everything in it. A project that
// does not exist yields false and NO_SUCH_PROJECT.
func (p *Provisioner) DeleteProject(ctx context.Context, name string) (bool, error) {
	obs := p.observerFor(ctx)

	deleted, err := p.cluster.DeleteProject(ctx, name)
	if err != nil {
		return false, err
	}
	if !deleted {
		provisioning.LogResourceMissing(obs, phase, "project", name)
		return false, launcherr.New(launcherr.CodeNoSuchProject, name, nil)
	}

	provisioning.LogResourceDeleted(obs, phase, "project", name)
	return true, nil
}

// ProjectExists reports whether a project exists.
func (p *Provisioner) ProjectExists(ctx context.Context, name string) (bool, error) {
	return p.cluster.ProjectExists(ctx, name)
}

func (p *Provisioner) projectURL(name string) string {
	if p.consoleURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/console/project/%s/overview", p.consoleURL, name)
}

var _ provisioning.PlatformProvisioner = (*Provisioner)(nil)
