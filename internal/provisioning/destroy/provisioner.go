package destroy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/util/async"
)

// Target kinds.
const (
	KindRepository = "repository"
	KindProject    = "project"
)

// RepositoryDeleter deletes repositories. Implemented by repository.Provisioner.
type RepositoryDeleter interface {
	DeleteRepository(ctx context.Context, fullName string) (bool, error)
}

// ProjectDeleter deletes projects. Implemented by platform.Provisioner.
type ProjectDeleter interface {
	DeleteProject(ctx context.Context, name string) (bool, error)
}

// Targets lists what to delete.
type Targets struct {
	// Repositories are "owner/name" full names.
	Repositories []string
	Projects     []string
}

// Target identifies one deleted, missing or failed resource.
type Target struct {
	Kind string `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

func (t Target) String() string {
	return t.Kind + " " + t.Name
}

// Failure is a target that could not be deleted.
type Failure struct {
	Target `json:",inline" yaml:",inline"`
	Err    error `json:"-" yaml:"-"`
}

// Report summarizes a Destroy call. Each list is sorted by kind and name.
type Report struct {
	Deleted []Target  `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Missing []Target  `json:"missing,omitempty" yaml:"missing,omitempty"`
	Failed  []Failure `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Provisioner handles teardown.
type Provisioner struct {
	repos    RepositoryDeleter
	projects ProjectDeleter
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner(repos RepositoryDeleter, projects ProjectDeleter) *Provisioner {
	return &Provisioner{repos: repos, projects: projects}
}

// Destroy deletes every target in parallel. Missing targets are expected
// and recorded in the report; other failures are joined into the error.
func (p *Provisioner) Destroy(ctx context.Context, targets Targets) (Report, error) {
	logger := log.FromContext(ctx)

	var (
		mu     sync.Mutex
		report Report
	)
	record := func(t Target, deleted bool, err error) error {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case err == nil && deleted:
			report.Deleted = append(report.Deleted, t)
			logger.Info("deleted", "kind", t.Kind, "name", t.Name)
		case err == nil || launcherr.IsNotFound(err):
			report.Missing = append(report.Missing, t)
			logger.Info("nothing to delete", "kind", t.Kind, "name", t.Name)
		default:
			report.Failed = append(report.Failed, Failure{Target: t, Err: err})
			logger.Error(err, "failed to delete", "kind", t.Kind, "name", t.Name)
			return err
		}
		return nil
	}

	tasks := make([]async.Task, 0, len(targets.Repositories)+len(targets.Projects))
	for _, name := range targets.Repositories {
		t := Target{Kind: KindRepository, Name: name}
		tasks = append(tasks, async.Task{
			Name: t.String(),
			Func: func(ctx context.Context) error {
				if p.repos == nil {
					return record(t, false, fmt.Errorf("no repository provisioner configured"))
				}
				deleted, err := p.repos.DeleteRepository(ctx, name)
				return record(t, deleted, err)
			},
		})
	}
	for _, name := range targets.Projects {
		t := Target{Kind: KindProject, Name: name}
		tasks = append(tasks, async.Task{
			Name: t.String(),
			Func: func(ctx context.Context) error {
				if p.projects == nil {
					return record(t, false, fmt.Errorf("no platform provisioner configured"))
				}
				deleted, err := p.projects.DeleteProject(ctx, name)
				return record(t, deleted, err)
			},
		})
	}

	err := async.RunParallel(ctx, tasks, true)

	sortTargets(report.Deleted)
	sortTargets(report.Missing)
	sort.Slice(report.Failed, func(i, j int) bool {
		return less(report.Failed[i].Target, report.Failed[j].Target)
	})
	return report, err
}

func sortTargets(ts []Target) {
	sort.Slice(ts, func(i, j int) bool { return less(ts[i], ts[j]) })
}

func less(a, b Target) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Name < b.Name
}
