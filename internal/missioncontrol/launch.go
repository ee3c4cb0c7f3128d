package missioncontrol

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/projectile"
	"github.com/imamik/missioncontrol/internal/provisioning"
)

// Step names used in events.
const (
	stepCatalog    = "catalog"
	stepRepository = "repository"
	stepPush       = "push"
	stepProject    = "project"
	stepResources  = "resources"
	stepCompensate = "compensation"
)

// Resource types used in events and compensation metrics.
const (
	resourceRepository = "repository"
	resourceProject    = "project"
)

// step describes one forward action and the code its failures carry.
type step struct {
	name    string
	code    launcherr.Code
	subject string

	// also lists further codes a failure of this step may keep.
	also []launcherr.Code
}

// failure types err with the step's code. A launcher error is kept as is
// only when its code belongs to the step; any other code, such as a
// not-found from a provisioner, stays in the cause chain.
func (s step) failure(err error) *launcherr.Error {
	var lerr *launcherr.Error
	if errors.As(err, &lerr) && (lerr.Code == s.code || slices.Contains(s.also, lerr.Code)) {
		return lerr
	}
	return launcherr.New(s.code, s.subject, err)
}

// undo deletes a resource created by a completed step.
type undo struct {
	resource string
	name     string
	remove   func(ctx context.Context, name string) (bool, error)
}

// launch is the state of one Launch call.
type launch struct {
	mc       *MissionControl
	observer provisioning.Observer
	trace    Trace
	undo     []undo
}

func (l *launch) run(ctx context.Context, p projectile.LauncherCreateProjectile) (*Boom, error) {
	if t := l.mc.timeouts.Launch; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	repos, platform := l.mc.repos, l.mc.platform

	catalog := step{
		name:    stepCatalog,
		code:    launcherr.CodeTemplateNotFound,
		subject: p.Booster.ID,
		also:    []launcherr.Code{launcherr.CodeInvalidProjectile},
	}
	p, lerr := runStep(ctx, l, catalog,
		func(ctx context.Context) (projectile.LauncherCreateProjectile, error) {
			return l.prepare(ctx, p)
		})
	if lerr != nil {
		return nil, l.fail(ctx, stepCatalog, lerr)
	}
	l.advance(ctx, StateRepoPending)

	repo, lerr := runStep(ctx, l, step{name: stepRepository, code: launcherr.CodeRepositoryCreateFailed, subject: p.GitRepositoryName},
		func(ctx context.Context) (provisioning.GitRepository, error) {
			return repos.CreateRepository(ctx, p)
		})
	if lerr != nil {
		return nil, l.fail(ctx, stepRepository, lerr)
	}
	l.created(resourceRepository, repo.FullName, repos.DeleteRepository)
	provisioning.LogResourceCreated(l.observer, stepRepository, resourceRepository, repo.FullName)
	l.advance(ctx, StateRepoCreated)

	_, lerr = runStep(ctx, l, step{name: stepPush, code: launcherr.CodePushFailed, subject: repo.FullName},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, repos.PushSource(ctx, repo, p)
		})
	if lerr != nil {
		return nil, l.fail(ctx, stepPush, lerr)
	}
	l.advance(ctx, StateCodePushed)

	project, lerr := runStep(ctx, l, step{name: stepProject, code: launcherr.CodeProjectCreateFailed, subject: p.OpenShiftProjectName},
		func(ctx context.Context) (provisioning.OpenShiftProject, error) {
			return platform.CreateProject(ctx, p.OpenShiftProjectName)
		})
	if lerr != nil {
		return nil, l.fail(ctx, stepProject, lerr)
	}
	l.created(resourceProject, project.Name, platform.DeleteProject)
	provisioning.LogResourceCreated(l.observer, stepProject, resourceProject, project.Name)
	l.advance(ctx, StateProjectCreated)

	project, lerr = runStep(ctx, l, step{name: stepResources, code: launcherr.CodeResourceApplyFailed, subject: p.OpenShiftProjectName},
		func(ctx context.Context) (provisioning.OpenShiftProject, error) {
			return platform.ApplyResources(ctx, project, repo, p.Booster)
		})
	if lerr != nil {
		return nil, l.fail(ctx, stepResources, lerr)
	}
	l.advance(ctx, StateResourcesApplied)

	boom := &Boom{Repository: repo, Project: project}
	l.advance(ctx, StateSucceeded)
	return boom, nil
}

// prepare resolves the booster against the catalog and validates p with it.
func (l *launch) prepare(ctx context.Context, p projectile.LauncherCreateProjectile) (projectile.LauncherCreateProjectile, error) {
	b, err := l.mc.resolve(ctx, p.Booster.ID)
	if err != nil {
		return p, err
	}
	p.Booster = b
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// runStep runs fn unless ctx has already ended, and types its failure.
func runStep[T any](ctx context.Context, l *launch, s step, fn func(context.Context) (T, error)) (T, *launcherr.Error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, launcherr.New(s.code, s.subject, fmt.Errorf("launch aborted before %s: %w", s.name, err))
	}

	start := l.mc.now()
	provisioning.LogStepStarted(l.observer, s.name)
	v, err := fn(ctx)
	if err != nil {
		return zero, s.failure(err)
	}
	provisioning.LogStepCompleted(l.observer, s.name, l.mc.now().Sub(start))
	return v, nil
}

func (l *launch) advance(ctx context.Context, s State) {
	l.trace = append(l.trace, s)
	logger := log.FromContext(ctx)
	if s.Terminal() {
		logger.Info("launch finished", "state", string(s), "trace", l.trace.String())
		return
	}
	logger.V(1).Info("launch state changed", "state", string(s))
}

func (l *launch) created(resource, name string, del func(context.Context, string) (bool, error)) {
	l.undo = append(l.undo, undo{resource: resource, name: name, remove: del})
}

// fail moves the launch to FAILED, compensates, and returns the error to
// surface. The returned error is a copy of cause carrying compensation
// diagnostics, so shared error values are never modified.
func (l *launch) fail(ctx context.Context, failedStep string, cause *launcherr.Error) error {
	l.advance(ctx, StateFailed)

	surfaced := *cause
	surfaced.Compensation = append([]error(nil), cause.Compensation...)

	l.observer.Event(provisioning.Event{
		Type:    provisioning.EventStepFailed,
		Phase:   failedStep,
		Message: fmt.Sprintf("failed: %v", cause),
		Fields: map[string]string{
			"code":  string(cause.Code),
			"trace": l.trace.String(),
		},
	})

	l.compensate(ctx, failedStep, &surfaced)
	return &surfaced
}

// compensate deletes created resources in reverse creation order. Every
// action is attempted once; failures are recorded on cause and never stop
// the remaining actions. A resource that is already gone is not a failure.
func (l *launch) compensate(ctx context.Context, failedStep string, cause *launcherr.Error) {
	if len(l.undo) == 0 {
		return
	}

	provisioning.LogCompensationStarted(l.observer, failedStep, len(l.undo))
	detached := context.WithoutCancel(ctx)

	failures := 0
	for i := len(l.undo) - 1; i >= 0; i-- {
		if err := l.runUndo(detached, l.undo[i]); err != nil {
			failures++
			cause.AddCompensationFailure(err)
		}
	}
	l.undo = nil

	provisioning.LogCompensationCompleted(l.observer, failedStep, failures)
}

func (l *launch) runUndo(ctx context.Context, u undo) error {
	if t := l.mc.timeouts.Compensation; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	start := l.mc.now()
	deleted, err := u.remove(ctx, u.name)
	switch {
	case err == nil && deleted:
		l.mc.recordCompensation(u.resource, resultDeleted)
		provisioning.LogResourceDeleted(l.observer, stepCompensate, u.resource, u.name)
		log.FromContext(ctx).V(1).Info("compensating delete finished",
			"resource", u.resource, "name", u.name,
			"duration", l.mc.now().Sub(start).Round(time.Millisecond))
		return nil

	case err == nil || launcherr.IsNotFound(err):
		l.mc.recordCompensation(u.resource, resultMissing)
		provisioning.LogResourceMissing(l.observer, stepCompensate, u.resource, u.name)
		return nil

	default:
		l.mc.recordCompensation(u.resource, resultFailed)
		provisioning.LogCompensationFailed(l.observer, u.resource, u.name, err)
		return fmt.Errorf("failed to delete %s %s: %w", u.resource, u.name, err)
	}
}
