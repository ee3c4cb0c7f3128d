package missioncontrol

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/projectile"
	"github.com/imamik/missioncontrol/internal/provisioning"
)

// Boom is the outcome of a successful launch. Both handles are always set.
type Boom struct {
	Repository provisioning.GitRepository    `json:"repository" yaml:"repository"`
	Project    provisioning.OpenShiftProject `json:"project" yaml:"project"`
}

// MissionControl runs launches against a catalog and two provisioners.
// It holds no per-launch state and is safe for concurrent use.
type MissionControl struct {
	catalog  provisioning.CatalogGateway
	repos    provisioning.RepositoryProvisioner
	platform provisioning.PlatformProvisioner

	observer      provisioning.Observer
	timeouts      *config.Timeouts
	enableMetrics bool
	now           func() time.Time
}

// Option configures a MissionControl.
type Option func(*MissionControl)

// WithObserver sets the observer for launch events. Without it, events are
// written to the logger of each launch's context.
func WithObserver(o provisioning.Observer) Option {
	return func(m *MissionControl) {
		m.observer = o
	}
}

// WithMetrics enables prometheus metrics on the controller-runtime registry.
func WithMetrics(enabled bool) Option {
	return func(m *MissionControl) {
		m.enableMetrics = enabled
	}
}

// WithTimeouts sets custom timeouts.
func WithTimeouts(t *config.Timeouts) Option {
	return func(m *MissionControl) {
		m.timeouts = t
	}
}

// New creates a MissionControl.
func New(catalog provisioning.CatalogGateway, repos provisioning.RepositoryProvisioner, platform provisioning.PlatformProvisioner, opts ...Option) *MissionControl {
	m := &MissionControl{
		catalog:  catalog,
		repos:    repos,
		platform: platform,
		timeouts: config.LoadTimeouts(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Launch provisions p. It returns a Boom, or a *launcherr.Error after
// every resource the launch created has been deleted again.
func (m *MissionControl) Launch(ctx context.Context, p projectile.LauncherCreateProjectile) (*Boom, error) {
	boom, _, err := m.LaunchTrace(ctx, p)
	return boom, err
}

// LaunchTrace is Launch that also returns the states the launch visited.
func (m *MissionControl) LaunchTrace(ctx context.Context, p projectile.LauncherCreateProjectile) (*Boom, Trace, error) {
	start := m.now()
	l := &launch{
		mc:       m,
		observer: m.observerFor(ctx, p),
		trace:    Trace{StateStart},
	}

	boom, err := l.run(ctx, p)
	m.recordLaunch(err, m.now().Sub(start).Seconds())
	if err != nil {
		return nil, l.trace, err
	}

	log.FromContext(ctx).Info("launch succeeded",
		"repository", boom.Repository.FullName,
		"project", boom.Project.Name,
		"duration", m.now().Sub(start).Round(time.Millisecond))
	return boom, l.trace, nil
}

// LaunchFromContext resolves the booster named by c, builds the projectile
// and launches it.
func (m *MissionControl) LaunchFromContext(ctx context.Context, c projectile.CreateProjectileContext) (*Boom, error) {
	p, err := m.Projectile(ctx, c)
	if err != nil {
		m.recordLaunch(err, 0)
		return nil, err
	}
	return m.Launch(ctx, p)
}

// Projectile waits for the catalog and binds c to the booster it names.
func (m *MissionControl) Projectile(ctx context.Context, c projectile.CreateProjectileContext) (projectile.LauncherCreateProjectile, error) {
	b, err := m.resolve(ctx, c.BoosterID)
	if err != nil {
		return projectile.LauncherCreateProjectile{}, err
	}
	return projectile.New(ctx, c, b)
}

// Boosters waits for the catalog and returns its boosters.
func (m *MissionControl) Boosters(ctx context.Context) ([]booster.Booster, error) {
	if err := m.catalog.WaitForIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to index booster catalog: %w", err)
	}
	return m.catalog.Boosters(), nil
}

func (m *MissionControl) resolve(ctx context.Context, id string) (booster.Booster, error) {
	if err := m.catalog.WaitForIndex(ctx); err != nil {
		return booster.Booster{}, launcherr.New(launcherr.CodeTemplateNotFound, id, fmt.Errorf("catalog is not available: %w", err))
	}
	b, err := m.catalog.Resolve(id)
	if err != nil {
		return booster.Booster{}, launcherr.Wrap(launcherr.CodeTemplateNotFound, id, err)
	}
	return b, nil
}

func (m *MissionControl) observerFor(ctx context.Context, p projectile.LauncherCreateProjectile) provisioning.Observer {
	var o provisioning.Observer = m.observer
	if o == nil {
		o = provisioning.NewObserverFromContext(ctx)
	}
	return o.WithFields(map[string]string{
		"booster":    p.Booster.ID,
		"repository": p.GitRepositoryName,
		"project":    p.OpenShiftProjectName,
	})
}
