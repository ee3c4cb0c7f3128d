package handlers

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/missioncontrol"
	"github.com/imamik/missioncontrol/internal/platform/s3"
	"github.com/imamik/missioncontrol/internal/provisioning/destroy"
	testutil "github.com/imamik/missioncontrol/internal/testing"
)

const testOwner = "octo"

// fixture replaces the factory variables with in-memory fakes for one test.
type fixture struct {
	cfg     *config.Config
	catalog *booster.Catalog
	host    *testutil.GitHost
	cluster *testutil.Cluster
	out     *bytes.Buffer
}

func newFixture(t *testing.T, boosters ...booster.Booster) *fixture {
	t.Helper()

	f := &fixture{
		cfg:     config.Default(),
		host:    testutil.NewGitHost(testOwner),
		cluster: testutil.NewCluster(),
		out:     &bytes.Buffer{},
	}
	f.cfg.GitHub.Username = testOwner
	f.cfg.Staging.Root = t.TempDir()
	f.catalog = booster.NewCatalog(booster.LoaderFunc(func(context.Context) ([]booster.Booster, error) {
		return boosters, nil
	}))

	origLoad := loadConfig
	origServices := newServices
	origCatalog := newCatalog
	origStdout := stdout
	origStyled := styled
	t.Cleanup(func() {
		loadConfig = origLoad
		newServices = origServices
		newCatalog = origCatalog
		stdout = origStdout
		styled = origStyled
	})

	loadConfig = func(string) (*config.Config, error) { return f.cfg, nil }
	newCatalog = func(context.Context, *config.Config) (*booster.Catalog, *s3.Client, error) {
		return f.catalog, nil, nil
	}
	newServices = func(_ context.Context, cfg *config.Config, enableMetrics bool) (*services, error) {
		return &services{
			cfg:     cfg,
			catalog: f.catalog,
			mission: missioncontrol.New(f.catalog, f.host, f.cluster,
				missioncontrol.WithMetrics(enableMetrics),
				missioncontrol.WithTimeouts(&config.Timeouts{
					CatalogIndex: 5 * time.Second,
					Launch:       10 * time.Second,
					Compensation: 5 * time.Second,
				}),
			),
			destroy: destroy.NewProvisioner(f.host, f.cluster),
		}, nil
	}
	stdout = f.out
	styled = func() bool { return false }

	return f
}

func (f *fixture) failLoad(err error) {
	loadConfig = func(string) (*config.Config, error) { return nil, err }
}

var errBoom = errors.New("boom")
