// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/missioncontrol"
	"github.com/imamik/missioncontrol/internal/platform/github"
	"github.com/imamik/missioncontrol/internal/platform/openshift"
	"github.com/imamik/missioncontrol/internal/platform/s3"
	"github.com/imamik/missioncontrol/internal/provisioning/destroy"
	"github.com/imamik/missioncontrol/internal/provisioning/platform"
	"github.com/imamik/missioncontrol/internal/provisioning/repository"
)

// services bundles the collaborators a command works with.
type services struct {
	cfg     *config.Config
	catalog *booster.Catalog
	mission *missioncontrol.MissionControl
	destroy *destroy.Provisioner
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the configuration file, or the environment when the path is empty.
	loadConfig = config.Load

	// newServices wires the launcher from configuration.
	newServices = buildServices

	// newCatalog creates the booster catalog from configuration.
	newCatalog = buildCatalog

	// newGitHubClient creates the GitHub API client.
	newGitHubClient = func(cfg *config.Config, timeouts *config.Timeouts) (repository.RepositoryAPI, error) {
		client, err := github.NewClient(cfg.GitHub.Token, cfg.GitHub.BaseURL, github.WithTimeouts(timeouts))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// newClusterClient creates the OpenShift client.
	newClusterClient = func(cfg *config.Config) (platform.ClusterAPI, error) {
		client, err := openshift.NewFromKubeconfig(cfg.OpenShift.Kubeconfig, cfg.OpenShift.ProjectMode)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// newObjectStore creates the S3 client for catalogs and archive sources.
	newObjectStore = func(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
		return s3.NewClient(ctx, s3.Options{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// buildServices creates every collaborator a launch needs.
func buildServices(ctx context.Context, cfg *config.Config, enableMetrics bool) (*services, error) {
	if err := cfg.ValidateForLaunch(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	timeouts := config.LoadTimeouts()

	catalog, store, err := newCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	stager := &booster.Stager{}
	if store != nil {
		stager.Store = store
	}

	api, err := newGitHubClient(cfg, timeouts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	repos, err := repository.NewFromConfig(cfg, api, stager, repository.WithTimeouts(timeouts))
	if err != nil {
		return nil, fmt.Errorf("failed to configure repository provisioner: %w", err)
	}

	cluster, err := newClusterClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenShift client: %w", err)
	}
	plat := platform.NewProvisioner(cluster,
		platform.WithConsoleURL(cfg.OpenShift.ConsoleURL),
		platform.WithGitRef(cfg.Git.Branch),
	)

	return &services{
		cfg:     cfg,
		catalog: catalog,
		mission: missioncontrol.New(catalog, repos, plat,
			missioncontrol.WithMetrics(enableMetrics),
			missioncontrol.WithTimeouts(timeouts),
		),
		destroy: destroy.NewProvisioner(repos, plat),
	}, nil
}

// buildCatalog selects the catalog source: a local path first, then an S3
// bucket, then the git repository. The S3 client, when one is created, is
// returned so archive sources can be read through it.
func buildCatalog(ctx context.Context, cfg *config.Config) (*booster.Catalog, *s3.Client, error) {
	logger := log.FromContext(ctx).WithName("catalog")

	var store *s3.Client
	if cfg.Catalog.S3.Bucket != "" {
		var err error
		store, err = newObjectStore(ctx, cfg.Catalog.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
	}

	var loader booster.Loader
	switch {
	case cfg.Catalog.Path != "":
		logger.V(1).Info("using local booster catalog", "path", cfg.Catalog.Path)
		loader = booster.DirLoader{Root: cfg.Catalog.Path}
	case store != nil:
		logger.V(1).Info("using S3 booster catalog", "bucket", cfg.Catalog.S3.Bucket, "prefix", cfg.Catalog.S3.Prefix)
		loader = booster.S3Loader{Store: store, Bucket: cfg.Catalog.S3.Bucket, Prefix: cfg.Catalog.S3.Prefix}
	default:
		logger.V(1).Info("using git booster catalog", "url", cfg.Catalog.Repository, "ref", cfg.Catalog.Ref)
		loader = booster.GitLoader{URL: cfg.Catalog.Repository, Ref: cfg.Catalog.Ref, Logger: logger}
	}

	return booster.NewCatalog(loader, booster.WithLogger(logger)), store, nil
}
