package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/platform/git"
	"github.com/imamik/missioncontrol/internal/platform/github"
	"github.com/imamik/missioncontrol/internal/projectile"
	"github.com/imamik/missioncontrol/internal/provisioning"
	"github.com/imamik/missioncontrol/internal/util/retry"
)

const phase = "repository"

// RepositoryAPI is the source-control host API. Implemented by *github.Client.
type RepositoryAPI interface {
	CreateRepository(ctx context.Context, req github.CreateRequest) (*github.Repository, error)
	GetRepository(ctx context.Context, fullName string) (*github.Repository, error)
	DeleteRepository(ctx context.Context, fullName string) error
}

// SourceStager materializes booster source. Implemented by *booster.Stager.
type SourceStager interface {
	Stage(ctx context.Context, b booster.Booster, dest string) error
}

// PushFunc pushes a committed working copy. It matches git.Push.
type PushFunc func(ctx context.Context, opts git.PushOptions) error

// Provisioner creates, populates and deletes repositories.
type Provisioner struct {
	api      RepositoryAPI
	stager   SourceStager
	observer provisioning.Observer
	timeouts *config.Timeouts

	organization string
	private      bool
	useSSH       bool
	auth         transport.AuthMethod
	branch       string
	authorName   string
	authorEmail  string

	push PushFunc
	now  func() time.Time
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithOrganization creates repositories under org instead of the
// authenticated user.
func WithOrganization(org string) Option {
	return func(p *Provisioner) {
		p.organization = org
	}
}

// WithPrivate creates private repositories.
func WithPrivate(private bool) Option {
	return func(p *Provisioner) {
		p.private = private
	}
}

// WithAuth sets the credentials used for pushing. ssh selects the
// repository's SSH URL as the push target.
func WithAuth(auth transport.AuthMethod, ssh bool) Option {
	return func(p *Provisioner) {
		p.auth = auth
		p.useSSH = ssh
	}
}

// WithBranch sets the branch the initial commit is pushed to.
func WithBranch(branch string) Option {
	return func(p *Provisioner) {
		p.branch = branch
	}
}

// WithAuthor sets the identity of the initial commit.
func WithAuthor(name, email string) Option {
	return func(p *Provisioner) {
		p.authorName = name
		p.authorEmail = email
	}
}

// WithObserver sets the event observer.
func WithObserver(o provisioning.Observer) Option {
	return func(p *Provisioner) {
		p.observer = o
	}
}

// WithTimeouts sets push timeouts and retry parameters.
func WithTimeouts(t *config.Timeouts) Option {
	return func(p *Provisioner) {
		p.timeouts = t
	}
}

// WithPushFunc replaces git.Push (useful for testing).
func WithPushFunc(fn PushFunc) Option {
	return func(p *Provisioner) {
		p.push = fn
	}
}

// NewProvisioner creates a repository provisioner.
func NewProvisioner(api RepositoryAPI, stager SourceStager, opts ...Option) *Provisioner {
	p := &Provisioner{
		api:         api,
		stager:      stager,
		timeouts:    config.LoadTimeouts(),
		branch:      config.DefaultBranch,
		authorName:  config.DefaultAuthorName,
		authorEmail: config.DefaultAuthorEmail,
		push:        git.Push,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromConfig creates a provisioner from launcher configuration.
func NewFromConfig(cfg *config.Config, api RepositoryAPI, stager SourceStager, opts ...Option) (*Provisioner, error) {
	auth := git.TokenAuth(cfg.GitHub.Username, cfg.GitHub.Token)
	if cfg.UsesSSH() {
		var err error
		auth, err = git.SSHAuth(cfg.Git.SSHKeyPath, cfg.Git.KnownHosts)
		if err != nil {
			return nil, err
		}
	}

	base := []Option{
		WithOrganization(cfg.GitHub.Organization),
		WithPrivate(cfg.GitHub.Private),
		WithAuth(auth, cfg.UsesSSH()),
		WithBranch(cfg.Git.Branch),
		WithAuthor(cfg.Git.AuthorName, cfg.Git.AuthorEmail),
	}
	return NewProvisioner(api, stager, append(base, opts...)...), nil
}

func (p *Provisioner) observerFor(ctx context.Context) provisioning.Observer {
	if p.observer != nil {
		return p.observer
	}
	return provisioning.NewObserverFromContext(ctx)
}

// CreateRepository creates an empty repository named after the projectile.
func (p *Provisioner) CreateRepository(ctx context.Context, pr projectile.LauncherCreateProjectile) (provisioning.GitRepository, error) {
	repo, err := p.api.CreateRepository(ctx, github.CreateRequest{
		Organization: p.organization,
		Name:         pr.GitRepositoryName,
		Description:  pr.GitRepositoryDescription(),
		Private:      p.private,
	})
	if err != nil {
		return provisioning.GitRepository{}, launcherr.New(launcherr.CodeRepositoryCreateFailed, pr.GitRepositoryName, classify(err))
	}

	return provisioning.GitRepository{
		FullName: repo.FullName,
		CloneURL: repo.CloneURL,
		SSHURL:   repo.SSHURL,
		HTMLURL:  repo.HTMLURL,
	}, nil
}

// PushSource stages the booster source into the projectile's location and
// pushes it to repo as the initial commit. A push the remote rejects as
// "repository not found" is retried while the new repository propagates.
func (p *Provisioner) PushSource(ctx context.Context, repo provisioning.GitRepository, pr projectile.LauncherCreateProjectile) error {
	if err := p.pushSource(ctx, repo, pr); err != nil {
		return launcherr.New(launcherr.CodePushFailed, repo.FullName, err)
	}
	provisioning.LogResourceCreated(p.observerFor(ctx), phase, "initial commit", repo.FullName)
	return nil
}

func (p *Provisioner) pushSource(ctx context.Context, repo provisioning.GitRepository, pr projectile.LauncherCreateProjectile) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeouts.Push)
	defer cancel()
	logger := log.FromContext(ctx).WithValues("repository", repo.FullName)

	dir := pr.ProjectLocation
	if err := p.stager.Stage(ctx, pr.Booster, dir); err != nil {
		return fmt.Errorf("failed to stage booster %s: %w", pr.Booster.ID, err)
	}

	hash, err := p.commit(ctx, dir, pr)
	if err != nil {
		return err
	}
	logger.V(1).Info("initial commit created", "commit", hash)

	remote := repo.CloneURL
	if p.useSSH && repo.SSHURL != "" {
		remote = repo.SSHURL
	}

	return retry.WithExponentialBackoff(ctx, func() error {
		return p.push(ctx, git.PushOptions{
			Dir:       dir,
			RemoteURL: remote,
			Branch:    p.branch,
			Auth:      p.auth,
		})
	},
		retry.WithMaxRetries(p.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(p.timeouts.RetryInitialDelay),
		retry.WithRetryIf(git.IsTransient),
		retry.WithLogger(logger),
	)
}

// commit records the staged source, reusing an earlier commit when a
// previous attempt already initialized the working copy.
func (p *Provisioner) commit(ctx context.Context, dir string, pr projectile.LauncherCreateProjectile) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		if hash, err := git.HeadCommit(dir); err == nil {
			return hash, nil
		}
	}

	return git.InitAndCommit(ctx, dir, git.CommitOptions{
		Branch:      p.branch,
		Message:     fmt.Sprintf("Initial import of the %s booster", pr.Booster.DisplayName()),
		AuthorName:  p.authorName,
		AuthorEmail: p.authorEmail,
		When:        p.now(),
	})
}

// CreateAndPopulate creates the repository and pushes the booster source.
// When the push fails the created handle is returned with the error so
// the caller can delete it.
func (p *Provisioner) CreateAndPopulate(ctx context.Context, pr projectile.LauncherCreateProjectile) (provisioning.GitRepository, error) {
	repo, err := p.CreateRepository(ctx, pr)
	if err != nil {
		return provisioning.GitRepository{}, err
	}
	if err := p.PushSource(ctx, repo, pr); err != nil {
		return repo, err
	}
	return repo, nil
}

// DeleteRepository deletes a repository by "owner/name". A repository that
// does not exist yields false and NO_SUCH_REPOSITORY.
func (p *Provisioner) DeleteRepository(ctx context.Context, fullName string) (bool, error) {
	obs := p.observerFor(ctx)

	err := p.api.DeleteRepository(ctx, fullName)
	if err != nil {
		if github.IsNotFound(err) {
			provisioning.LogResourceMissing(obs, phase, "repository", fullName)
			return false, launcherr.New(launcherr.CodeNoSuchRepository, fullName, err)
		}
		return false, err
	}

	provisioning.LogResourceDeleted(obs, phase, "repository", fullName)
	return true, nil
}

// RepositoryExists reports whether fullName exists.
func (p *Provisioner) RepositoryExists(ctx context.Context, fullName string) (bool, error) {
	_, err := p.api.GetRepository(ctx, fullName)
	if err != nil {
		if github.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// classify annotates host errors with the rejection reason.
func classify(err error) error {
	switch {
	case github.IsConflict(err):
		return fmt.Errorf("repository already exists or is invalid: %w", err)
	case github.IsUnauthorized(err):
		return fmt.Errorf("credentials rejected: %w", err)
	case github.IsRateLimited(err):
		return fmt.Errorf("rate limited: %w", err)
	}
	return err
}

var _ provisioning.RepositoryProvisioner = (*Provisioner)(nil)
