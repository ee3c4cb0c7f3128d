package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v66/github"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/util/naming"
	"github.com/imamik/missioncontrol/internal/util/retry"
)

// Repository is the subset of a GitHub repository a launch needs.
type Repository struct {
	FullName string
	CloneURL string
	SSHURL   string
	HTMLURL  string
}

// CreateRequest describes a repository to create.
type CreateRequest struct {
	// Organization owns the repository. Empty creates it for the
	// authenticated user.
	Organization string

	Name        string
	Description string
	Homepage    string
	Private     bool
}

// Client wraps the go-github client.
type Client struct {
	gh       *gh.Client
	timeouts *config.Timeouts
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithGitHubClient sets a custom go-github client (useful for testing).
func WithGitHubClient(client *gh.Client) ClientOption {
	return func(c *Client) {
		c.gh = client
	}
}

// NewClient creates a client authenticated with token. A non-empty
// baseURL targets a GitHub Enterprise server.
func NewClient(token, baseURL string, opts ...ClientOption) (*Client, error) {
	client := gh.NewClient(&http.Client{}).WithAuthToken(token)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %s: %w", baseURL, err)
		}
	}

	c := &Client{
		gh:       client,
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AuthenticatedLogin returns the login the token belongs to.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// CreateRepository creates an empty repository.
func (c *Client) CreateRepository(ctx context.Context, req CreateRequest) (*Repository, error) {
	repo, _, err := c.gh.Repositories.Create(ctx, req.Organization, &gh.Repository{
		Name:        gh.String(req.Name),
		Description: gh.String(req.Description),
		Homepage:    gh.String(req.Homepage),
		Private:     gh.Bool(req.Private),
		AutoInit:    gh.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create repository %s: %w", req.Name, err)
	}
	return fromAPI(repo), nil
}

// GetRepository looks a repository up by "owner/name".
func (c *Client) GetRepository(ctx context.Context, fullName string) (*Repository, error) {
	owner, name, err := split(fullName)
	if err != nil {
		return nil, err
	}

	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s: %w", fullName, err)
	}
	return fromAPI(repo), nil
}

// DeleteRepository deletes a repository by "owner/name". Server errors and
// rate limiting are retried; a missing repository is returned unretried so
// callers can check it with IsNotFound.
func (c *Client) DeleteRepository(ctx context.Context, fullName string) error {
	owner, name, err := split(fullName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()

	err = retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.gh.Repositories.Delete(ctx, owner, name)
		return err
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithRetryIf(isRetryable),
		retry.WithLogger(log.FromContext(ctx).WithValues("repository", fullName)),
	)
	if err != nil {
		return fmt.Errorf("failed to delete repository %s: %w", fullName, err)
	}
	return nil
}

func split(fullName string) (owner, name string, err error) {
	owner, name, ok := naming.SplitFullName(fullName)
	if !ok {
		return "", "", fmt.Errorf("invalid repository name %q: want owner/name", fullName)
	}
	return owner, name, nil
}

func fromAPI(repo *gh.Repository) *Repository {
	return &Repository{
		FullName: repo.GetFullName(),
		CloneURL: repo.GetCloneURL(),
		SSHURL:   repo.GetSSHURL(),
		HTMLURL:  repo.GetHTMLURL(),
	}
}
