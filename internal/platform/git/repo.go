package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
)

// DefaultRemoteName is the remote InitAndCommit repositories push through.
const DefaultRemoteName = "origin"

// CloneOptions configures Clone.
type CloneOptions struct {
	URL string

	// Ref is a branch or tag name. Empty clones the remote HEAD.
	Ref string

	// Dest receives the working tree. It must be empty or absent.
	Dest string

	// Depth limits history. Zero clones everything.
	Depth int

	Auth transport.AuthMethod
}

// Clone checks out URL at Ref into Dest. Ref is tried as a branch first and
// then as a tag. Repository metadata stays in memory, so Dest contains no
// .git directory afterwards.
func Clone(ctx context.Context, opts CloneOptions) error {
	if opts.URL == "" {
		return errors.New("clone URL cannot be empty")
	}
	if err := os.MkdirAll(opts.Dest, 0o750); err != nil {
		return fmt.Errorf("failed to create clone destination: %w", err)
	}

	if opts.Ref == "" {
		return clone(ctx, opts, "")
	}

	err := clone(ctx, opts, plumbing.NewBranchReferenceName(opts.Ref))
	if err == nil || !isRefMissing(err) {
		return err
	}

	// Partially written files from the failed attempt must go before retrying.
	if err := clearDir(opts.Dest); err != nil {
		return err
	}

	err = clone(ctx, opts, plumbing.NewTagReferenceName(opts.Ref))
	if err != nil && isRefMissing(err) {
		return fmt.Errorf("%w: %s has no branch or tag %q", ErrRefNotFound, opts.URL, opts.Ref)
	}
	return err
}

func clone(ctx context.Context, opts CloneOptions, ref plumbing.ReferenceName) error {
	cloneOpts := &gogit.CloneOptions{
		URL:           opts.URL,
		Auth:          opts.Auth,
		Depth:         opts.Depth,
		ReferenceName: ref,
		SingleBranch:  ref != "",
		Tags:          gogit.NoTags,
	}

	if _, err := gogit.CloneContext(ctx, memory.NewStorage(), osfs.New(opts.Dest), cloneOpts); err != nil {
		return fmt.Errorf("failed to clone %s: %w", opts.URL, err)
	}
	return nil
}

func isRefMissing(err error) bool {
	var noMatch gogit.NoMatchingRefSpecError
	return errors.As(err, &noMatch) || errors.Is(err, plumbing.ErrReferenceNotFound)
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(dir + string(os.PathSeparator) + e.Name()); err != nil {
			return fmt.Errorf("failed to clear %s: %w", dir, err)
		}
	}
	return nil
}

// CommitOptions configures InitAndCommit.
type CommitOptions struct {
	Branch      string
	Message     string
	AuthorName  string
	AuthorEmail string

	// When defaults to the current time.
	When time.Time
}

// InitAndCommit initializes a repository in dir on Branch and records every
// file as a single commit. It returns the commit hash.
func InitAndCommit(_ context.Context, dir string, opts CommitOptions) (string, error) {
	empty, err := isEmptyDir(dir)
	if err != nil {
		return "", err
	}
	if empty {
		return "", fmt.Errorf("%w: %s is empty", ErrNothingToCommit, dir)
	}

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		return "", fmt.Errorf("failed to initialize repository: %w", err)
	}

	branch := opts.Branch
	if branch == "" {
		branch = "master"
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := repo.Storer.SetReference(head); err != nil {
		return "", fmt.Errorf("failed to set HEAD to %s: %w", branch, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("failed to stage files: %w", err)
	}

	when := opts.When
	if when.IsZero() {
		when = time.Now()
	}
	hash, err := wt.Commit(opts.Message, &gogit.CommitOptions{
		Author: &object.Signature{Name: opts.AuthorName, Email: opts.AuthorEmail, When: when},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	return hash.String(), nil
}

func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.Name() != ".git" {
			return false, nil
		}
	}
	return true, nil
}

// PushOptions configures Push.
type PushOptions struct {
	Dir       string
	RemoteURL string
	Branch    string
	Auth      transport.AuthMethod
}

// Push sends Branch of the repository in Dir to RemoteURL. A remote that is
// already up to date is not an error.
func Push(ctx context.Context, opts PushOptions) error {
	repo, err := gogit.PlainOpen(opts.Dir)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: DefaultRemoteName,
		URLs: []string{opts.RemoteURL},
	})
	if err != nil && !errors.Is(err, gogit.ErrRemoteExists) {
		return fmt.Errorf("failed to add remote: %w", err)
	}

	branch := opts.Branch
	if branch == "" {
		branch = "master"
	}
	ref := plumbing.NewBranchReferenceName(branch)

	err = repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: DefaultRemoteName,
		RemoteURL:  opts.RemoteURL,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref + ":" + ref)},
		Auth:       opts.Auth,
	})
	if err != nil && !isUpToDate(err) {
		return fmt.Errorf("failed to push to %s: %w", opts.RemoteURL, err)
	}
	return nil
}

// HeadCommit returns the hash HEAD points at in dir.
func HeadCommit(dir string) (string, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
