package git

import (
	"errors"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// ErrNothingToCommit is returned by InitAndCommit for an empty directory.
var ErrNothingToCommit = errors.New("nothing to commit")

// ErrRefNotFound is returned by Clone when neither a branch nor a tag
// matches the requested ref.
var ErrRefNotFound = errors.New("reference not found")

// IsTransient reports whether a push failure may succeed on retry. A newly
// created repository can take a moment to become visible to the git
// endpoint, which surfaces as "repository not found".
func IsTransient(err error) bool {
	return errors.Is(err, transport.ErrRepositoryNotFound) ||
		errors.Is(err, transport.ErrEmptyRemoteRepository)
}

// IsAuthFailure reports whether err is a credential rejection.
func IsAuthFailure(err error) bool {
	return errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) ||
		errors.Is(err, transport.ErrInvalidAuthMethod)
}

func isUpToDate(err error) bool {
	return errors.Is(err, gogit.NoErrAlreadyUpToDate)
}
