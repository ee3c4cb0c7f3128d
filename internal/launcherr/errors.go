// Package launcherr defines the typed failures a launch can surface.
//
// Every failure carries a string Code so it reads well in logs and serializes
// naturally, the Name of the subject it concerns (booster ID, repository or
// project name), and the underlying cause. Sentinel values allow matching with
// errors.Is regardless of name or cause:
//
//	if errors.Is(err, launcherr.ErrResourceApplyFailed) {
//	    ...
//	}
package launcherr

import (
	"errors"
	"fmt"
)

// Code identifies a launch failure condition.
type Code string

const (
	// CodeTemplateNotFound indicates the requested booster is not in the catalog.
	CodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"

	// CodeInvalidProjectile indicates a name or path failed validation.
	CodeInvalidProjectile Code = "INVALID_PROJECTILE"

	// CodeRepositoryCreateFailed indicates the source-control host rejected repository creation.
	CodeRepositoryCreateFailed Code = "REPOSITORY_CREATE_FAILED"

	// CodePushFailed indicates the repository exists but could not be populated.
	CodePushFailed Code = "PUSH_FAILED"

	// CodeProjectCreateFailed indicates the platform rejected project creation.
	CodeProjectCreateFailed Code = "PROJECT_CREATE_FAILED"

	// CodeResourceApplyFailed indicates the project exists but its resources could not be applied.
	CodeResourceApplyFailed Code = "RESOURCE_APPLY_FAILED"

	// CodeNoSuchRepository indicates a deletion target repository does not exist.
	CodeNoSuchRepository Code = "NO_SUCH_REPOSITORY"

	// CodeNoSuchProject indicates a deletion target project does not exist.
	CodeNoSuchProject Code = "NO_SUCH_PROJECT"
)

// Sentinels for errors.Is matching. Only the Code is compared.
var (
	ErrTemplateNotFound       = &Error{Code: CodeTemplateNotFound}
	ErrInvalidProjectile      = &Error{Code: CodeInvalidProjectile}
	ErrRepositoryCreateFailed = &Error{Code: CodeRepositoryCreateFailed}
	ErrPushFailed             = &Error{Code: CodePushFailed}
	ErrProjectCreateFailed    = &Error{Code: CodeProjectCreateFailed}
	ErrResourceApplyFailed    = &Error{Code: CodeResourceApplyFailed}
	ErrNoSuchRepository       = &Error{Code: CodeNoSuchRepository}
	ErrNoSuchProject          = &Error{Code: CodeNoSuchProject}
)

// Error is a launch failure.
type Error struct {
	Code Code
	Name string
	Err  error

	// Compensation holds failures of compensating actions that ran after
	// this error was raised. They are diagnostics only.
	Compensation []error
}

// New creates an Error for the given code and subject.
func New(code Code, name string, err error) *Error {
	return &Error{Code: code, Name: name, Err: err}
}

// Newf creates an Error whose cause is a formatted message.
func Newf(code Code, name, format string, args ...any) *Error {
	return &Error{Code: code, Name: name, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// AddCompensationFailure records a failed compensating action.
func (e *Error) AddCompensationFailure(err error) {
	if err != nil {
		e.Compensation = append(e.Compensation, err)
	}
}

// CompensationIncomplete reports whether any compensating action failed.
func (e *Error) CompensationIncomplete() bool {
	return len(e.Compensation) > 0
}

// CodeOf returns the Code of the first launcher error in err's chain,
// or the empty Code if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound reports whether err signals a missing repository or project.
func IsNotFound(err error) bool {
	switch CodeOf(err) {
	case CodeNoSuchRepository, CodeNoSuchProject:
		return true
	}
	return false
}

// Wrap returns err unchanged if it already carries a launcher Code, and
// otherwise wraps it with code and name.
func Wrap(code Code, name string, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(code, name, err)
}
