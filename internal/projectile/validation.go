package projectile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imamik/missioncontrol/internal/util/naming"
)

// FieldError is a single validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (fe FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// FieldErrors collects every violation of one request.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (fe *FieldErrors) add(field string, messages ...string) {
	for _, m := range messages {
		*fe = append(*fe, FieldError{Field: field, Message: m})
	}
}

func validateNames(repository, project string) FieldErrors {
	var errs FieldErrors
	errs.add("gitRepositoryName", naming.RepositoryNameErrors(repository)...)
	errs.add("openShiftProjectName", naming.ProjectNameErrors(project)...)
	return errs
}

// validateLocation records a problem with the staging directory. The
// directory is only created once every other field is valid, so a rejected
// request leaves nothing on disk.
func (fe *FieldErrors) validateLocation(dir string) {
	if strings.TrimSpace(dir) == "" {
		fe.add("projectLocation", "must not be empty")
		return
	}
	if len(*fe) > 0 {
		return
	}
	if err := checkWritable(dir); err != nil {
		fe.add("projectLocation", err.Error())
	}
}

// checkWritable creates dir if needed and checks a file can be written in it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("cannot be created: %w", err)
	}
	f, err := os.CreateTemp(dir, ".write-check-")
	if err != nil {
		return fmt.Errorf("is not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
