package booster

import (
	"errors"
	"fmt"
	"strings"
)

// Runtime identifies the language runtime a booster targets.
type Runtime struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Source locates a booster's template code. Exactly one of GitURL or
// Archive is set.
type Source struct {
	GitURL string `json:"gitURL,omitempty" yaml:"gitURL,omitempty"`
	GitRef string `json:"gitRef,omitempty" yaml:"gitRef,omitempty"`

	// Archive is a .tar.gz path on the local filesystem or an s3://bucket/key URL.
	Archive string `json:"archive,omitempty" yaml:"archive,omitempty"`
}

// IsGit reports whether the source is a git repository.
func (s Source) IsGit() bool {
	return s.GitURL != ""
}

// Booster is an immutable catalog entry.
type Booster struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Mission     string            `json:"mission,omitempty" yaml:"mission,omitempty"`
	Runtime     Runtime           `json:"runtime" yaml:"runtime"`
	Source      Source            `json:"source" yaml:"source"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DefaultID derives a booster ID from its runtime and mission, e.g. vertx-rest.
func DefaultID(runtime, mission string) string {
	switch {
	case runtime == "":
		return mission
	case mission == "":
		return runtime
	}
	return runtime + "-" + mission
}

// DisplayName returns Name, falling back to ID.
func (b Booster) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// Validate checks that the booster can be launched.
func (b Booster) Validate() error {
	var errs []error
	if strings.TrimSpace(b.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if b.Source.IsGit() == (b.Source.Archive != "") {
		errs = append(errs, errors.New("exactly one of source git URL or archive is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid booster %q: %w", b.ID, errors.Join(errs...))
	}
	return nil
}

// clone returns a deep copy so catalog snapshots cannot be mutated by callers.
func (b Booster) clone() Booster {
	if b.Metadata != nil {
		md := make(map[string]string, len(b.Metadata))
		for k, v := range b.Metadata {
			md[k] = v
		}
		b.Metadata = md
	}
	return b
}
