package provisioning

import "github.com/imamik/missioncontrol/internal/util/naming"

// GitRepository is a handle to a created source-control repository.
type GitRepository struct {
	FullName string `json:"fullName" yaml:"fullName"`
	CloneURL string `json:"cloneURL" yaml:"cloneURL"`
	SSHURL   string `json:"sshURL,omitempty" yaml:"sshURL,omitempty"`
	HTMLURL  string `json:"htmlURL,omitempty" yaml:"htmlURL,omitempty"`
}

// Owner returns the account part of FullName.
func (r GitRepository) Owner() string {
	owner, _, _ := naming.SplitFullName(r.FullName)
	return owner
}

// Name returns the repository part of FullName.
func (r GitRepository) Name() string {
	_, name, _ := naming.SplitFullName(r.FullName)
	return name
}

// OpenShiftResource identifies an object applied into a project.
type OpenShiftResource struct {
	Kind string `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

// OpenShiftProject is a handle to a created platform project.
type OpenShiftProject struct {
	Name       string `json:"name" yaml:"name"`
	ConsoleURL string `json:"consoleURL,omitempty" yaml:"consoleURL,omitempty"`

	// Resources lists applied objects in application order.
	Resources []OpenShiftResource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// HasResourceKind reports whether any applied resource has the given kind.
func (p OpenShiftProject) HasResourceKind(kind string) bool {
	for _, r := range p.Resources {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

// WithResources returns a copy of p listing resources.
func (p OpenShiftProject) WithResources(resources []OpenShiftResource) OpenShiftProject {
	p.Resources = append([]OpenShiftResource(nil), resources...)
	return p
}
