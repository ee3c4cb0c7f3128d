package naming

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// MaxRepositoryNameLength is the longest repository name accepted.
const MaxRepositoryNameLength = 100

var (
	repositoryNameRe = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
	invalidLabelRe   = regexp.MustCompile(`[^a-z0-9-]+`)
)

// ProjectNameErrors returns the reasons name is not a valid project name.
func ProjectNameErrors(name string) []string {
	if name == "" {
		return []string{"must not be empty"}
	}
	return validation.IsDNS1123Label(name)
}

// RepositoryNameErrors returns the reasons name is not a valid repository name.
func RepositoryNameErrors(name string) []string {
	if name == "" {
		return []string{"must not be empty"}
	}

	var errs []string
	if len(name) > MaxRepositoryNameLength {
		errs = append(errs, validation.MaxLenError(MaxRepositoryNameLength))
	}
	if !repositoryNameRe.MatchString(name) {
		errs = append(errs, "must consist of lower case alphanumeric characters or '-', "+
			"and must start and end with an alphanumeric character")
	}
	return errs
}

// Application derives the object name used for every resource applied
// for a repository. The result is a DNS-1035 label.
func Application(repository string) string {
	name := invalidLabelRe.ReplaceAllString(strings.ToLower(repository), "-")
	name = strings.TrimLeft(name, "-0123456789")
	if len(name) > validation.DNS1035LabelMaxLength {
		name = name[:validation.DNS1035LabelMaxLength]
	}
	name = strings.TrimRight(name, "-")
	if name == "" {
		return "app"
	}
	return name
}

// FullName joins an owner and a repository name.
func FullName(owner, repository string) string {
	return owner + "/" + repository
}

// SplitFullName splits "owner/name". ok is false when either part is empty.
func SplitFullName(fullName string) (owner, name string, ok bool) {
	owner, name, found := strings.Cut(fullName, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return owner, name, true
}

// Unique appends a random four-digit suffix to prefix, e.g. test-project-4821.
func Unique(prefix string) string {
	// #nosec G404 -- names only need to be distinct, not unpredictable
	return fmt.Sprintf("%s-%d", prefix, 1000+rand.IntN(9000))
}
