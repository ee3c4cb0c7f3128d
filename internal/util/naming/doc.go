// Package naming provides the name rules and naming helpers for launched
// repositories, projects and the objects applied into them.
//
// Project names must be DNS-1123 labels. Repository names are lowercase
// alphanumerics and hyphens. Object names inside a project derive from
// the repository name, reduced to a DNS-1035 label so the same name is
// valid for every kind the launcher applies.
package naming
