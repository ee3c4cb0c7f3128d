// Package config defines the launcher configuration.
//
// The [Config] struct carries the credentials and endpoints every launch
// needs: the GitHub account repositories are created under, the booster
// catalog location, the OpenShift cluster and project mode, and the git
// identity used for the initial commit. It is read from an optional YAML
// file and then overridden by LAUNCHER_* environment variables, so a
// deployment can run with environment variables alone.
package config
