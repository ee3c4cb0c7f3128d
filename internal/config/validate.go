package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	switch c.OpenShift.ProjectMode {
	case ProjectModeRequest, ProjectModeNamespace:
	default:
		errs = append(errs, fmt.Errorf("openshift.project_mode must be %q or %q, got %q",
			ProjectModeRequest, ProjectModeNamespace, c.OpenShift.ProjectMode))
	}

	if c.Catalog.Path == "" && c.Catalog.S3.Bucket == "" && c.Catalog.Repository == "" {
		errs = append(errs, errors.New("catalog: one of path, s3.bucket or repository is required"))
	}
	if c.Catalog.S3.Bucket != "" && (c.Catalog.S3.AccessKey == "") != (c.Catalog.S3.SecretKey == "") {
		errs = append(errs, errors.New("catalog.s3: access_key and secret_key must be set together"))
	}

	if c.GitHub.BaseURL != "" && !strings.HasPrefix(c.GitHub.BaseURL, "http") {
		errs = append(errs, fmt.Errorf("github.base_url must be an http(s) URL, got %q", c.GitHub.BaseURL))
	}

	if c.Git.SSHKeyPath != "" && c.Git.KnownHosts == "" {
		errs = append(errs, errors.New("git.known_hosts is required with git.ssh_key_path"))
	}

	return errors.Join(errs...)
}

// ValidateForLaunch additionally requires the credentials a launch needs.
func (c *Config) ValidateForLaunch() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.GitHub.Token == "" {
		errs = append(errs, fmt.Errorf("github token is required (set %s)", EnvGitHubToken))
	}
	if c.GitHub.Username == "" && c.GitHub.Organization == "" {
		errs = append(errs, fmt.Errorf("github username or organization is required (set %s)", EnvGitHubUsername))
	}
	return errors.Join(errs...)
}
