package config

import (
	"os"
	"path/filepath"
)

// Project modes supported by the platform provisioner.
const (
	// ProjectModeRequest creates projects through the OpenShift ProjectRequest API.
	ProjectModeRequest = "projectrequest"

	// ProjectModeNamespace creates plain labeled namespaces (vanilla Kubernetes).
	ProjectModeNamespace = "namespace"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultCatalogRepository = "https://github.com/fabric8-launcher/launcher-booster-catalog.git"
	DefaultCatalogRef        = "master"
	DefaultBranch            = "master"
	DefaultAuthorName        = "Mission Control"
	DefaultAuthorEmail       = "missioncontrol@noreply.launcher"
	DefaultListenAddress     = ":8080"
)

// Config is the launcher configuration.
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	OpenShift OpenShiftConfig `yaml:"openshift"`
	Git       GitConfig       `yaml:"git"`
	Staging   StagingConfig   `yaml:"staging"`
	Server    ServerConfig    `yaml:"server"`
}

// GitHubConfig holds the source-control host account.
type GitHubConfig struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`

	// Organization, when set, owns created repositories instead of the
	// authenticated user.
	Organization string `yaml:"organization"`

	// BaseURL points at a GitHub Enterprise API endpoint. Empty means github.com.
	BaseURL string `yaml:"base_url"`

	Private bool `yaml:"private"`
}

// CatalogConfig locates the booster catalog. Exactly one source is used:
// Path first, then S3, then the git Repository.
type CatalogConfig struct {
	Repository string   `yaml:"repository"`
	Ref        string   `yaml:"ref"`
	Path       string   `yaml:"path"`
	S3         S3Config `yaml:"s3"`
}

// S3Config holds object-store settings for catalogs and archive sources.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// OpenShiftConfig holds the target cluster settings.
type OpenShiftConfig struct {
	Kubeconfig  string `yaml:"kubeconfig"`
	ProjectMode string `yaml:"project_mode"`
	ConsoleURL  string `yaml:"console_url"`
}

// GitConfig holds the identity and transport for the initial push.
type GitConfig struct {
	Branch      string `yaml:"branch"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`

	// SSHKeyPath switches pushes to SSH. KnownHosts is required with it.
	SSHKeyPath string `yaml:"ssh_key_path"`
	KnownHosts string `yaml:"known_hosts"`
}

// StagingConfig controls where booster sources are materialized.
type StagingConfig struct {
	Root string `yaml:"root"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// Default returns a configuration built from defaults and the environment only.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Owner returns the account created repositories belong to.
func (c *Config) Owner() string {
	if c.GitHub.Organization != "" {
		return c.GitHub.Organization
	}
	return c.GitHub.Username
}

// UsesSSH reports whether pushes go over SSH instead of HTTPS token auth.
func (c *Config) UsesSSH() bool {
	return c.Git.SSHKeyPath != ""
}

func (c *Config) applyDefaults() {
	if c.Catalog.Repository == "" {
		c.Catalog.Repository = DefaultCatalogRepository
	}
	if c.Catalog.Ref == "" {
		c.Catalog.Ref = DefaultCatalogRef
	}
	if c.OpenShift.ProjectMode == "" {
		c.OpenShift.ProjectMode = ProjectModeRequest
	}
	if c.Git.Branch == "" {
		c.Git.Branch = DefaultBranch
	}
	if c.Git.AuthorName == "" {
		c.Git.AuthorName = DefaultAuthorName
	}
	if c.Git.AuthorEmail == "" {
		c.Git.AuthorEmail = DefaultAuthorEmail
	}
	if c.Staging.Root == "" {
		c.Staging.Root = filepath.Join(os.TempDir(), "missioncontrol")
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultListenAddress
	}
}
