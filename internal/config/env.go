package config

import "os"

// Environment variables that override file values.
const (
	EnvGitHubToken        = "LAUNCHER_MISSIONCONTROL_GITHUB_TOKEN"
	EnvGitHubUsername     = "LAUNCHER_MISSIONCONTROL_GITHUB_USERNAME"
	EnvGitHubOrganization = "LAUNCHER_MISSIONCONTROL_GITHUB_ORGANIZATION"
	EnvGitHubBaseURL      = "LAUNCHER_MISSIONCONTROL_GITHUB_API_URL"
	EnvCatalogRepository  = "LAUNCHER_BOOSTER_CATALOG_REPOSITORY"
	EnvCatalogRef         = "LAUNCHER_BOOSTER_CATALOG_REF"
	EnvCatalogPath        = "LAUNCHER_BOOSTER_CATALOG_PATH"
	EnvCatalogS3Bucket    = "LAUNCHER_CATALOG_S3_BUCKET"
	EnvCatalogS3Prefix    = "LAUNCHER_CATALOG_S3_PREFIX"
	EnvCatalogS3Region    = "LAUNCHER_CATALOG_S3_REGION"
	EnvCatalogS3Endpoint  = "LAUNCHER_CATALOG_S3_ENDPOINT"
	EnvCatalogS3AccessKey = "LAUNCHER_CATALOG_S3_ACCESS_KEY"
	EnvCatalogS3SecretKey = "LAUNCHER_CATALOG_S3_SECRET_KEY"
	EnvKubeconfig         = "KUBECONFIG"
	EnvProjectMode        = "LAUNCHER_MISSIONCONTROL_PROJECT_MODE"
	EnvConsoleURL         = "LAUNCHER_MISSIONCONTROL_OPENSHIFT_CONSOLE_URL"
	EnvStagingRoot        = "LAUNCHER_MISSIONCONTROL_STAGING_ROOT"
)

func (c *Config) applyEnv() {
	override(&c.GitHub.Token, EnvGitHubToken)
	override(&c.GitHub.Username, EnvGitHubUsername)
	override(&c.GitHub.Organization, EnvGitHubOrganization)
	override(&c.GitHub.BaseURL, EnvGitHubBaseURL)
	override(&c.Catalog.Repository, EnvCatalogRepository)
	override(&c.Catalog.Ref, EnvCatalogRef)
	override(&c.Catalog.Path, EnvCatalogPath)
	override(&c.Catalog.S3.Bucket, EnvCatalogS3Bucket)
	override(&c.Catalog.S3.Prefix, EnvCatalogS3Prefix)
	override(&c.Catalog.S3.Region, EnvCatalogS3Region)
	override(&c.Catalog.S3.Endpoint, EnvCatalogS3Endpoint)
	override(&c.Catalog.S3.AccessKey, EnvCatalogS3AccessKey)
	override(&c.Catalog.S3.SecretKey, EnvCatalogS3SecretKey)
	override(&c.OpenShift.Kubeconfig, EnvKubeconfig)
	override(&c.OpenShift.ProjectMode, EnvProjectMode)
	override(&c.OpenShift.ConsoleURL, EnvConsoleURL)
	override(&c.Staging.Root, EnvStagingRoot)
}

// override replaces *dst with the variable's value when it is set and non-empty.
func override(dst *string, envVar string) {
	if val := os.Getenv(envVar); val != "" {
		*dst = val
	}
}
