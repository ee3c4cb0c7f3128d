// Package provisioning provides shared types and interfaces for launching boosters.
//
// The provisioning domain is organized into focused subpackages:
//   - repository/: source-control repository creation, population and deletion
//   - platform/: OpenShift project creation, resource application and deletion
//   - destroy/: teardown of previously launched repositories and projects
//
// This root package contains the handles passed between pipeline steps, the
// provisioner contracts the launch orchestrator consumes, and the structured
// event model used to report progress.
package provisioning
