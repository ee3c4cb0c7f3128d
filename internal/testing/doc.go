// Package testing provides test doubles, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ProjectileBuilder: Fluent builder for creating launch requests
//   - GitHost, Cluster: In-memory provisioners that keep state, so tests can
//     look repositories and projects up after a launch or a rollback
//   - MockCatalog, MockRepositoryProvisioner, MockPlatformProvisioner:
//     testify mocks for call-level expectations
//   - RecordingObserver: captures provisioning events
//
// Usage:
//
//	p := testing.NewProjectileBuilder(t).
//	    WithNames("test-project-1001").
//	    Build()
//
//	host := testing.NewGitHost("octo")
//	cluster := testing.NewCluster()
package testing
