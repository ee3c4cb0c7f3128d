// Package destroy handles teardown of launched repositories and projects.
//
// Cleanup tooling and tests hand it the names of repositories and projects
// created by earlier launches. Every target is deleted in parallel. Targets
// that are already gone are reported as missing, not as failures.
package destroy
