// Package repository implements the repository provisioner.
//
// Repositories are created through the GitHub API and populated with go-git:
// the booster source is staged into the projectile's location, committed as
// a single initial commit and pushed to the new repository. Deletion is
// idempotent and reports a missing repository as NO_SUCH_REPOSITORY.
package repository
