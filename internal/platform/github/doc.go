// Package github wraps the GitHub REST API for the repository operations a
// launch performs: creating the repository that receives booster source,
// looking it up, and deleting it during compensation or cleanup.
//
// Errors from the API are returned as go-github errors; use [IsNotFound],
// [IsConflict], [IsUnauthorized] and [IsRateLimited] to classify them.
package github
