// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, delays and a retryability predicate. It is used for GitHub API
// deletes and for pushes to repositories that are not yet visible.
package retry
