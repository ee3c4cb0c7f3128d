// Package async provides utilities for parallel task execution with
// error collection.
//
// [RunParallel] executes independent operations concurrently and either
// returns the first failure or all of them. Cleanup uses it to delete
// repositories and projects side by side.
package async
