// Package booster models launchable application templates ("boosters") and
// the catalog they are resolved from.
//
// A [Catalog] is populated exactly once from a [Loader] (a local directory,
// a git repository or an S3 bucket of booster.yaml files). Callers that need
// the index block in [Catalog.WaitForIndex]; every concurrent waiter is
// released by the same completion signal. A [Stager] materializes a
// booster's source into a working directory before it is pushed.
package booster
