// Package labels provides consistent labeling for launched OpenShift objects.
//
// Every object the launcher applies carries the managed-by label plus the
// project, booster and application keys, so cleanup tooling and
// ListResources can select exactly what a launch created.
package labels
