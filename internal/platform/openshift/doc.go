// Package openshift provides the cluster operations a launch needs on top
// of client-go: creating and deleting projects, applying the generated
// build and deployment objects, and listing what was applied.
//
// OpenShift kinds (ImageStream, BuildConfig, DeploymentConfig, Route,
// Project) are handled as unstructured objects through the dynamic client,
// resolved with a fixed kind table rather than discovery. Projects are
// created through ProjectRequest on OpenShift, or as plain labeled
// namespaces on vanilla Kubernetes.
package openshift
