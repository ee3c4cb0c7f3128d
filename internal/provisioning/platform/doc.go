// Package platform implements the platform provisioner.
//
// A launch creates one OpenShift project (or a plain namespace on Kubernetes)
// and applies the objects needed to build and run the pushed booster: an
// ImageStream for the output image, a source-to-image BuildConfig reading
// the new repository, a DeploymentConfig triggered by image changes, and a
// Service and Route exposing it. Every object carries launcher labels so it
// can be listed and cleaned up later.
package platform
