package openshift

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Kinds applied by a launch.
const (
	KindImageStream      = "ImageStream"
	KindBuildConfig      = "BuildConfig"
	KindDeploymentConfig = "DeploymentConfig"
	KindService          = "Service"
	KindRoute            = "Route"
)

var (
	ImageStreamGVR      = schema.GroupVersionResource{Group: "image.openshift.io", Version: "v1", Resource: "imagestreams"}
	BuildConfigGVR      = schema.GroupVersionResource{Group: "build.openshift.io", Version: "v1", Resource: "buildconfigs"}
	DeploymentConfigGVR = schema.GroupVersionResource{Group: "apps.openshift.io", Version: "v1", Resource: "deploymentconfigs"}
	RouteGVR            = schema.GroupVersionResource{Group: "route.openshift.io", Version: "v1", Resource: "routes"}
	ServiceGVR          = schema.GroupVersionResource{Version: "v1", Resource: "services"}
	ProjectGVR          = schema.GroupVersionResource{Group: "project.openshift.io", Version: "v1", Resource: "projects"}
	ProjectRequestGVR   = schema.GroupVersionResource{Group: "project.openshift.io", Version: "v1", Resource: "projectrequests"}
)

// KindOrder is the order resources are applied and listed in.
var KindOrder = []string{
	KindImageStream,
	KindBuildConfig,
	KindDeploymentConfig,
	KindService,
	KindRoute,
}

var kindResources = map[string]schema.GroupVersionResource{
	KindImageStream:      ImageStreamGVR,
	KindBuildConfig:      BuildConfigGVR,
	KindDeploymentConfig: DeploymentConfigGVR,
	KindService:          ServiceGVR,
	KindRoute:            RouteGVR,
}

// ListKinds maps each applied resource to its list kind. Fake dynamic
// clients need it to serve List calls.
var ListKinds = map[schema.GroupVersionResource]string{
	ImageStreamGVR:      "ImageStreamList",
	BuildConfigGVR:      "BuildConfigList",
	DeploymentConfigGVR: "DeploymentConfigList",
	ServiceGVR:          "ServiceList",
	RouteGVR:            "RouteList",
	ProjectGVR:          "ProjectList",
	ProjectRequestGVR:   "ProjectRequestList",
}

// ResourceForKind returns the resource serving kind.
func ResourceForKind(kind string) (schema.GroupVersionResource, bool) {
	gvr, ok := kindResources[kind]
	return gvr, ok
}

func kindRank(kind string) int {
	for i, k := range KindOrder {
		if k == kind {
			return i
		}
	}
	return len(KindOrder)
}
