package platform

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/imamik/missioncontrol/internal/platform/openshift"
)

// containerPort is the port every supported builder image listens on.
const containerPort int64 = 8080

// resourceSpec describes the objects applied for one application.
type resourceSpec struct {
	App          string
	Labels       map[string]string
	GitURI       string
	GitRef       string
	BuilderImage string
}

func (s resourceSpec) imageTag() string {
	return s.App + ":latest"
}

// objects returns the objects to apply, in application order.
func (s resourceSpec) objects() []*unstructured.Unstructured {
	return []*unstructured.Unstructured{
		s.imageStream(),
		s.buildConfig(),
		s.deploymentConfig(),
		s.service(),
		s.route(),
	}
}

func (s resourceSpec) newObject(apiVersion, kind string, spec map[string]any) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata":   map[string]any{"name": s.App},
		"spec":       spec,
	}}
	obj.SetLabels(s.Labels)
	return obj
}

func (s resourceSpec) imageStream() *unstructured.Unstructured {
	return s.newObject(openshift.ImageStreamGVR.GroupVersion().String(), openshift.KindImageStream, map[string]any{
		"lookupPolicy": map[string]any{"local": false},
	})
}

func (s resourceSpec) buildConfig() *unstructured.Unstructured {
	git := map[string]any{"uri": s.GitURI}
	if s.GitRef != "" {
		git["ref"] = s.GitRef
	}

	return s.newObject(openshift.BuildConfigGVR.GroupVersion().String(), openshift.KindBuildConfig, map[string]any{
		"source": map[string]any{
			"type": "Git",
			"git":  git,
		},
		"strategy": map[string]any{
			"type": "Source",
			"sourceStrategy": map[string]any{
				"from": map[string]any{
					"kind": "DockerImage",
					"name": s.BuilderImage,
				},
				"incremental": true,
			},
		},
		"output": map[string]any{
			"to": map[string]any{
				"kind": "ImageStreamTag",
				"name": s.imageTag(),
			},
		},
		"triggers": []any{
			map[string]any{"type": "ConfigChange"},
			map[string]any{"type": "ImageChange", "imageChange": map[string]any{}},
		},
	})
}

func (s resourceSpec) selector() map[string]any {
	return map[string]any{
		"app":              s.App,
		"deploymentconfig": s.App,
	}
}

func (s resourceSpec) deploymentConfig() *unstructured.Unstructured {
	podLabels := map[string]any{}
	for k, v := range s.Labels {
		podLabels[k] = v
	}
	podLabels["deploymentconfig"] = s.App

	return s.newObject(openshift.DeploymentConfigGVR.GroupVersion().String(), openshift.KindDeploymentConfig, map[string]any{
		"replicas": int64(1),
		"selector": s.selector(),
		"template": map[string]any{
			"metadata": map[string]any{"labels": podLabels},
			"spec": map[string]any{
				"containers": []any{
					map[string]any{
						"name":  s.App,
						"image": s.imageTag(),
						"ports": []any{
							map[string]any{"containerPort": containerPort, "protocol": "TCP", "name": "http"},
						},
					},
				},
			},
		},
		"triggers": []any{
			map[string]any{"type": "ConfigChange"},
			map[string]any{
				"type": "ImageChange",
				"imageChangeParams": map[string]any{
					"automatic":      true,
					"containerNames": []any{s.App},
					"from": map[string]any{
						"kind": "ImageStreamTag",
						"name": s.imageTag(),
					},
				},
			},
		},
	})
}

func (s resourceSpec) service() *unstructured.Unstructured {
	return s.newObject(openshift.ServiceGVR.GroupVersion().String(), openshift.KindService, map[string]any{
		"selector": s.selector(),
		"ports": []any{
			map[string]any{
				"name":       "http",
				"port":       containerPort,
				"targetPort": containerPort,
				"protocol":   "TCP",
			},
		},
	})
}

func (s resourceSpec) route() *unstructured.Unstructured {
	return s.newObject(openshift.RouteGVR.GroupVersion().String(), openshift.KindRoute, map[string]any{
		"to": map[string]any{
			"kind": "Service",
			"name": s.App,
		},
		"port": map[string]any{"targetPort": "http"},
	})
}
