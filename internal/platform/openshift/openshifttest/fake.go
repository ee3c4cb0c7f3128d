// Package openshifttest provides an in-memory cluster for tests of code
// built on the openshift client.
package openshifttest

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/imamik/missioncontrol/internal/platform/openshift"
)

// Cluster is a fake cluster. Dynamic exposes the fake dynamic client so
// tests can seed objects and prepend reactors that inject failures.
type Cluster struct {
	Client  *openshift.Client
	Dynamic *dynamicfake.FakeDynamicClient
	Kube    *fake.Clientset
}

// NewCluster returns a fake cluster in the given project mode. In
// projectrequest mode, creating a ProjectRequest also creates the Project,
// as the OpenShift API server does.
func NewCluster(mode string, objs ...runtime.Object) (*Cluster, error) {
	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(), openshift.ListKinds, objs...)
	kube := fake.NewSimpleClientset() //nolint:staticcheck // NewClientset requires apply configurations

	dyn.PrependReactor("create", "projectrequests", func(action k8stesting.Action) (bool, runtime.Object, error) {
		create, ok := action.(k8stesting.CreateAction)
		if !ok {
			return false, nil, nil
		}
		req, ok := create.GetObject().(*unstructured.Unstructured)
		if !ok {
			return false, nil, nil
		}
		if err := dyn.Tracker().Create(openshift.ProjectGVR, NewProject(req.GetName()), ""); err != nil {
			return true, nil, err
		}
		return false, nil, nil
	})

	client, err := openshift.NewFromClients(kube, dyn, mode)
	if err != nil {
		return nil, err
	}
	return &Cluster{Client: client, Dynamic: dyn, Kube: kube}, nil
}

// NewProject returns a Project object for seeding.
func NewProject(name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": openshift.ProjectGVR.GroupVersion().String(),
		"kind":       "Project",
		"metadata":   map[string]any{"name": name},
	}}
}
