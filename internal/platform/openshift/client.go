package openshift

import (
	"context"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// Project modes.
const (
	ModeProjectRequest = "projectrequest"
	ModeNamespace      = "namespace"
)

// Resource identifies an object inside a project.
type Resource struct {
	Kind string
	Name string
}

// Client performs project and resource operations against one cluster.
type Client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mode          string
}

// NewFromKubeconfig creates a Client from a kubeconfig file. An empty path
// uses the default loading rules (KUBECONFIG, then ~/.kube/config, then
// in-cluster).
func NewFromKubeconfig(path, mode string) (*Client, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return NewFromClients(clientset, dynamicClient, mode)
}

// NewFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(clientset kubernetes.Interface, dynamicClient dynamic.Interface, mode string) (*Client, error) {
	switch mode {
	case "":
		mode = ModeProjectRequest
	case ModeProjectRequest, ModeNamespace:
	default:
		return nil, fmt.Errorf("unknown project mode %q", mode)
	}

	return &Client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mode:          mode,
	}, nil
}

// Mode returns the project mode.
func (c *Client) Mode() string {
	return c.mode
}

// CreateProject creates a project. Labels are applied in namespace mode
// only; a ProjectRequest cannot carry them.
func (c *Client) CreateProject(ctx context.Context, name, displayName string, labels map[string]string) error {
	if c.mode == ModeNamespace {
		ns := &corev1.Namespace{
			ObjectMeta: metav1.ObjectMeta{
				Name:        name,
				Labels:      labels,
				Annotations: map[string]string{"openshift.io/display-name": displayName},
			},
		}
		if _, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create namespace %s: %w", name, err)
		}
		return nil
	}

	req := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion":  ProjectRequestGVR.GroupVersion().String(),
		"kind":        "ProjectRequest",
		"metadata":    map[string]any{"name": name},
		"displayName": displayName,
	}}
	if _, err := c.dynamicClient.Resource(ProjectRequestGVR).Create(ctx, req, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("failed to request project %s: %w", name, err)
	}
	return nil
}

// ProjectExists checks whether a project exists.
func (c *Client) ProjectExists(ctx context.Context, name string) (bool, error) {
	var err error
	if c.mode == ModeNamespace {
		_, err = c.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	} else {
		_, err = c.dynamicClient.Resource(ProjectGVR).Get(ctx, name, metav1.GetOptions{})
	}

	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get project %s: %w", name, err)
	}
	return true, nil
}

// DeleteProject deletes a project. It returns false without error when the
// project does not exist.
func (c *Client) DeleteProject(ctx context.Context, name string) (bool, error) {
	var err error
	if c.mode == ModeNamespace {
		err = c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	} else {
		err = c.dynamicClient.Resource(ProjectGVR).Delete(ctx, name, metav1.DeleteOptions{})
	}

	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete project %s: %w", name, err)
	}
	return true, nil
}

// Apply creates each object in namespace in order, replacing objects that
// already exist. It stops at the first failure.
func (c *Client) Apply(ctx context.Context, namespace string, objs []*unstructured.Unstructured) error {
	for _, obj := range objs {
		if err := c.applyObject(ctx, namespace, obj); err != nil {
			return fmt.Errorf("failed to apply %s %s/%s: %w", obj.GetKind(), namespace, obj.GetName(), err)
		}
	}
	return nil
}

func (c *Client) applyObject(ctx context.Context, namespace string, obj *unstructured.Unstructured) error {
	kind := obj.GetKind()
	if kind == "" {
		return fmt.Errorf("object has no kind set")
	}
	gvr, ok := ResourceForKind(kind)
	if !ok {
		return fmt.Errorf("unsupported kind %s", kind)
	}

	obj.SetNamespace(namespace)
	ri := c.dynamicClient.Resource(gvr).Namespace(namespace)

	_, err := ri.Create(ctx, obj, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		return err
	}

	existing, err := ri.Get(ctx, obj.GetName(), metav1.GetOptions{})
	if err != nil {
		return err
	}
	obj.SetResourceVersion(existing.GetResourceVersion())
	_, err = ri.Update(ctx, obj, metav1.UpdateOptions{})
	return err
}

// List returns the objects of every applied kind in namespace matching
// selector, in kind order and then by name.
func (c *Client) List(ctx context.Context, namespace, selector string) ([]Resource, error) {
	var out []Resource
	for _, kind := range KindOrder {
		gvr := kindResources[kind]
		list, err := c.dynamicClient.Resource(gvr).Namespace(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
		if err != nil {
			if apierrors.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to list %s in %s: %w", kind, namespace, err)
		}
		for _, item := range list.Items {
			out = append(out, Resource{Kind: kind, Name: item.GetName()})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := kindRank(out[i].Kind), kindRank(out[j].Kind)
		if ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
