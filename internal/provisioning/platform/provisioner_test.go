package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	k8stesting "k8s.io/client-go/testing"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/platform/openshift"
	"github.com/imamik/missioncontrol/internal/platform/openshift/openshifttest"
	"github.com/imamik/missioncontrol/internal/provisioning"
	testutil "github.com/imamik/missioncontrol/internal/testing"
	"github.com/imamik/missioncontrol/internal/util/labels"
)

var repo = provisioning.GitRepository{
	FullName: "octo/test-project-1001",
	CloneURL: "https://github.com/octo/test-project-1001.git",
}

func newProvisioner(t *testing.T, mode string, opts ...Option) (*Provisioner, *openshifttest.Cluster) {
	t.Helper()
	cluster, err := openshifttest.NewCluster(mode)
	require.NoError(t, err)
	return NewProvisioner(cluster.Client, opts...), cluster
}

func TestCreateProjectAndApplyResources(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	obs := testutil.NewRecordingObserver()
	p, cluster := newProvisioner(t, openshift.ModeProjectRequest,
		WithConsoleURL("https://console.example.com/"),
		WithGitRef("main"),
		WithObserver(obs))

	project, err := p.CreateProject(ctx, "test-project-1001")
	require.NoError(t, err)
	assert.Equal(t, "test-project-1001", project.Name)
	assert.Equal(t, "https://console.example.com/console/project/test-project-1001/overview", project.ConsoleURL)

	applied, err := p.ApplyResources(ctx, project, repo, testutil.VertxRest())
	require.NoError(t, err)

	assert.Equal(t, []provisioning.OpenShiftResource{
		{Kind: openshift.KindImageStream, Name: "test-project-1001"},
		{Kind: openshift.KindBuildConfig, Name: "test-project-1001"},
		{Kind: openshift.KindDeploymentConfig, Name: "test-project-1001"},
		{Kind: openshift.KindService, Name: "test-project-1001"},
		{Kind: openshift.KindRoute, Name: "test-project-1001"},
	}, applied.Resources)
	assert.True(t, applied.HasResourceKind("ImageStream"))
	assert.True(t, applied.HasResourceKind("BuildConfig"))
	assert.Empty(t, project.Resources, "input project is not modified")

	bc, err := cluster.Dynamic.Resource(openshift.BuildConfigGVR).Namespace("test-project-1001").
		Get(ctx, "test-project-1001", metav1.GetOptions{})
	require.NoError(t, err)

	uri, _, _ := unstructured.NestedString(bc.Object, "spec", "source", "git", "uri")
	assert.Equal(t, repo.CloneURL, uri)
	ref, _, _ := unstructured.NestedString(bc.Object, "spec", "source", "git", "ref")
	assert.Equal(t, "main", ref)
	builder, _, _ := unstructured.NestedString(bc.Object, "spec", "strategy", "sourceStrategy", "from", "name")
	assert.Equal(t, openJDKImage, builder)
	output, _, _ := unstructured.NestedString(bc.Object, "spec", "output", "to", "name")
	assert.Equal(t, "test-project-1001:latest", output)

	assert.Equal(t, "test-project-1001", bc.GetLabels()[labels.KeyProject])
	assert.Equal(t, "vertx-rest", bc.GetLabels()[labels.KeyBooster])
	assert.Equal(t, labels.ManagedByMissionControl, bc.GetLabels()[labels.KeyManagedBy])

	listed, err := p.ListResources(ctx, "test-project-1001")
	require.NoError(t, err)
	assert.Equal(t, applied.Resources, listed)

	// Five objects. The project itself is recorded by the launch.
	assert.Len(t, obs.OfType(provisioning.EventResourceCreated), 5)
}

func TestApplyResources_BuilderImage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("metadata override", func(t *testing.T) {
		t.Parallel()
		p, cluster := newProvisioner(t, openshift.ModeProjectRequest)
		project, err := p.CreateProject(ctx, "custom")
		require.NoError(t, err)

		b := testutil.VertxRest()
		b.Metadata = map[string]string{MetadataBuilderImage: "quay.io/example/builder:1"}
		_, err = p.ApplyResources(ctx, project, repo, b)
		require.NoError(t, err)

		bc, err := cluster.Dynamic.Resource(openshift.BuildConfigGVR).Namespace("custom").
			Get(ctx, "test-project-1001", metav1.GetOptions{})
		require.NoError(t, err)
		builder, _, _ := unstructured.NestedString(bc.Object, "spec", "strategy", "sourceStrategy", "from", "name")
		assert.Equal(t, "quay.io/example/builder:1", builder)
	})

	t.Run("unknown runtime", func(t *testing.T) {
		t.Parallel()
		p, _ := newProvisioner(t, openshift.ModeProjectRequest)
		project, err := p.CreateProject(ctx, "cobol")
		require.NoError(t, err)

		b := booster.Booster{ID: "cobol-rest", Runtime: booster.Runtime{ID: "cobol"}, Source: booster.Source{GitURL: "x"}}
		_, err = p.ApplyResources(ctx, project, repo, b)
		require.Error(t, err)
		assert.ErrorIs(t, err, launcherr.ErrResourceApplyFailed)
		assert.Contains(t, err.Error(), `no builder image for runtime "cobol"`)

		listed, err := p.ListResources(ctx, "cobol")
		require.NoError(t, err)
		assert.Empty(t, listed)
	})
}

func TestApplyResources_Rejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, cluster := newProvisioner(t, openshift.ModeProjectRequest)
	cluster.Dynamic.PrependReactor("create", "buildconfigs", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("buildconfigs.build.openshift.io is forbidden")
	})

	project, err := p.CreateProject(ctx, "demo")
	require.NoError(t, err)

	_, err = p.ApplyResources(ctx, project, repo, testutil.VertxRest())
	require.Error(t, err)
	assert.ErrorIs(t, err, launcherr.ErrResourceApplyFailed)
	var lerr *launcherr.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "demo", lerr.Name)

	// The project is left for the caller to compensate.
	exists, err := p.ProjectExists(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateProject_Collision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, _ := newProvisioner(t, openshift.ModeProjectRequest)
	_, err := p.CreateProject(ctx, "demo")
	require.NoError(t, err)

	_, err = p.CreateProject(ctx, "demo")
	require.Error(t, err)
	assert.ErrorIs(t, err, launcherr.ErrProjectCreateFailed)
}

func TestDeleteProject_Idempotent(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{openshift.ModeProjectRequest, openshift.ModeNamespace} {
		t.Run(mode, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			p, _ := newProvisioner(t, mode)
			_, err := p.CreateProject(ctx, "demo")
			require.NoError(t, err)

			deleted, err := p.DeleteProject(ctx, "demo")
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = p.DeleteProject(ctx, "demo")
			assert.False(t, deleted)
			assert.ErrorIs(t, err, launcherr.ErrNoSuchProject)

			exists, err := p.ProjectExists(ctx, "demo")
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = p.ListResources(ctx, "demo")
			assert.ErrorIs(t, err, launcherr.ErrNoSuchProject)
		})
	}
}

func TestCreateProject_NamespaceModeLabels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, cluster := newProvisioner(t, openshift.ModeNamespace)
	_, err := p.CreateProject(ctx, "demo")
	require.NoError(t, err)

	ns, err := cluster.Kube.CoreV1().Namespaces().Get(ctx, "demo", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, labels.ManagedByMissionControl, ns.Labels[labels.KeyManagedBy])
	assert.Equal(t, "demo", ns.Labels[labels.KeyProject])
}

func TestBuilderImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		runtime string
		want    string
	}{
		{"vertx", openJDKImage},
		{"spring-boot", openJDKImage},
		{"thorntail", openJDKImage},
		{"wildfly-swarm", openJDKImage},
		{"nodejs", nodeJSImage},
		{"golang", goImage},
		{"python", pythonImage},
	}
	for _, tt := range tests {
		got, err := BuilderImage(booster.Booster{Runtime: booster.Runtime{ID: tt.runtime}})
		require.NoError(t, err, tt.runtime)
		assert.Equal(t, tt.want, got, tt.runtime)
	}

	_, err := BuilderImage(booster.Booster{})
	assert.Error(t, err)
}
