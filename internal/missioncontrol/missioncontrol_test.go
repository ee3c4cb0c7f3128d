package missioncontrol

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/projectile"
	"github.com/imamik/missioncontrol/internal/provisioning"
	testutil "github.com/imamik/missioncontrol/internal/testing"
)

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		CatalogIndex: 10 * time.Second,
		Launch:       10 * time.Second,
		Compensation: 5 * time.Second,
	}
}

type harness struct {
	host     *testutil.GitHost
	cluster  *testutil.Cluster
	observer *testutil.RecordingObserver
	mc       *MissionControl
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		host:     testutil.NewGitHost("octo"),
		cluster:  testutil.NewCluster(),
		observer: testutil.NewRecordingObserver(),
	}
	opts = append([]Option{WithObserver(h.observer), WithTimeouts(testTimeouts())}, opts...)
	h.mc = New(testutil.NewMockCatalog(testutil.VertxRest()), h.host, h.cluster, opts...)
	return h
}

func (h *harness) deletedInOrder() []string {
	var out []string
	for _, e := range h.observer.OfType(provisioning.EventResourceDeleted) {
		out = append(out, e.Fields["type"])
	}
	return out
}

func TestLaunch_Succeeds(t *testing.T) {
	t.Parallel()
	h := newHarness()
	p := testutil.NewProjectileBuilder(t).Build()

	boom, trace, err := h.mc.LaunchTrace(testutil.TestContext(t), p)
	require.NoError(t, err)
	require.NotNil(t, boom)

	assert.Equal(t, "octo/test-project-1001", boom.Repository.FullName)
	assert.Equal(t, "test-project-1001", boom.Project.Name)
	assert.True(t, boom.Project.HasResourceKind("ImageStream"))
	assert.True(t, boom.Project.HasResourceKind("BuildConfig"))
	assert.True(t, h.host.Pushed("octo/test-project-1001"))

	assert.Equal(t, Trace{
		StateStart,
		StateRepoPending,
		StateRepoCreated,
		StateCodePushed,
		StateProjectCreated,
		StateResourcesApplied,
		StateSucceeded,
	}, trace)
	assert.Empty(t, h.observer.OfType(provisioning.EventCompensationStarted))
	assert.Len(t, h.observer.OfType(provisioning.EventResourceCreated), 2)
}

func TestLaunch_UnknownBoosterCreatesNothing(t *testing.T) {
	t.Parallel()

	catalog := testutil.NewMockCatalog(testutil.VertxRest())
	catalog.On("Resolve", "nodejs-crud").
		Return(booster.Booster{}, launcherr.Newf(launcherr.CodeTemplateNotFound, "nodejs-crud", "booster %q is not in the catalog", "nodejs-crud"))
	host := testutil.NewGitHost("octo")
	cluster := testutil.NewCluster()
	mc := New(catalog, host, cluster, WithTimeouts(testTimeouts()))

	b := testutil.VertxRest()
	b.ID = "nodejs-crud"
	p := testutil.NewProjectileBuilder(t).WithBooster(b).Build()

	boom, trace, err := mc.LaunchTrace(testutil.TestContext(t), p)
	assert.Nil(t, boom)
	assert.ErrorIs(t, err, launcherr.ErrTemplateNotFound)
	assert.Equal(t, Trace{StateStart, StateFailed}, trace)

	creates, pushes, _ := host.Calls()
	projects, applies, _ := cluster.Calls()
	assert.Zero(t, creates)
	assert.Zero(t, pushes)
	assert.Zero(t, projects)
	assert.Zero(t, applies)
}

func TestLaunch_CatalogUnavailable(t *testing.T) {
	t.Parallel()

	catalog := &testutil.MockCatalog{}
	catalog.On("WaitForIndex", mock.Anything).Return(errors.New("clone failed"))
	host := testutil.NewGitHost("octo")
	mc := New(catalog, host, testutil.NewCluster(), WithTimeouts(testTimeouts()))

	_, err := mc.Launch(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Build())
	assert.ErrorIs(t, err, launcherr.ErrTemplateNotFound)
	assert.ErrorContains(t, err, "clone failed")

	creates, _, _ := host.Calls()
	assert.Zero(t, creates)
}

func TestLaunch_InvalidProjectileCreatesNothing(t *testing.T) {
	t.Parallel()
	h := newHarness()
	p := testutil.NewProjectileBuilder(t).WithRepositoryName("Not_Valid").WithProjectName("").Build()

	_, err := h.mc.Launch(testutil.TestContext(t), p)
	require.ErrorIs(t, err, launcherr.ErrInvalidProjectile)

	var fieldErrs projectile.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)

	creates, _, _ := h.host.Calls()
	assert.Zero(t, creates)
}

func TestLaunch_RepositoryCreateFailureNeedsNoCompensation(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.host.FailCreate(errors.New("quota exceeded"))

	_, trace, err := h.mc.LaunchTrace(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrRepositoryCreateFailed)
	assert.Equal(t, Trace{StateStart, StateRepoPending, StateFailed}, trace)

	_, _, deletes := h.host.Calls()
	assert.Zero(t, deletes)
	assert.Empty(t, h.observer.OfType(provisioning.EventCompensationStarted))
}

func TestLaunch_PushFailureDeletesRepository(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.host.FailPush(errors.New("remote hung up"))
	ctx := testutil.TestContext(t)

	_, trace, err := h.mc.LaunchTrace(ctx, testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrPushFailed)
	assert.Equal(t, Trace{StateStart, StateRepoPending, StateRepoCreated, StateFailed}, trace)

	exists, err := h.host.RepositoryExists(ctx, "octo/test-project-1001")
	require.NoError(t, err)
	assert.False(t, exists)

	projects, _, _ := h.cluster.Calls()
	assert.Zero(t, projects)
	assert.Equal(t, []string{"repository"}, h.deletedInOrder())
}

func TestLaunch_ProjectCreateFailureDeletesRepository(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.cluster.FailCreate(errors.New("project quota reached"))
	ctx := testutil.TestContext(t)

	_, err := h.mc.Launch(ctx, testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrProjectCreateFailed)

	exists, _ := h.host.RepositoryExists(ctx, "octo/test-project-1001")
	assert.False(t, exists)
	assert.Equal(t, []string{"repository"}, h.deletedInOrder())
}

func TestLaunch_ApplyFailureDeletesProjectThenRepository(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.cluster.FailApply(errors.New("admission webhook denied the request"))
	ctx := testutil.TestContext(t)

	boom, trace, err := h.mc.LaunchTrace(ctx, testutil.NewProjectileBuilder(t).Build())
	assert.Nil(t, boom)
	require.ErrorIs(t, err, launcherr.ErrResourceApplyFailed)
	assert.Equal(t, StateFailed, trace.Last())
	assert.True(t, trace.Reached(StateProjectCreated))
	assert.False(t, trace.Reached(StateResourcesApplied))

	repoExists, _ := h.host.RepositoryExists(ctx, "octo/test-project-1001")
	projectExists, _ := h.cluster.ProjectExists(ctx, "test-project-1001")
	assert.False(t, repoExists)
	assert.False(t, projectExists)

	assert.Equal(t, []string{"project", "repository"}, h.deletedInOrder())

	var lerr *launcherr.Error
	require.ErrorAs(t, err, &lerr)
	assert.False(t, lerr.CompensationIncomplete())
}

func TestLaunch_CompensationFailureDoesNotStopRemainingActions(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.cluster.FailApply(errors.New("forbidden"))
	h.cluster.FailDelete(errors.New("etcd timeout"))
	ctx := testutil.TestContext(t)

	_, err := h.mc.Launch(ctx, testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrResourceApplyFailed)
	assert.Contains(t, err.Error(), "forbidden")

	var lerr *launcherr.Error
	require.ErrorAs(t, err, &lerr)
	require.Len(t, lerr.Compensation, 1)
	assert.ErrorContains(t, lerr.Compensation[0], "etcd timeout")

	// The repository is still removed after the project delete failed.
	repoExists, _ := h.host.RepositoryExists(ctx, "octo/test-project-1001")
	assert.False(t, repoExists)
	_, _, deletes := h.host.Calls()
	assert.Equal(t, 1, deletes)

	assert.Len(t, h.observer.OfType(provisioning.EventCompensationFailed), 1)
	completed := h.observer.OfType(provisioning.EventCompensationCompleted)
	require.Len(t, completed, 1)
	assert.Contains(t, completed[0].Message, "1 failure(s)")
}

func TestLaunch_MissingResourceDuringCompensationIsNothingToDo(t *testing.T) {
	t.Parallel()

	repo := provisioning.GitRepository{FullName: "octo/test-project-1001"}
	repos := &testutil.MockRepositoryProvisioner{}
	repos.On("CreateRepository", mock.Anything, mock.Anything).Return(repo, nil)
	repos.On("PushSource", mock.Anything, repo, mock.Anything).Return(errors.New("rejected"))
	repos.On("DeleteRepository", mock.Anything, repo.FullName).
		Return(false, launcherr.New(launcherr.CodeNoSuchRepository, repo.FullName, nil)).Once()
	observer := testutil.NewRecordingObserver()

	mc := New(testutil.NewMockCatalog(testutil.VertxRest()), repos, &testutil.MockPlatformProvisioner{},
		WithObserver(observer), WithTimeouts(testTimeouts()))

	_, err := mc.Launch(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrPushFailed)
	assert.NotErrorIs(t, err, launcherr.ErrNoSuchRepository)

	var lerr *launcherr.Error
	require.ErrorAs(t, err, &lerr)
	assert.Empty(t, lerr.Compensation)
	assert.False(t, lerr.CompensationIncomplete())

	assert.Len(t, observer.OfType(provisioning.EventResourceMissing), 1)
	assert.Empty(t, observer.OfType(provisioning.EventCompensationFailed))
	completed := observer.OfType(provisioning.EventCompensationCompleted)
	require.Len(t, completed, 1)
	assert.Contains(t, completed[0].Message, "0 failure(s)")
	repos.AssertExpectations(t)
}

func TestLaunch_ForeignCodesTakeTheFailingStepCode(t *testing.T) {
	t.Parallel()

	repo := provisioning.GitRepository{FullName: "octo/test-project-1001"}
	project := provisioning.OpenShiftProject{Name: "test-project-1001"}
	vanished := launcherr.New(launcherr.CodeNoSuchProject, project.Name, nil)

	repos := &testutil.MockRepositoryProvisioner{}
	repos.On("CreateRepository", mock.Anything, mock.Anything).Return(repo, nil)
	repos.On("PushSource", mock.Anything, repo, mock.Anything).Return(nil)
	repos.On("DeleteRepository", mock.Anything, repo.FullName).Return(true, nil)

	platform := &testutil.MockPlatformProvisioner{}
	platform.On("CreateProject", mock.Anything, project.Name).Return(project, nil)
	platform.On("ApplyResources", mock.Anything, project, repo, mock.Anything).
		Return(provisioning.OpenShiftProject{}, vanished)
	platform.On("DeleteProject", mock.Anything, project.Name).Return(false, vanished)

	mc := New(testutil.NewMockCatalog(testutil.VertxRest()), repos, platform, WithTimeouts(testTimeouts()))

	_, err := mc.Launch(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrResourceApplyFailed)
	assert.Equal(t, launcherr.CodeResourceApplyFailed, launcherr.CodeOf(err))
	assert.False(t, launcherr.IsNotFound(err))
	assert.Equal(t, "RESOURCE_APPLY_FAILED test-project-1001: NO_SUCH_PROJECT test-project-1001", err.Error())

	var lerr *launcherr.Error
	require.ErrorAs(t, err, &lerr)
	assert.False(t, lerr.CompensationIncomplete())
	repos.AssertExpectations(t)
	platform.AssertExpectations(t)
}

func TestLaunch_WrapsUntypedProvisionerErrors(t *testing.T) {
	t.Parallel()

	repos := &testutil.MockRepositoryProvisioner{}
	repos.On("CreateRepository", mock.Anything, mock.Anything).
		Return(provisioning.GitRepository{}, errors.New("connection refused"))

	mc := New(testutil.NewMockCatalog(testutil.VertxRest()), repos, &testutil.MockPlatformProvisioner{},
		WithTimeouts(testTimeouts()))

	_, err := mc.Launch(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrRepositoryCreateFailed)
	assert.Equal(t, "REPOSITORY_CREATE_FAILED test-project-1001: connection refused", err.Error())
}

func TestLaunch_CancellationAbortsNextStepAndStillCompensates(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(testutil.TestContext(t))
	defer cancel()

	repo := provisioning.GitRepository{FullName: "octo/test-project-1001"}
	repos := &testutil.MockRepositoryProvisioner{}
	repos.On("CreateRepository", mock.Anything, mock.Anything).Return(repo, nil)
	repos.On("PushSource", mock.Anything, repo, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)
	repos.On("DeleteRepository", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), repo.FullName).Return(true, nil)
	platform := &testutil.MockPlatformProvisioner{}

	mc := New(testutil.NewMockCatalog(testutil.VertxRest()), repos, platform, WithTimeouts(testTimeouts()))

	_, trace, err := mc.LaunchTrace(ctx, testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrProjectCreateFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, trace.Reached(StateCodePushed))

	platform.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything)
	repos.AssertCalled(t, "DeleteRepository", mock.Anything, repo.FullName)
}

func TestLaunch_SharedErrorValuesAreNotModified(t *testing.T) {
	t.Parallel()

	repo := provisioning.GitRepository{FullName: "octo/test-project-1001"}
	repos := &testutil.MockRepositoryProvisioner{}
	repos.On("CreateRepository", mock.Anything, mock.Anything).Return(repo, nil)
	repos.On("PushSource", mock.Anything, repo, mock.Anything).Return(launcherr.ErrPushFailed)
	repos.On("DeleteRepository", mock.Anything, repo.FullName).Return(false, errors.New("server error"))

	mc := New(testutil.NewMockCatalog(testutil.VertxRest()), repos, &testutil.MockPlatformProvisioner{},
		WithTimeouts(testTimeouts()))

	_, err := mc.Launch(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Build())
	require.ErrorIs(t, err, launcherr.ErrPushFailed)

	var lerr *launcherr.Error
	require.ErrorAs(t, err, &lerr)
	assert.Len(t, lerr.Compensation, 1)
	assert.Empty(t, launcherr.ErrPushFailed.Compensation)
}

func TestLaunch_ConcurrentLaunchesAreIndependent(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := testutil.TestContext(t)
	base := testutil.NewProjectileBuilder(t)

	names := []string{"alpha", "bravo", "charlie", "delta"}
	errs := make(chan error, len(names))
	for _, name := range names {
		p := base.WithNames(name).WithLocation(t.TempDir()).Build()
		go func() {
			_, err := h.mc.Launch(ctx, p)
			errs <- err
		}()
	}
	for range names {
		assert.NoError(t, <-errs)
	}

	for _, name := range names {
		exists, _ := h.cluster.ProjectExists(ctx, name)
		assert.True(t, exists, name)
	}
}

func TestLaunchFromContext(t *testing.T) {
	t.Parallel()

	t.Run("resolves and launches", func(t *testing.T) {
		t.Parallel()
		h := newHarness()

		boom, err := h.mc.LaunchFromContext(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Context())
		require.NoError(t, err)
		assert.Equal(t, "test-project-1001", boom.Project.Name)
	})

	t.Run("unknown booster", func(t *testing.T) {
		t.Parallel()
		catalog := testutil.NewMockCatalog()
		catalog.On("Resolve", "vertx-rest").
			Return(booster.Booster{}, errors.New("not indexed"))
		host := testutil.NewGitHost("octo")
		mc := New(catalog, host, testutil.NewCluster(), WithTimeouts(testTimeouts()))

		_, err := mc.LaunchFromContext(testutil.TestContext(t), testutil.NewProjectileBuilder(t).Context())
		assert.ErrorIs(t, err, launcherr.ErrTemplateNotFound)

		creates, _, _ := host.Calls()
		assert.Zero(t, creates)
	})
}

func TestBoosters(t *testing.T) {
	t.Parallel()
	h := newHarness()

	got, err := h.mc.Boosters(testutil.TestContext(t))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "vertx-rest", got[0].ID)
}

func TestTrace(t *testing.T) {
	t.Parallel()

	var empty Trace
	assert.Equal(t, StateStart, empty.Last())

	trace := Trace{StateStart, StateRepoPending, StateFailed}
	assert.Equal(t, "START -> REPO_CREATED_PENDING -> FAILED", trace.String())
	assert.True(t, trace.Last().Terminal())
	assert.False(t, StateCodePushed.Terminal())
}
