package missioncontrol_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/config"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/missioncontrol"
	"github.com/imamik/missioncontrol/internal/projectile"
	testutil "github.com/imamik/missioncontrol/internal/testing"
)

var _ = Describe("Launching a booster", func() {
	const (
		owner       = "octo"
		projectName = "test-project-1001"
	)

	var (
		ctx     context.Context
		catalog *booster.Catalog
		host    *testutil.GitHost
		cluster *testutil.Cluster
		mc      *missioncontrol.MissionControl
		request projectile.CreateProjectileContext
	)

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		DeferCleanup(cancel)

		catalog = booster.NewCatalog(booster.LoaderFunc(func(context.Context) ([]booster.Booster, error) {
			return []booster.Booster{testutil.VertxRest()}, nil
		}))
		host = testutil.NewGitHost(owner)
		cluster = testutil.NewCluster()
		mc = missioncontrol.New(catalog, host, cluster, missioncontrol.WithTimeouts(&config.Timeouts{
			Launch:       10 * time.Second,
			Compensation: 5 * time.Second,
		}))

		request = projectile.CreateProjectileContext{
			GitRepositoryName:    projectName,
			OpenShiftProjectName: projectName,
			BoosterID:            "vertx-rest",
			ProjectLocation:      filepath.Join(GinkgoT().TempDir(), projectName),
		}
	})

	Context("with working provisioners", func() {
		It("returns a Boom holding the repository and the project", func() {
			Expect(catalog.WaitForIndex(ctx)).To(Succeed())

			boom, err := mc.LaunchFromContext(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(boom).NotTo(BeNil())

			Expect(boom.Repository.FullName).To(HaveSuffix("/" + projectName))
			Expect(boom.Project.Name).To(Equal(projectName))

			kinds := make([]string, 0, len(boom.Project.Resources))
			for _, r := range boom.Project.Resources {
				kinds = append(kinds, r.Kind)
			}
			Expect(kinds).To(ContainElements("ImageStream", "BuildConfig"))
		})

		It("leaves resources that can be deleted exactly once", func() {
			boom, err := mc.LaunchFromContext(ctx, request)
			Expect(err).NotTo(HaveOccurred())

			deleted, err := host.DeleteRepository(ctx, boom.Repository.FullName)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())

			deleted, err = host.DeleteRepository(ctx, boom.Repository.FullName)
			Expect(deleted).To(BeFalse())
			Expect(launcherr.IsNotFound(err)).To(BeTrue())

			deleted, err = cluster.DeleteProject(ctx, boom.Project.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())

			deleted, err = cluster.DeleteProject(ctx, boom.Project.Name)
			Expect(deleted).To(BeFalse())
			Expect(err).To(MatchError(launcherr.ErrNoSuchProject))
		})
	})

	Context("when resource application fails", func() {
		BeforeEach(func() {
			cluster.FailApply(errors.New("builds are disabled on this cluster"))
		})

		It("fails with RESOURCE_APPLY_FAILED and leaves nothing behind", func() {
			boom, err := mc.LaunchFromContext(ctx, request)
			Expect(boom).To(BeNil())
			Expect(err).To(MatchError(launcherr.ErrResourceApplyFailed))

			_, err = cluster.ListResources(ctx, projectName)
			Expect(err).To(MatchError(launcherr.ErrNoSuchProject))

			_, err = host.DeleteRepository(ctx, owner+"/"+projectName)
			Expect(err).To(MatchError(launcherr.ErrNoSuchRepository))
		})
	})

	Context("when the push fails", func() {
		BeforeEach(func() {
			host.FailPush(errors.New("remote end hung up unexpectedly"))
		})

		It("deletes the created repository", func() {
			_, err := mc.LaunchFromContext(ctx, request)
			Expect(err).To(MatchError(launcherr.ErrPushFailed))

			exists, err := host.RepositoryExists(ctx, owner+"/"+projectName)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Context("with an unknown booster", func() {
		It("fails with TEMPLATE_NOT_FOUND before creating anything", func() {
			request.BoosterID = "no-such-booster"

			_, err := mc.LaunchFromContext(ctx, request)
			Expect(err).To(MatchError(launcherr.ErrTemplateNotFound))

			repoCreates, pushes, _ := host.Calls()
			projectCreates, applies, _ := cluster.Calls()
			Expect(repoCreates + pushes + projectCreates + applies).To(BeZero())
		})
	})

	Context("while the catalog is indexing", func() {
		It("releases every waiter together and answers later calls at once", func() {
			release := make(chan struct{})
			slow := booster.NewCatalog(booster.LoaderFunc(func(context.Context) ([]booster.Booster, error) {
				<-release
				return []booster.Booster{testutil.VertxRest()}, nil
			}))

			const waiters = 5
			var wg sync.WaitGroup
			done := make(chan error, waiters)
			for range waiters {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					done <- slow.WaitForIndex(ctx)
				}()
			}

			Consistently(done, 100*time.Millisecond).ShouldNot(Receive())

			close(release)
			wg.Wait()
			close(done)
			for err := range done {
				Expect(err).NotTo(HaveOccurred())
			}

			start := time.Now()
			Expect(slow.WaitForIndex(ctx)).To(Succeed())
			Expect(time.Since(start)).To(BeNumerically("<", 50*time.Millisecond))
			Expect(slow.Boosters()).To(HaveLen(1))
		})
	})
})
