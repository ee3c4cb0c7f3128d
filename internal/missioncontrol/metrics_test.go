package missioncontrol

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/missioncontrol/internal/launcherr"
	mctest "github.com/imamik/missioncontrol/internal/testing"
)

func TestRecordLaunchMetric(t *testing.T) {
	// Reset metrics for testing
	launchTotal.Reset()
	launchDuration.Reset()

	recordLaunchMetric(resultSucceeded, "", 12.5)

	counter, err := launchTotal.GetMetricWithLabelValues(resultSucceeded, "")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	recordLaunchMetric(resultFailed, launcherr.CodePushFailed, 3)

	failed, err := launchTotal.GetMetricWithLabelValues(resultFailed, "PUSH_FAILED")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(failed))

	_, err = launchDuration.GetMetricWithLabelValues(resultFailed)
	assert.NoError(t, err)
}

func TestRecordCompensationMetric(t *testing.T) {
	// Reset metrics for testing
	compensationTotal.Reset()

	recordCompensationMetric(resourceProject, resultDeleted)
	recordCompensationMetric(resourceProject, resultDeleted)
	recordCompensationMetric(resourceRepository, resultMissing)

	deleted, err := compensationTotal.GetMetricWithLabelValues("project", "deleted")
	assert.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(deleted))

	missing, err := compensationTotal.GetMetricWithLabelValues("repository", "missing")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(missing))
}

func TestLaunch_RecordsMetricsWhenEnabled(t *testing.T) {
	launchTotal.Reset()
	compensationTotal.Reset()

	h := newHarness(WithMetrics(true))
	h.cluster.FailApply(errors.New("forbidden"))

	_, err := h.mc.Launch(mctest.TestContext(t), mctest.NewProjectileBuilder(t).Build())
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(launchTotal.WithLabelValues("failed", "RESOURCE_APPLY_FAILED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(compensationTotal.WithLabelValues("project", "deleted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(compensationTotal.WithLabelValues("repository", "deleted")))
}

func TestLaunch_SkipsMetricsWhenDisabled(t *testing.T) {
	launchTotal.Reset()

	h := newHarness(WithMetrics(false))
	_, err := h.mc.Launch(mctest.TestContext(t), mctest.NewProjectileBuilder(t).Build())
	require.NoError(t, err)

	assert.Equal(t, 0, testutil.CollectAndCount(launchTotal))
}
