package missioncontrol

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/missioncontrol/internal/launcherr"
)

// Metric label values.
const (
	resultSucceeded = "succeeded"
	resultFailed    = "failed"

	resultDeleted = "deleted"
	resultMissing = "missing"
)

var (
	// Launch metrics
	launchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "missioncontrol",
			Name:      "launch_total",
			Help:      "Total number of launches by result and error code",
		},
		[]string{"result", "code"},
	)

	launchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "missioncontrol",
			Name:      "launch_duration_seconds",
			Help:      "Duration of launches in seconds, compensation included",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 500ms to ~4min
		},
		[]string{"result"},
	)

	// Compensation metrics
	compensationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "missioncontrol",
			Name:      "compensation_total",
			Help:      "Total number of compensating deletes by resource and result",
		},
		[]string{"resource", "result"},
	)
)

func init() {
	// Register metrics with controller-runtime's registry
	metrics.Registry.MustRegister(
		launchTotal,
		launchDuration,
		compensationTotal,
	)
}

// recordLaunchMetric records a finished launch.
func recordLaunchMetric(result string, code launcherr.Code, duration float64) {
	launchTotal.WithLabelValues(result, string(code)).Inc()
	launchDuration.WithLabelValues(result).Observe(duration)
}

// recordCompensationMetric records one compensating delete.
func recordCompensationMetric(resource, result string) {
	compensationTotal.WithLabelValues(resource, result).Inc()
}

func (m *MissionControl) recordLaunch(err error, duration float64) {
	if !m.enableMetrics {
		return
	}
	if err != nil {
		recordLaunchMetric(resultFailed, launcherr.CodeOf(err), duration)
		return
	}
	recordLaunchMetric(resultSucceeded, "", duration)
}

func (m *MissionControl) recordCompensation(resource, result string) {
	if m.enableMetrics {
		recordCompensationMetric(resource, result)
	}
}
