package labels

import (
	"sort"
	"strings"
)

// Standard label keys for launched objects.
const (
	// KeyManagedBy identifies the management system
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// KeyApp is the application selector shared by the deployment and service
	KeyApp = "app"

	// KeyProject identifies the project a resource was launched into
	KeyProject = "missioncontrol.io/project"

	// KeyBooster identifies the booster a resource was generated from
	KeyBooster = "missioncontrol.io/booster"

	// KeyRuntime identifies the booster runtime
	KeyRuntime = "missioncontrol.io/runtime"

	// KeyMission identifies the booster mission
	KeyMission = "missioncontrol.io/mission"
)

// ManagedByMissionControl is the value of KeyManagedBy on launched objects.
const ManagedByMissionControl = "missioncontrol"

// LabelBuilder provides a fluent interface for building object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a builder with the project and managed-by labels set.
func NewLabelBuilder(project string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyProject:   project,
			KeyManagedBy: ManagedByMissionControl,
		},
	}
}

// WithApp sets the application selector label.
func (lb *LabelBuilder) WithApp(app string) *LabelBuilder {
	lb.labels[KeyApp] = app
	return lb
}

// WithBooster adds booster, runtime and mission labels, skipping empty values.
func (lb *LabelBuilder) WithBooster(id, runtime, mission string) *LabelBuilder {
	setIfNotEmpty(lb.labels, KeyBooster, id)
	setIfNotEmpty(lb.labels, KeyRuntime, runtime)
	setIfNotEmpty(lb.labels, KeyMission, mission)
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector renders the labels as a comma-separated selector in key order.
func (lb *LabelBuilder) Selector() string {
	keys := make([]string, 0, len(lb.labels))
	for k := range lb.labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+lb.labels[k])
	}
	return strings.Join(parts, ",")
}

// SelectorForProject selects every launcher-managed object of a project.
func SelectorForProject(project string) string {
	return NewLabelBuilder(project).Selector()
}

func setIfNotEmpty(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}
