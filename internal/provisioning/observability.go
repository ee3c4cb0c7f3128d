package provisioning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Observer receives structured events during a launch.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Pipeline step (e.g., "repository", "project")
	Message   string            // Human-readable message
	Resource  string            // Resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventStepStarted indicates a pipeline step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a pipeline step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a pipeline step failed.
	EventStepFailed EventType = "step.failed"

	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceMissing indicates a resource to delete did not exist.
	EventResourceMissing EventType = "resource.missing"

	// EventCompensationStarted indicates rollback of completed steps has begun.
	EventCompensationStarted EventType = "compensation.started"
	// EventCompensationFailed indicates a compensating action failed.
	EventCompensationFailed EventType = "compensation.failed"
	// EventCompensationCompleted indicates every compensating action was attempted.
	EventCompensationCompleted EventType = "compensation.completed"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to logger.
func NewLogObserver(logger logr.Logger) *LogObserver {
	return &LogObserver{
		log:           logger,
		contextFields: make(map[string]string),
	}
}

// NewObserverFromContext creates an observer writing to the logger in ctx.
func NewObserverFromContext(ctx context.Context) *LogObserver {
	return NewLogObserver(log.FromContext(ctx))
}

// Event implements Observer interface.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "step", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}

	fields := mergeFields(o.contextFields, event.Fields)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}

	if isFailure(event.Type) {
		o.log.Error(nil, event.Message, kv...)
		return
	}
	o.log.Info(event.Message, kv...)
}

// WithFields implements Observer interface.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{
		log:           o.log,
		contextFields: mergeFields(o.contextFields, fields),
	}
}

func isFailure(t EventType) bool {
	return t == EventStepFailed || t == EventCompensationFailed
}

// mergeFields copies base and overlays extra.
func mergeFields(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// Helper functions for common events

// LogStepStarted logs a step start event.
func LogStepStarted(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Phase:   step,
		Message: "starting",
	})
}

// LogStepCompleted logs a step completion event.
func LogStepCompleted(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Phase:   step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Phase:   step,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleted logs a successful resource deletion event.
func LogResourceDeleted(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleted,
		Phase:    step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s deleted", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceMissing logs that a resource to delete was already gone.
func LogResourceMissing(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceMissing,
		Phase:    step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s not found, nothing to delete", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogCompensationStarted logs the start of a rollback after a failed step.
func LogCompensationStarted(observer Observer, failedStep string, actions int) {
	observer.Event(Event{
		Type:    EventCompensationStarted,
		Phase:   failedStep,
		Message: fmt.Sprintf("compensating %d completed step(s)", actions),
	})
}

// LogCompensationFailed logs a compensating action that did not succeed.
func LogCompensationFailed(observer Observer, resourceType, resourceName string, err error) {
	observer.Event(Event{
		Type:     EventCompensationFailed,
		Phase:    "compensation",
		Resource: resourceName,
		Message:  fmt.Sprintf("failed to delete %s: %v", resourceType, err),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogCompensationCompleted logs the end of a rollback.
func LogCompensationCompleted(observer Observer, failedStep string, failures int) {
	observer.Event(Event{
		Type:    EventCompensationCompleted,
		Phase:   failedStep,
		Message: fmt.Sprintf("compensation finished with %d failure(s)", failures),
	})
}
