package testing

import (
	"sync"

	"github.com/imamik/missioncontrol/internal/provisioning"
)

// RecordingObserver records provisioning events. It is safe for concurrent use.
type RecordingObserver struct {
	mu     *sync.Mutex
	events *[]provisioning.Event
	fields map[string]string
}

// NewRecordingObserver creates an empty recorder.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{
		mu:     &sync.Mutex{},
		events: &[]provisioning.Event{},
		fields: map[string]string{},
	}
}

// Event implements provisioning.Observer.
func (r *RecordingObserver) Event(e provisioning.Event) {
	if len(r.fields) > 0 {
		merged := make(map[string]string, len(r.fields)+len(e.Fields))
		for k, v := range r.fields {
			merged[k] = v
		}
		for k, v := range e.Fields {
			merged[k] = v
		}
		e.Fields = merged
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.events = append(*r.events, e)
}

// WithFields implements provisioning.Observer. Derived observers record
// into the same event list.
func (r *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := make(map[string]string, len(r.fields)+len(fields))
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &RecordingObserver{mu: r.mu, events: r.events, fields: merged}
}

// Events returns a copy of the recorded events.
func (r *RecordingObserver) Events() []provisioning.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]provisioning.Event(nil), *r.events...)
}

// OfType returns the recorded events of type t.
func (r *RecordingObserver) OfType(t provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
