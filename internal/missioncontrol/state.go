package missioncontrol

import "strings"

// State is a position in the launch state machine.
type State string

// Launch states in the order a successful launch visits them.
const (
	StateStart            State = "START"
	StateRepoPending      State = "REPO_CREATED_PENDING"
	StateRepoCreated      State = "REPO_CREATED"
	StateCodePushed       State = "CODE_PUSHED"
	StateProjectCreated   State = "PROJECT_CREATED"
	StateResourcesApplied State = "RESOURCES_APPLIED"
	StateSucceeded        State = "SUCCEEDED"
	StateFailed           State = "FAILED"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Trace is the sequence of states a launch visited.
type Trace []State

// Last returns the most recent state, or StateStart for an empty trace.
func (t Trace) Last() State {
	if len(t) == 0 {
		return StateStart
	}
	return t[len(t)-1]
}

// Reached reports whether the launch passed through s.
func (t Trace) Reached(s State) bool {
	for _, v := range t {
		if v == s {
			return true
		}
	}
	return false
}

func (t Trace) String() string {
	parts := make([]string, len(t))
	for i, s := range t {
		parts[i] = string(s)
	}
	return strings.Join(parts, " -> ")
}
