package orchestrator

import (
	"fmt"

	"github.com/graphforge/forge/internal/buildgraph"
)

// State is the progress of one target through a run.
type State string

const (
	StatePending  State = "pending"
	StateHashed   State = "hashed"
	StateSkipped  State = "skipped"
	StateBuilding State = "building"
	StateStored   State = "stored"
	StateFailed   State = "failed"
)

// IsTerminal reports whether the state is final for the run.
func (s State) IsTerminal() bool {
	switch s {
	case StateSkipped, StateStored, StateFailed:
		return true
	default:
		return false
	}
}

func allowed(from, to State) bool {
	switch from {
	case StatePending:
		return to == StateHashed
	case StateHashed:
		return to == StateSkipped || to == StateBuilding
	case StateBuilding:
		return to == StateStored || to == StateFailed
	default:
		return false
	}
}

// States tracks target states. It is owned by a single goroutine.
type States map[buildgraph.GraphTarget]State

// Transition moves target from its current state to next.
func (s States) Transition(target buildgraph.GraphTarget, next State) error {
	cur, ok := s[target]
	if !ok {
		return fmt.Errorf("unknown target in state: %s", target)
	}
	if !allowed(cur, next) {
		return fmt.Errorf("disallowed transition for %s: %s -> %s", target, cur, next)
	}
	s[target] = next
	return nil
}
