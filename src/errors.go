package aloha

import "fmt"

// InvariantViolation diagnoses a bug in the engine itself (an assertion
// from the original implementation, per section 7): a state/receiving_count
// mismatch, a packet-id mismatch on END_TX, an event kind a node's current
// state should never see, or a sticky packet state changing. It is never a
// recoverable runtime condition — the simulation aborts.
type InvariantViolation struct {
	Node   NodeID
	State  NodeState
	Event  EventKind
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("aloha: invariant violation at node %s (state=%s, event=%s): %s", e.Node, e.State, e.Event, e.Reason)
}

// invariantViolation is the panic payload raised from deep inside handler
// code, where the node/state/event context isn't always locally available.
// Simulation.Run recovers it, fills in whatever context it was given, and
// converts it to an *InvariantViolation.
type invariantViolation struct {
	node   NodeID
	state  NodeState
	event  EventKind
	reason string
}

func (e invariantViolation) Error() string {
	return e.reason
}

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(invariantViolation{reason: fmt.Sprintf(format, args...)})
	}
}
