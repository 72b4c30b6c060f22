package scenario

import (
	"fmt"

	"canary/internal/trace"
)

// State is a stage of one scenario run.
type State string

const (
	// StateInit is a fresh frame before any write.
	StateInit State = "init"
	// StateWriting means every write so far stayed inside the buffer.
	StateWriting State = "writing"
	// StateCorrupting means a write has reached past the buffer.
	StateCorrupting State = "corrupting"
	// StateObserved means every step has been written and observed.
	StateObserved State = "observed"
	// StateConsumerInvoked means the safe consumer is running inside the fault boundary.
	StateConsumerInvoked State = "consumer-invoked"
	// StateFaulted means the consumer's bounds check failed and was recorded.
	StateFaulted State = "faulted"
	// StateCompleted means the consumer returned normally.
	StateCompleted State = "completed"
	// StateReported is the only terminal state.
	StateReported State = "reported"
)

var transitions = map[State][]State{
	StateInit:            {StateWriting, StateCorrupting, StateObserved},
	StateWriting:         {StateWriting, StateCorrupting, StateObserved},
	StateCorrupting:      {StateCorrupting, StateObserved},
	StateObserved:        {StateConsumerInvoked},
	StateConsumerInvoked: {StateFaulted, StateCompleted},
	StateFaulted:         {StateReported},
	StateCompleted:       {StateReported},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// TransitionError reports a transition the state machine does not allow.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal state transition %s -> %s", e.From, e.To)
}

// machine tracks the state of one run and records every change.
type machine struct {
	state   State
	history []State
	tracer  trace.Tracer
	parent  uint64
}

func newMachine(tr trace.Tracer, parent uint64) *machine {
	return &machine{
		state:   StateInit,
		history: []State{StateInit},
		tracer:  tr,
		parent:  parent,
	}
}

// advance moves to the next state. Self-transitions are allowed where the
// table lists them and are not recorded twice.
func (m *machine) advance(to State) error {
	allowed := false
	for _, s := range transitions[m.state] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return &TransitionError{From: m.state, To: to}
	}
	if to == m.state {
		return nil
	}
	trace.Point(m.tracer, trace.ScopePhase, "state", string(to), m.parent, map[string]string{"from": string(m.state)})
	m.state = to
	m.history = append(m.history, to)
	return nil
}

// mustAdvance is for transitions the runner's control flow guarantees.
func (m *machine) mustAdvance(to State) {
	if err := m.advance(to); err != nil {
		panic(err)
	}
}
