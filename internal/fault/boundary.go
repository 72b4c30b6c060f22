package fault

import (
	"fmt"
	"runtime"
	"strings"

	"canary/internal/frame"
)

// Code identifies a boundary result.
type Code int

// Stable codes - do not change values.
const (
	CodeBoundsFault Code = 1001 // F1001: consumer failed a bounds check
	CodeTornFrame   Code = 1002 // F1002: fault over a frame the caller did not acknowledge as torn
)

// String returns the code as "F1001" format.
func (c Code) String() string {
	return fmt.Sprintf("F%d", c)
}

// Event is a consumer bounds failure converted into data.
type Event struct {
	Code      Code
	Attempted uint32 // length value the consumer trusted
	Lo, Hi    int    // valid range, inclusive
	Message   string // runtime panic message
}

// Error implements the error interface.
func (e *Event) Error() string {
	return fmt.Sprintf("%s: attempted length %d outside valid range [%d,%d]", e.Code, e.Attempted, e.Lo, e.Hi)
}

// Outcome is the result of a guarded consumer call.
type Outcome struct {
	Faulted bool
	Fault   *Event // set when Faulted
	Sum     uint64 // consumer result when not Faulted
}

// TornFramePolicy states what the caller knows about the frame's state
// when the consumer may fault.
type TornFramePolicy uint8

const (
	// RefuseTornFrame is the default: a fault is not converted, because the
	// frame may hold half-applied mutations the caller has not accounted for.
	RefuseTornFrame TornFramePolicy = iota
	// AcknowledgeTornFrame accepts that the frame's fields may be in any
	// state when the consumer faults. It exists for the single overflow
	// scenario, where the frame is discarded after reporting; it is not a
	// general license to recover over live mutable state.
	AcknowledgeTornFrame
)

// Policy configures a boundary call.
type Policy struct {
	TornFrame TornFramePolicy
}

// BoundaryError reports a fault the boundary refused to convert.
type BoundaryError struct {
	Code  Code
	Panic any
}

// Error implements the error interface.
func (e *BoundaryError) Error() string {
	return fmt.Sprintf("%s: consumer faulted over an unacknowledged torn frame: %v", e.Code, e.Panic)
}

// Unwrap exposes the runtime error carried by the panic.
func (e *BoundaryError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// Run calls consume(f) inside a recovery boundary. A runtime bounds panic is
// converted into an Outcome carrying an Event; any other panic propagates.
func Run(f *frame.Frame, consume func(*frame.Frame) uint64, policy Policy) (out Outcome, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if !isBoundsFault(r) {
			panic(r)
		}
		if policy.TornFrame != AcknowledgeTornFrame {
			out, err = Outcome{}, &BoundaryError{Code: CodeTornFrame, Panic: r}
			return
		}
		out = Outcome{
			Faulted: true,
			Fault: &Event{
				Code:      CodeBoundsFault,
				Attempted: f.Length(),
				Lo:        0,
				Hi:        len(f.Buffer()),
				Message:   fmt.Sprint(r),
			},
		}
	}()

	return Outcome{Sum: consume(f)}, nil
}

// boundsPrefixes are the runtime.Error messages of failed bounds checks, as
// in "runtime error: slice bounds out of range [:185207048] with capacity 5".
var boundsPrefixes = []string{
	"runtime error: slice bounds out of range",
	"runtime error: index out of range",
}

func isBoundsFault(r any) bool {
	re, ok := r.(runtime.Error)
	if !ok {
		return false
	}
	msg := re.Error()
	for _, p := range boundsPrefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
