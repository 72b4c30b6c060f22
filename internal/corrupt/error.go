package corrupt

import (
	"fmt"

	"canary/internal/frame"
)

// PlanErrorKind enumerates reasons a plan is rejected.
type PlanErrorKind uint8

const (
	// PlanErrOutOfExtent indicates an index at or past the end of the frame.
	PlanErrOutOfExtent PlanErrorKind = iota + 1
	PlanErrNegativeIndex
	PlanErrNegativeLength
	PlanErrValueConversion
)

// PlanError reports a write plan that would leave the frame's extent.
type PlanError struct {
	Kind  PlanErrorKind
	Step  int   // position within the plan
	Index int   // offending byte index (or length for PlanErrNegativeLength)
	Err   error // for PlanErrValueConversion
}

func (e *PlanError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case PlanErrOutOfExtent:
		return fmt.Sprintf("step %d: index %d is outside the %d-byte frame", e.Step, e.Index, frame.Size)
	case PlanErrNegativeIndex:
		return fmt.Sprintf("step %d: negative index %d", e.Step, e.Index)
	case PlanErrNegativeLength:
		return fmt.Sprintf("negative plan length: %d", e.Index)
	case PlanErrValueConversion:
		if e.Err != nil {
			return fmt.Sprintf("step %d: value conversion error: %v", e.Step, e.Err)
		}
		return fmt.Sprintf("step %d: value conversion error", e.Step)
	default:
		return fmt.Sprintf("plan error kind=%d step=%d index=%d", e.Kind, e.Step, e.Index)
	}
}

func (e *PlanError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
