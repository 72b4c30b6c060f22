package corrupt

import (
	"unsafe"

	"canary/internal/frame"
)

// Engine applies a Plan to a Frame one step at a time.
type Engine struct {
	f    *frame.Frame
	plan *Plan
	next int
}

// NewEngine binds a plan to the frame it corrupts.
func NewEngine(f *frame.Frame, plan *Plan) *Engine {
	return &Engine{f: f, plan: plan}
}

// Next applies the next step and returns it. ok is false once the plan is
// exhausted. The write has completed when Next returns.
func (e *Engine) Next() (step WriteStep, ok bool) {
	if e == nil || e.f == nil || e.next >= e.plan.Len() {
		return WriteStep{}, false
	}
	step = e.plan.Step(e.next)
	rawWrite(e.f, step)
	e.next++
	return step, true
}

// Applied returns the number of steps written so far.
func (e *Engine) Applied() int {
	if e == nil {
		return 0
	}
	return e.next
}

// Done reports whether every step has been written.
func (e *Engine) Done() bool {
	return e == nil || e.next >= e.plan.Len()
}

// rawWrite stores s.Value at base+s.Index with no bounds or type check.
// Indices past the buffer land in padding, length, num and guard.
//
// This is the only raw memory write in the module. Its index comes from a
// Plan and is therefore below frame.Size.
//
//go:noinline
func rawWrite(f *frame.Frame, s WriteStep) {
	*(*byte)(unsafe.Add(f.Base(), s.Index)) = s.Value
}
