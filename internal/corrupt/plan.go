package corrupt

import (
	"fortio.org/safecast"

	"canary/internal/frame"
)

// WriteStep is one byte write at buffer base + Index.
type WriteStep struct {
	Index int
	Value byte
}

// Plan is an ordered, validated sequence of write steps. Every index of a
// Plan lies in [0, frame.Size); there is no other way to obtain one.
type Plan struct {
	steps []WriteStep
}

// NewPlan validates steps and returns a Plan holding a copy of them.
func NewPlan(steps []WriteStep) (*Plan, error) {
	for i, s := range steps {
		if s.Index < 0 {
			return nil, &PlanError{Kind: PlanErrNegativeIndex, Step: i, Index: s.Index}
		}
		if s.Index >= frame.Size {
			return nil, &PlanError{Kind: PlanErrOutOfExtent, Step: i, Index: s.Index}
		}
	}
	return &Plan{steps: append([]WriteStep(nil), steps...)}, nil
}

// Sequential returns the canonical plan: value i written at index i for
// i in [0, n).
func Sequential(n int) (*Plan, error) {
	if n < 0 {
		return nil, &PlanError{Kind: PlanErrNegativeLength, Index: n}
	}
	if n > frame.Size {
		return nil, &PlanError{Kind: PlanErrOutOfExtent, Step: frame.Size, Index: frame.Size}
	}
	steps := make([]WriteStep, 0, n)
	for i := 0; i < n; i++ {
		v, err := safecast.Conv[byte](i)
		if err != nil {
			return nil, &PlanError{Kind: PlanErrValueConversion, Step: i, Index: i, Err: err}
		}
		steps = append(steps, WriteStep{Index: i, Value: v})
	}
	return NewPlan(steps)
}

// FromValues returns a plan writing values[i] at index i.
func FromValues(values []byte) (*Plan, error) {
	steps := make([]WriteStep, len(values))
	for i, v := range values {
		steps[i] = WriteStep{Index: i, Value: v}
	}
	return NewPlan(steps)
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.steps)
}

// Steps returns a copy of the steps in order.
func (p *Plan) Steps() []WriteStep {
	if p == nil {
		return nil
	}
	return append([]WriteStep(nil), p.steps...)
}

// Step returns the i-th step.
func (p *Plan) Step(i int) WriteStep {
	return p.steps[i]
}

// Last returns the final step, ok=false for an empty plan.
func (p *Plan) Last() (WriteStep, bool) {
	if p.Len() == 0 {
		return WriteStep{}, false
	}
	return p.steps[len(p.steps)-1], true
}

// Touches reports whether any step writes into the given field.
func (p *Plan) Touches(f frame.Field) bool {
	if p == nil {
		return false
	}
	for _, s := range p.steps {
		if f.Contains(s.Index) {
			return true
		}
	}
	return false
}
