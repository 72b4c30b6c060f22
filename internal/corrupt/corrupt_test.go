package corrupt_test

import (
	"errors"
	"testing"

	"canary/internal/corrupt"
	"canary/internal/frame"
)

func TestSequentialPlan(t *testing.T) {
	plan, err := corrupt.Sequential(frame.Size)
	if err != nil {
		t.Fatalf("Sequential(%d): %v", frame.Size, err)
	}
	if plan.Len() != 20 {
		t.Fatalf("Len() = %d, want 20", plan.Len())
	}
	for i, s := range plan.Steps() {
		if s.Index != i || int(s.Value) != i {
			t.Fatalf("step %d = %+v, want index=value=%d", i, s, i)
		}
	}
	last, ok := plan.Last()
	if !ok || last.Index != frame.Size-1 {
		t.Fatalf("Last() = %+v,%v, want index %d", last, ok, frame.Size-1)
	}
}

func TestPlanRejectsOutOfExtent(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (*corrupt.Plan, error)
		kind corrupt.PlanErrorKind
	}{
		{"sequential past end", func() (*corrupt.Plan, error) { return corrupt.Sequential(frame.Size + 1) }, corrupt.PlanErrOutOfExtent},
		{"index at size", func() (*corrupt.Plan, error) {
			return corrupt.NewPlan([]corrupt.WriteStep{{Index: 0}, {Index: frame.Size}})
		}, corrupt.PlanErrOutOfExtent},
		{"negative index", func() (*corrupt.Plan, error) {
			return corrupt.NewPlan([]corrupt.WriteStep{{Index: -1}})
		}, corrupt.PlanErrNegativeIndex},
		{"negative length", func() (*corrupt.Plan, error) { return corrupt.Sequential(-3) }, corrupt.PlanErrNegativeLength},
		{"too many values", func() (*corrupt.Plan, error) { return corrupt.FromValues(make([]byte, frame.Size+1)) }, corrupt.PlanErrOutOfExtent},
	}
	for _, tc := range cases {
		plan, err := tc.fn()
		if plan != nil {
			t.Errorf("%s: expected nil plan", tc.name)
		}
		var pe *corrupt.PlanError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error %v is not a *PlanError", tc.name, err)
			continue
		}
		if pe.Kind != tc.kind {
			t.Errorf("%s: kind = %d, want %d", tc.name, pe.Kind, tc.kind)
		}
	}
}

func TestPlanCopiesSteps(t *testing.T) {
	steps := []corrupt.WriteStep{{Index: 1, Value: 7}}
	plan, err := corrupt.NewPlan(steps)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	steps[0].Index = 99
	if got := plan.Step(0).Index; got != 1 {
		t.Fatalf("plan aliased caller slice: index = %d", got)
	}
}

func TestEngineWritesWithinBuffer(t *testing.T) {
	f := frame.New()
	plan, err := corrupt.Sequential(frame.BufferSize)
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	eng := corrupt.NewEngine(f, plan)
	for !eng.Done() {
		if _, ok := eng.Next(); !ok {
			t.Fatalf("Next() returned !ok before Done()")
		}
	}
	if eng.Applied() != frame.BufferSize {
		t.Fatalf("Applied() = %d, want %d", eng.Applied(), frame.BufferSize)
	}
	for i, b := range f.Buffer() {
		if int(b) != i {
			t.Fatalf("buffer[%d] = %d, want %d", i, b, i)
		}
	}
	if !f.Pristine() {
		t.Fatalf("writes inside the buffer must not touch tracked fields")
	}
	if _, ok := eng.Next(); ok {
		t.Fatalf("Next() after exhaustion should return !ok")
	}
}

func TestEngineOverflowsIntoLength(t *testing.T) {
	f := frame.New()
	plan, err := corrupt.Sequential(frame.OffsetLength + frame.SizeLength)
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	eng := corrupt.NewEngine(f, plan)
	for {
		if _, ok := eng.Next(); !ok {
			break
		}
	}
	if got, want := f.Length(), uint32(0x0B0A0908); got != want {
		t.Fatalf("Length() = %#x, want %#x", got, want)
	}
	if f.Num() != frame.InitialNum || f.Guard() != frame.InitialGuard {
		t.Fatalf("num/guard changed: num=%d guard=%#x", f.Num(), f.Guard())
	}
}

func TestTouches(t *testing.T) {
	l := frame.Describe()
	guard, _ := l.Field(frame.FieldGuard)
	short, _ := corrupt.Sequential(16)
	full, _ := corrupt.Sequential(17)
	if short.Touches(guard) {
		t.Errorf("16-step plan must not touch guard")
	}
	if !full.Touches(guard) {
		t.Errorf("17-step plan must touch guard")
	}
}
