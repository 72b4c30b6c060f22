package scenario

import (
	"context"
	"fmt"
)

// VerifyResult compares two executions of the same scenario.
type VerifyResult struct {
	First     *RunResult
	Second    *RunResult
	Identical bool
	Mismatch  string // first difference found, empty when Identical
}

// Verify executes sc twice, each time on a fresh frame, and compares the
// snapshot sequences and outcomes.
func Verify(ctx context.Context, sc Scenario) (VerifyResult, error) {
	r := &Runner{}
	first, err := r.Execute(ctx, sc)
	if err != nil {
		return VerifyResult{}, err
	}
	second, err := r.Execute(ctx, sc)
	if err != nil {
		return VerifyResult{}, err
	}
	res := VerifyResult{First: first, Second: second}
	res.Mismatch = compare(first, second)
	res.Identical = res.Mismatch == ""
	return res, nil
}

func compare(a, b *RunResult) string {
	if a.Initial != b.Initial {
		return "initial snapshots differ"
	}
	if len(a.Snapshots) != len(b.Snapshots) {
		return fmt.Sprintf("snapshot count %d vs %d", len(a.Snapshots), len(b.Snapshots))
	}
	for i := range a.Snapshots {
		if a.Snapshots[i] != b.Snapshots[i] {
			return fmt.Sprintf("snapshot %d differs", i)
		}
	}
	oa, ob := a.Outcome, b.Outcome
	if oa.Faulted != ob.Faulted || oa.Sum != ob.Sum {
		return fmt.Sprintf("outcomes differ: faulted=%v/%v sum=%d/%d", oa.Faulted, ob.Faulted, oa.Sum, ob.Sum)
	}
	if oa.Faulted && *oa.Fault != *ob.Fault {
		return fmt.Sprintf("fault events differ: %v vs %v", oa.Fault, ob.Fault)
	}
	return ""
}
