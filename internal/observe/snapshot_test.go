package observe_test

import (
	"testing"

	"canary/internal/corrupt"
	"canary/internal/frame"
	"canary/internal/observe"
)

// lockstep writes every step of a full plan and observes after each one.
func lockstep(t *testing.T) (observe.Snapshot, []observe.Snapshot) {
	t.Helper()
	f := frame.New()
	plan, err := corrupt.Sequential(frame.Size)
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	before := observe.Initial(f)
	eng := corrupt.NewEngine(f, plan)
	var snaps []observe.Snapshot
	for {
		step, ok := eng.Next()
		if !ok {
			break
		}
		snaps = append(snaps, observe.Take(f, step))
	}
	return before, snaps
}

func TestInitialSnapshot(t *testing.T) {
	before, _ := lockstep(t)
	if !before.Initial {
		t.Fatalf("Initial flag not set")
	}
	if before.Length != 5 || before.Num != 40000 || before.Guard != 0xDEADBEEF {
		t.Fatalf("initial = %d/%d/%#x", before.Length, before.Num, before.Guard)
	}
	if !before.Consistent() {
		t.Fatalf("initial snapshot disagrees with its image: %v", before.Image)
	}
}

func TestBufferWritesLeaveFieldsUnchanged(t *testing.T) {
	before, snaps := lockstep(t)
	for i := 0; i < frame.BufferSize; i++ {
		if c := snaps[i].Changed(before); c != 0 {
			t.Fatalf("step %d changed tracked fields: %b", i, c)
		}
	}
}

func TestPaddingWritesLeaveFieldsUnchanged(t *testing.T) {
	before, snaps := lockstep(t)
	for i := frame.BufferSize; i < frame.OffsetLength; i++ {
		if c := snaps[i].Changed(before); c != 0 {
			t.Fatalf("padding step %d changed tracked fields: %b", i, c)
		}
		if diff := snaps[i].Diff(snaps[i-1]); len(diff) != 1 || diff[0] != i {
			t.Fatalf("padding step %d diff = %v, want [%d]", i, diff, i)
		}
	}
}

func TestLengthReinterpretation(t *testing.T) {
	_, snaps := lockstep(t)
	want := map[int]uint32{
		8:  0x00000008,
		9:  0x00000908,
		10: 0x000A0908,
		11: 0x0B0A0908,
		19: 0x0B0A0908,
	}
	for step, v := range want {
		if got := snaps[step].Length; got != v {
			t.Errorf("step %d: length = %#x, want %#x", step, got, v)
		}
	}
	if snaps[11].Length != 185207048 {
		t.Errorf("step 11: length = %d, want 185207048", snaps[11].Length)
	}
}

func TestNumReinterpretation(t *testing.T) {
	_, snaps := lockstep(t)
	want := map[int]int32{
		11: 40000,
		12: 0x00009C0C,
		13: 0x00000D0C,
		14: 0x000E0D0C,
		15: 0x0F0E0D0C,
	}
	for step, v := range want {
		if got := snaps[step].Num; got != v {
			t.Errorf("step %d: num = %d, want %d", step, got, v)
		}
	}
}

func TestGuardChangesOnlyInItsRange(t *testing.T) {
	before, snaps := lockstep(t)
	for i, s := range snaps {
		changed := s.Guard != before.Guard
		inRange := i >= frame.OffsetGuard
		if changed != inRange {
			t.Fatalf("step %d: guard changed=%v, reached guard range=%v", i, changed, inRange)
		}
	}
	if got := snaps[19].Guard; got != 0x13121110 {
		t.Fatalf("step 19: guard = %#x, want 0x13121110", got)
	}
}

func TestEverySnapshotMatchesMemory(t *testing.T) {
	_, snaps := lockstep(t)
	for i, s := range snaps {
		if !s.Consistent() {
			t.Fatalf("step %d: fields disagree with image %v", i, s.Image)
		}
		if s.Image[s.Step.Index] != s.Step.Value {
			t.Fatalf("step %d: image[%d] = %d, want %d", i, s.Step.Index, s.Image[s.Step.Index], s.Step.Value)
		}
	}
}

func TestChangedFlags(t *testing.T) {
	before, snaps := lockstep(t)
	c := snaps[19].Changed(before)
	if !c.Has(observe.ChangedLength | observe.ChangedNum | observe.ChangedGuard) {
		t.Fatalf("after full overflow Changed = %b, want all fields", c)
	}
	c = snaps[8].Changed(snaps[7])
	if !c.Has(observe.ChangedLength) || c.Has(observe.ChangedNum) {
		t.Fatalf("step 8 Changed = %b, want length only", c)
	}
}
