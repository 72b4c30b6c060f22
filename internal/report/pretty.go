package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"canary/internal/frame"
	"canary/internal/observe"
	"canary/internal/scenario"
)

const (
	ruleHeavy = "======================================================="
	ruleLight = "───────────────────────────────────────────────────────"
	labelCols = 6
)

func (r *Renderer) banner(title string) {
	r.printf("%s\n", ruleHeavy)
	r.printf("   %s\n", r.heading.Sprint(title))
	r.printf("%s\n\n", ruleHeavy)
}

func (r *Renderer) layoutTable() {
	r.printf("Frame layout (all offsets in bytes):\n")
	for _, f := range r.layout.Fields {
		r.printf("  %s [%d..%d), size = %d bytes\n", runewidth.FillRight(f.Name+":", 8), f.Offset, f.End(), f.Size)
	}
	if pad := r.layout.Padding(); pad > 0 {
		r.printf("  %s %d bytes\n", runewidth.FillRight("padding:", 8), pad)
	}
	r.printf("  Total frame size = %d bytes, align = %d\n\n", r.layout.Size, r.layout.Align)
}

func (r *Renderer) legend() {
	r.printf("Legend:\n")
	r.printf("  %s = watched field, not yet corrupted\n", r.watchedByte(0xab))
	r.printf("  %s = byte changed this step\n", r.changedByte(0xab))
	r.printf("  %s = plain byte\n\n", plainByte(0xab))
}

func (r *Renderer) run(run *scenario.RunResult) {
	r.printf("%s\n", ruleLight)
	r.printf("TEST %s: write %d bytes starting at buffer[0]\n", run.Scenario.Name, len(run.Steps))
	r.printf("      (buffer is only %d bytes!)\n", frame.BufferSize)
	r.printf("%s\n", ruleLight)
	r.printf("Before: %s\n", r.values(run.Initial, 0))

	var corrupted [frame.Size]bool
	prev := run.Initial
	r.printf("%s\n", r.row("init", prev, prev, &corrupted))
	for _, snap := range run.Snapshots {
		label := fmt.Sprintf("i=%d", snap.Step.Index)
		r.printf("%s  %s\n", r.row(label, prev, snap, &corrupted), r.values(snap, snap.Changed(prev)))
		prev = snap
	}
	r.printf("After:  %s\n", r.values(run.Final(), 0))
	r.printf("%s\n\n", r.outcome(run))
}

// row renders one image line. Bytes that differ from prev are marked as
// changed and remembered in corrupted.
func (r *Renderer) row(label string, prev, cur observe.Snapshot, corrupted *[frame.Size]bool) string {
	var b strings.Builder
	b.WriteString(runewidth.FillRight(label, labelCols))
	b.WriteString(" |")
	bounds := r.layout.Boundaries()
	for i, v := range cur.Image {
		if len(bounds) > 0 && bounds[0] == i {
			b.WriteString(" |")
			bounds = bounds[1:]
		}
		switch {
		case v != prev.Image[i]:
			b.WriteString(r.changedByte(v))
			corrupted[i] = true
		case r.layout.Watched(i) && !corrupted[i]:
			b.WriteString(r.watchedByte(v))
		default:
			b.WriteString(plainByte(v))
		}
	}
	return b.String()
}

func (r *Renderer) changedByte(v byte) string {
	if r.opts.Color {
		return r.changed.Sprintf(" %02x ", v)
	}
	return fmt.Sprintf("[%02x]", v)
}

func (r *Renderer) watchedByte(v byte) string {
	if r.opts.Color {
		return r.watched.Sprintf(" %02x ", v)
	}
	return fmt.Sprintf("(%02x)", v)
}

func plainByte(v byte) string {
	return fmt.Sprintf(" %02x ", v)
}

// values renders the tracked fields; fields in changed carry a '*'.
func (r *Renderer) values(s observe.Snapshot, changed observe.Change) string {
	mark := func(c observe.Change, text string) string {
		if !changed.Has(c) {
			return text
		}
		return r.changed.Sprint(text + "*")
	}
	return strings.Join([]string{
		mark(observe.ChangedLength, r.num.Sprintf("length=%d", s.Length)),
		mark(observe.ChangedNum, r.num.Sprintf("num=%d", s.Num)),
		mark(observe.ChangedGuard, fmt.Sprintf("guard=0x%08X", s.Guard)),
	}, ", ")
}

func (r *Renderer) outcome(run *scenario.RunResult) string {
	out := run.Outcome
	if out.Faulted {
		ev := out.Fault
		return r.changed.Sprint(r.num.Sprintf("consumer FAULT %s: trusted length %d, valid range [%d,%d] (length was corrupted)",
			ev.Code, ev.Attempted, ev.Lo, ev.Hi))
	}
	return r.num.Sprintf("consumer sum = %d (length %d was still valid)", out.Sum, run.Final().Length)
}

func (r *Renderer) takeaways() {
	r.banner("KEY TAKEAWAYS")
	r.printf("1. Safe code relies on invariants (length <= buffer size)\n")
	r.printf("2. Unchecked writes can violate those invariants\n")
	r.printf("3. When safe code runs later, it trusts the corrupted data\n")
	r.printf("4. The result is a fault far away from the faulty write\n\n")
	r.printf("This is why unchecked memory access needs careful review:\n")
	r.printf("  - The bug is in the unchecked write\n")
	r.printf("  - But the fault happens in bounds-checked code!\n")
	r.printf("  - That makes the root cause hard to find\n")
}
