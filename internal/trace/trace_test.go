package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"off":   LevelOff,
		"":      LevelOff,
		"ERROR": LevelError,
		"phase": LevelPhase,
		"step":  LevelStep,
		"debug": LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamFiltersByScope(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	Point(tr, ScopePhase, "state", "writing", 0, nil)
	Point(tr, ScopeStep, "write", "i=3", 0, nil)
	out := buf.String()
	if !strings.Contains(out, "state (writing)") {
		t.Fatalf("phase event missing: %q", out)
	}
	if strings.Contains(out, "write") {
		t.Fatalf("step event leaked at phase level: %q", out)
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{Kind: KindPoint, Scope: ScopeStep, Name: "observe", Extra: map[string]string{"num": "1", "guard": "2", "length": "3"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.Contains(got, "{guard=2, length=3, num=1}") {
		t.Fatalf("extras not sorted: %q", got)
	}
}

func TestNDJSONFormat(t *testing.T) {
	ev := &Event{Kind: KindSpanBegin, Scope: ScopeRun, Name: "run", SpanID: 7}
	got := string(FormatEvent(ev, FormatNDJSON))
	if !strings.HasSuffix(got, "\n") || !strings.Contains(got, `"kind":"begin"`) || !strings.Contains(got, `"span_id":7`) {
		t.Fatalf("unexpected ndjson: %q", got)
	}
}

func TestRingWrapsAndKeepsOrder(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeStep, name, "", 0, nil)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Fatalf("snap[%d] = %s, want %s", i, snap[i].Name, want)
		}
	}
}

func TestRingRecordsStepsAtErrorLevel(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeRing, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	span := Begin(tr, ScopeStep, "write", 0)
	span.End("")
	ring, ok := RingOf(tr)
	if !ok {
		t.Fatalf("RingOf: no ring")
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "write") != 2 {
		t.Fatalf("dump = %q, want begin+end", buf.String())
	}
}

func TestBothModeFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelStep, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeStep, "observe", "", 0, nil)
	ring, ok := RingOf(tr)
	if !ok || len(ring.Snapshot()) != 1 {
		t.Fatalf("ring did not receive the event")
	}
	if !strings.Contains(buf.String(), "observe") {
		t.Fatalf("stream did not receive the event: %q", buf.String())
	}
}

func TestContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop tracer")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
}
