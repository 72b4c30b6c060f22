package observ

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// PhaseKind is one stage of a scenario run.
type PhaseKind uint8

const (
	PhaseWrite PhaseKind = iota
	PhaseConsume
	PhaseReport
	phaseKinds
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseWrite:
		return "write"
	case PhaseConsume:
		return "consume"
	case PhaseReport:
		return "report"
	default:
		return fmt.Sprintf("phase(%d)", uint8(k))
	}
}

// Phase is one timed stage of one scenario.
type Phase struct {
	Scenario string
	Kind     PhaseKind
	Start    time.Time
	Dur      time.Duration
	Note     string
	done     bool
}

// Timer records write, consume and report durations per scenario. It is not
// safe for concurrent use; runs are sequential.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 3), now: time.Now} }

// Begin opens the kind phase of scenario and returns its handle.
func (t *Timer) Begin(scenario string, kind PhaseKind) int {
	t.phases = append(t.phases, Phase{Scenario: scenario, Kind: kind, Start: t.now()})
	return len(t.phases) - 1
}

// End closes the phase behind idx. Unknown or already closed handles are
// ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) || t.phases[idx].done {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
	p.done = true
}

// PhaseLine is the serializable form of a phase.
type PhaseLine struct {
	Scenario   string  `json:"scenario"`
	Kind       string  `json:"kind"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report holds every phase, the per-kind totals and the overall total.
type Report struct {
	TotalMS float64            `json:"total_ms"`
	ByKind  map[string]float64 `json:"by_kind,omitempty"`
	Phases  []PhaseLine        `json:"phases"`
}

// Report returns the closed phases in the order they began.
func (t *Timer) Report() Report {
	var rep Report
	var total time.Duration
	var kinds [phaseKinds]time.Duration
	for _, p := range t.phases {
		if !p.done {
			continue
		}
		total += p.Dur
		if p.Kind < phaseKinds {
			kinds[p.Kind] += p.Dur
		}
		rep.Phases = append(rep.Phases, PhaseLine{
			Scenario:   p.Scenario,
			Kind:       p.Kind.String(),
			DurationMS: millis(p.Dur),
			Note:       p.Note,
		})
	}
	if len(rep.Phases) == 0 {
		return Report{}
	}
	rep.TotalMS = millis(total)
	rep.ByKind = make(map[string]float64, len(kinds))
	for k, d := range kinds {
		rep.ByKind[PhaseKind(k).String()] = millis(d)
	}
	return rep
}

// WriteSummary prints one line per phase, grouped under its scenario, then
// the per-kind totals.
func (t *Timer) WriteSummary(w io.Writer) error {
	rep := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	scenario := ""
	for i, p := range rep.Phases {
		if i == 0 || p.Scenario != scenario {
			scenario = p.Scenario
			fmt.Fprintf(&b, "  %s\n", scenario)
		}
		fmt.Fprintf(&b, "    %-8s %8.3f ms", p.Kind, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	for k := PhaseKind(0); k < phaseKinds; k++ {
		fmt.Fprintf(&b, "  %-10s %8.3f ms\n", "all "+k.String(), rep.ByKind[k.String()])
	}
	fmt.Fprintf(&b, "  %-10s %8.3f ms\n", "total", rep.TotalMS)
	_, err := io.WriteString(w, b.String())
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
