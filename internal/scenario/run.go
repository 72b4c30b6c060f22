package scenario

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"canary/internal/consumer"
	"canary/internal/corrupt"
	"canary/internal/fault"
	"canary/internal/frame"
	"canary/internal/observ"
	"canary/internal/observe"
	"canary/internal/trace"
)

// Reporter renders a finished run. A run reaches StateReported only after
// Report returns nil.
type Reporter interface {
	Report(run *RunResult) error
}

// RunResult is everything one scenario produced.
type RunResult struct {
	Scenario  Scenario
	Steps     []corrupt.WriteStep
	Initial   observe.Snapshot
	Snapshots []observe.Snapshot // one per step, in write order
	Outcome   fault.Outcome
	States    []State // every state entered, in order
}

// Final returns the last snapshot, or the initial one when nothing was written.
func (r *RunResult) Final() observe.Snapshot {
	if len(r.Snapshots) == 0 {
		return r.Initial
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

// State returns the current state of the run.
func (r *RunResult) State() State {
	if len(r.States) == 0 {
		return StateInit
	}
	return r.States[len(r.States)-1]
}

// Result is the outcome of one invocation.
type Result struct {
	Layout frame.Layout
	Runs   []*RunResult
}

// Runner executes scenarios strictly one after another.
type Runner struct {
	Reporter Reporter
	// Timer, when set, records write/consume/report phase durations.
	Timer *observ.Timer
}

// Run executes every scenario of cfg on its own fresh frame and reports each
// one before starting the next. The context is only checked between scenarios.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeRun, "run", 0)
	res := &Result{Layout: frame.Describe()}
	defer func() {
		span.WithExtra("scenarios", strconv.Itoa(len(res.Runs))).End("")
	}()

	for _, sc := range cfg.Scenarios {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		run, m, err := r.execute(tr, sc, span.ID())
		if err != nil {
			return res, err
		}
		if err := r.report(run, m); err != nil {
			return res, fmt.Errorf("report %q: %w", sc.Name, err)
		}
		res.Runs = append(res.Runs, run)
	}
	return res, nil
}

// Execute runs a single scenario up to StateFaulted or StateCompleted.
func (r *Runner) Execute(ctx context.Context, sc Scenario) (*RunResult, error) {
	run, _, err := r.execute(trace.FromContext(ctx), sc, 0)
	return run, err
}

func (r *Runner) execute(tr trace.Tracer, sc Scenario, parent uint64) (*RunResult, *machine, error) {
	plan, err := sc.Plan()
	if err != nil {
		return nil, nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	layout := frame.Describe()
	span := trace.Begin(tr, trace.ScopePhase, "scenario:"+sc.Name, parent).
		WithExtra("reaches", strings.Join(reachedFields(plan, layout), ","))
	if last, ok := plan.Last(); ok {
		span.WithExtra("last", strconv.Itoa(last.Index))
	}
	defer span.End("")

	f := frame.New()
	if !f.Pristine() {
		return nil, nil, fmt.Errorf("scenario %q: fresh frame is not in its initial state", sc.Name)
	}
	m := newMachine(tr, span.ID())
	run := &RunResult{
		Scenario:  sc,
		Steps:     plan.Steps(),
		Initial:   observe.Initial(f),
		Snapshots: make([]observe.Snapshot, 0, plan.Len()),
	}

	phase := r.begin(sc.Name, observ.PhaseWrite)
	eng := corrupt.NewEngine(f, plan)
	prev := run.Initial
	for !eng.Done() {
		step, _ := eng.Next()
		snap := observe.Take(f, step)
		if !snap.Consistent() {
			return nil, nil, fmt.Errorf("scenario %q: step %d: field reads disagree with the frame image", sc.Name, step.Index)
		}
		run.Snapshots = append(run.Snapshots, snap)

		next := StateWriting
		if m.state == StateCorrupting || step.Index >= frame.BufferSize {
			next = StateCorrupting
		}
		m.mustAdvance(next)
		trace.Point(tr, trace.ScopeStep, "step", fmt.Sprintf("i=%d value=%d", step.Index, step.Value), span.ID(), map[string]string{
			"length": strconv.FormatUint(uint64(snap.Length), 10),
			"num":    strconv.FormatInt(int64(snap.Num), 10),
			"guard":  fmt.Sprintf("0x%08X", snap.Guard),
		})
		for _, off := range snap.Diff(prev) {
			trace.Point(tr, trace.ScopeByte, "byte", fmt.Sprintf("%02x -> %02x", prev.Image[off], snap.Image[off]), span.ID(), map[string]string{
				"offset": strconv.Itoa(off),
				"region": regionAt(layout, off),
			})
		}
		prev = snap
	}
	m.mustAdvance(StateObserved)
	r.end(phase, fmt.Sprintf("%d steps", eng.Applied()))

	phase = r.begin(sc.Name, observ.PhaseConsume)
	m.mustAdvance(StateConsumerInvoked)
	out, err := fault.Run(f, consumer.SumPrefix, fault.Policy{TornFrame: fault.AcknowledgeTornFrame})
	runtime.KeepAlive(f)
	if err != nil {
		dumpRing(tr)
		return nil, nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	run.Outcome = out
	if out.Faulted {
		m.mustAdvance(StateFaulted)
		r.end(phase, out.Fault.Code.String())
	} else {
		m.mustAdvance(StateCompleted)
		r.end(phase, "ok")
	}
	run.States = m.history
	return run, m, nil
}

func (r *Runner) report(run *RunResult, m *machine) error {
	phase := r.begin(run.Scenario.Name, observ.PhaseReport)
	defer r.end(phase, "")
	if r.Reporter != nil {
		if err := r.Reporter.Report(run); err != nil {
			return err
		}
	}
	if err := m.advance(StateReported); err != nil {
		return err
	}
	run.States = m.history
	return nil
}

func (r *Runner) begin(scenario string, kind observ.PhaseKind) int {
	if r.Timer == nil {
		return -1
	}
	return r.Timer.Begin(scenario, kind)
}

func (r *Runner) end(idx int, note string) {
	if r.Timer == nil {
		return
	}
	r.Timer.End(idx, note)
}

// reachedFields names the fields past the buffer that plan writes into.
func reachedFields(plan *corrupt.Plan, layout frame.Layout) []string {
	var names []string
	for _, f := range layout.Fields {
		if f.Watched && plan.Touches(f) {
			names = append(names, f.Name)
		}
	}
	return names
}

func regionAt(layout frame.Layout, off int) string {
	if f, ok := layout.FieldAt(off); ok {
		return f.Name
	}
	return "padding"
}

// dumpRing writes the ring buffer, if any, to stderr after a boundary error.
func dumpRing(tr trace.Tracer) {
	ring, ok := trace.RingOf(tr)
	if !ok {
		return
	}
	fmt.Fprintln(os.Stderr, "trace: ring dump")
	if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
}
