package report

import (
	"encoding/hex"
	"encoding/json"
	"io"

	"canary/internal/frame"
	"canary/internal/observe"
	"canary/internal/scenario"
)

// Document is the root of the JSON output.
type Document struct {
	Layout LayoutJSON  `json:"layout"`
	Runs   []RunJSON   `json:"runs"`
	Verify *VerifyJSON `json:"verify,omitempty"`
}

// LayoutJSON describes the frame layout.
type LayoutJSON struct {
	Size    int         `json:"size"`
	Align   int         `json:"align"`
	Padding int         `json:"padding"`
	Fields  []FieldJSON `json:"fields"`
}

// FieldJSON is one field of the layout.
type FieldJSON struct {
	Name    string `json:"name"`
	Offset  int    `json:"offset"`
	Size    int    `json:"size"`
	Watched bool   `json:"watched,omitempty"`
}

// ValuesJSON holds the tracked field values of one snapshot.
type ValuesJSON struct {
	Length uint32 `json:"length"`
	Num    int32  `json:"num"`
	Guard  uint32 `json:"guard"`
	Image  string `json:"image"` // hex, frame order
}

// StepJSON is one write and the reading that followed it.
type StepJSON struct {
	Index   int        `json:"index"`
	Value   uint8      `json:"value"`
	Values  ValuesJSON `json:"values"`
	Changed []string   `json:"changed,omitempty"`
}

// FaultJSON is a converted consumer fault.
type FaultJSON struct {
	Code      string `json:"code"`
	Attempted uint32 `json:"attempted"`
	Lo        int    `json:"lo"`
	Hi        int    `json:"hi"`
	Message   string `json:"message"`
}

// RunJSON is one scenario run.
type RunJSON struct {
	Scenario string     `json:"scenario"`
	Before   ValuesJSON `json:"before"`
	Steps    []StepJSON `json:"steps"`
	After    ValuesJSON `json:"after"`
	Faulted  bool       `json:"faulted"`
	Fault    *FaultJSON `json:"fault,omitempty"`
	Sum      *uint64    `json:"sum,omitempty"`
	States   []string   `json:"states"`
}

// VerifyJSON is the result of a repeat run.
type VerifyJSON struct {
	Scenario  string `json:"scenario"`
	Identical bool   `json:"identical"`
	Mismatch  string `json:"mismatch,omitempty"`
}

func layoutJSON(l frame.Layout) LayoutJSON {
	out := LayoutJSON{Size: l.Size, Align: l.Align, Padding: l.Padding(), Fields: make([]FieldJSON, 0, len(l.Fields))}
	for _, f := range l.Fields {
		out.Fields = append(out.Fields, FieldJSON{Name: f.Name, Offset: f.Offset, Size: f.Size, Watched: f.Watched})
	}
	return out
}

func valuesJSON(s observe.Snapshot) ValuesJSON {
	return ValuesJSON{Length: s.Length, Num: s.Num, Guard: s.Guard, Image: hex.EncodeToString(s.Image[:])}
}

func runJSON(run *scenario.RunResult) RunJSON {
	out := RunJSON{
		Scenario: run.Scenario.Name,
		Before:   valuesJSON(run.Initial),
		Steps:    make([]StepJSON, 0, len(run.Snapshots)),
		After:    valuesJSON(run.Final()),
		Faulted:  run.Outcome.Faulted,
		States:   make([]string, 0, len(run.States)),
	}
	prev := run.Initial
	for _, snap := range run.Snapshots {
		out.Steps = append(out.Steps, StepJSON{
			Index:   snap.Step.Index,
			Value:   snap.Step.Value,
			Values:  valuesJSON(snap),
			Changed: changedNames(snap.Changed(prev)),
		})
		prev = snap
	}
	if ev := run.Outcome.Fault; ev != nil {
		out.Fault = &FaultJSON{Code: ev.Code.String(), Attempted: ev.Attempted, Lo: ev.Lo, Hi: ev.Hi, Message: ev.Message}
	} else {
		sum := run.Outcome.Sum
		out.Sum = &sum
	}
	for _, s := range run.States {
		out.States = append(out.States, string(s))
	}
	return out
}

func changedNames(c observe.Change) []string {
	var names []string
	if c.Has(observe.ChangedLength) {
		names = append(names, frame.FieldLength)
	}
	if c.Has(observe.ChangedNum) {
		names = append(names, frame.FieldNum)
	}
	if c.Has(observe.ChangedGuard) {
		names = append(names, frame.FieldGuard)
	}
	return names
}

func writeJSON(w io.Writer, v any) error {
	if doc, ok := v.(*Document); ok && doc.Runs == nil {
		doc.Runs = []RunJSON{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
