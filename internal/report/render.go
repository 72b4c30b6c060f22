package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"canary/internal/frame"
	"canary/internal/scenario"
)

// Renderer prints runs as they are reported. It implements scenario.Reporter.
type Renderer struct {
	out    io.Writer
	opts   Options
	layout frame.Layout
	num    *message.Printer

	changed *color.Color
	watched *color.Color
	heading *color.Color

	doc     Document // FormatJSON only
	started bool
	err     error
}

var _ scenario.Reporter = (*Renderer)(nil)

// New returns a Renderer writing to out.
func New(out io.Writer, opts Options) *Renderer {
	r := &Renderer{
		out:     out,
		opts:    opts,
		layout:  frame.Describe(),
		num:     message.NewPrinter(language.English),
		changed: color.New(color.FgHiRed),
		watched: color.New(color.FgHiGreen),
		heading: color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.changed, r.watched, r.heading} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Begin prints the banner, the layout table and the legend. It is called
// once, before the first Report; Report calls it when the caller did not.
func (r *Renderer) Begin(layout frame.Layout) error {
	if r.started {
		return r.err
	}
	r.started = true
	r.layout = layout
	if r.opts.Format == FormatJSON {
		r.doc.Layout = layoutJSON(layout)
		return nil
	}
	r.banner("CONTROLLED MEMORY CORRUPTION DEMO")
	r.layoutTable()
	r.legend()
	return r.err
}

// Report renders one finished run.
func (r *Renderer) Report(run *scenario.RunResult) error {
	if err := r.Begin(r.layout); err != nil {
		return err
	}
	if r.opts.Format == FormatJSON {
		r.doc.Runs = append(r.doc.Runs, runJSON(run))
		return nil
	}
	r.run(run)
	return r.err
}

// Verified records the outcome of a repeat run.
func (r *Renderer) Verified(res scenario.VerifyResult) error {
	if r.opts.Format == FormatJSON {
		r.doc.Verify = &VerifyJSON{Scenario: res.First.Scenario.Name, Identical: res.Identical, Mismatch: res.Mismatch}
		return nil
	}
	if res.Identical {
		r.printf("verify: %s ran twice on fresh frames, snapshots and outcome identical\n\n", res.First.Scenario.Name)
	} else {
		r.printf("verify: %s is NOT reproducible: %s\n\n", res.First.Scenario.Name, res.Mismatch)
	}
	return r.err
}

// Finish prints the takeaways block, or writes the JSON document.
func (r *Renderer) Finish() error {
	if r.opts.Format == FormatJSON {
		if err := r.Begin(r.layout); err != nil {
			return err
		}
		return writeJSON(r.out, &r.doc)
	}
	if r.opts.Takeaways {
		r.takeaways()
	}
	return r.err
}

// WriteLayout prints only the layout table.
func WriteLayout(w io.Writer, layout frame.Layout, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, layoutJSON(layout))
	}
	r := New(w, Options{})
	r.layout = layout
	r.layoutTable()
	r.printf("Field boundaries: %v\n", layout.Boundaries())
	return r.err
}

func (r *Renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.out, format, args...)
}
