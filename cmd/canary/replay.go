package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"canary/internal/record"
	"canary/internal/trace"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Render a recorded run without touching memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	replayCmd.Flags().String("ui", "off", "step through the timeline interactively (auto|on|off)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	renderer, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	useUI, err := readUIFlag(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rec, err := record.Load(args[0])
	if err != nil {
		return err
	}
	tr := trace.FromContext(cmd.Context())
	span := trace.Begin(tr, trace.ScopeRun, "replay", 0).WithExtra("tool", rec.Tool)
	defer span.End(fmt.Sprintf("%d runs", len(rec.Runs)))

	if err := renderer.Begin(rec.Layout); err != nil {
		return err
	}
	for _, run := range rec.Runs {
		if err := renderer.Report(run); err != nil {
			return err
		}
	}
	if err := renderer.Finish(); err != nil {
		return err
	}
	if useUI {
		return runTimelineUI("replay "+args[0], rec.Result())
	}
	return nil
}
