package main

import (
	"fmt"
	"io"

	"canary/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if err := timer.WriteSummary(out); err != nil {
		fmt.Fprintf(out, "timings: %v\n", err)
	}
}
