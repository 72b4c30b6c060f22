package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"canary/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "canary",
	Short: "Controlled memory-corruption demonstrator",
	Long: `canary writes past the end of a 5-byte buffer inside a fixed-layout frame,
shows after every write which neighbouring field changed, and then runs a
bounds-checked consumer that trusts the corrupted length field.

The consumer's bounds fault is caught, recorded and reported; reaching the
report is success, so the exit status is 0 even when the consumer faults.

Build without optimizations so every write and read really happens:

  go build -gcflags=all='-N -l' ./cmd/canary`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runDemo,
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show phase timings on stderr")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, .ndjson for JSON lines)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|step|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring buffer")
}

// main executes the root command. An error from any command exits with
// status 1; a demonstrated consumer fault is not an error.
func main() {
	rootCmd.Version = version.Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
