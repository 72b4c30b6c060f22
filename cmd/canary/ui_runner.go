package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"canary/internal/scenario"
	"canary/internal/ui"
)

// runTimelineUI lets the user step through a finished result.
func runTimelineUI(title string, res *scenario.Result) error {
	program := tea.NewProgram(ui.NewTimelineModel(title, res), tea.WithOutput(os.Stdout))
	_, err := program.Run()
	return err
}
