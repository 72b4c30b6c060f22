package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"canary/internal/scenario"
)

func newModel(t *testing.T, cfg scenario.Config) *timelineModel {
	t.Helper()
	res, err := (&scenario.Runner{}).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return NewTimelineModel("canary", res).(*timelineModel)
}

func press(m *timelineModel, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func TestTimelineStepping(t *testing.T) {
	m := newModel(t, scenario.Default())
	if !strings.Contains(m.View(), "init") {
		t.Fatalf("first view is not the initial snapshot:\n%s", m.View())
	}

	right := tea.KeyMsg{Type: tea.KeyRight}
	press(m, right, right, right, right, right, right, right, right, right)
	view := m.View()
	if !strings.Contains(view, "step 9/20") || !strings.Contains(view, "length=8 ") {
		t.Fatalf("view after 9 steps:\n%s", view)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnd})
	view = m.View()
	if !strings.Contains(view, "guard=0x13121110") || !strings.Contains(view, "FAULT F1001") {
		t.Fatalf("last view:\n%s", view)
	}

	press(m, right)
	if m.step != 19 {
		t.Fatalf("stepped past the end: %d", m.step)
	}
	press(m, tea.KeyMsg{Type: tea.KeyHome}, tea.KeyMsg{Type: tea.KeyLeft})
	if m.step != -1 {
		t.Fatalf("stepped before init: %d", m.step)
	}
}

func TestTimelineSwitchesRuns(t *testing.T) {
	m := newModel(t, scenario.Sweep())
	down := tea.KeyMsg{Type: tea.KeyDown}
	press(m, tea.KeyMsg{Type: tea.KeyRight}, down)
	if m.run != 1 || m.step != -1 {
		t.Fatalf("run=%d step=%d after switching", m.run, m.step)
	}
	press(m, down, down, down, down)
	if m.run != 4 {
		t.Fatalf("run = %d, want last run", m.run)
	}
	if !strings.Contains(m.View(), "write-12 (run 5/5)") {
		t.Fatalf("header:\n%s", m.View())
	}
}

func TestTimelineQuit(t *testing.T) {
	m := newModel(t, scenario.Default())
	cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("q must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q returned %T", cmd())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("overflow-scenario", 10); got != "overflo..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
