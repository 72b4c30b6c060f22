package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"canary/internal/frame"
	"canary/internal/observe"
	"canary/internal/scenario"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	changedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	watchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	plainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	faultStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

type timelineModel struct {
	title  string
	layout frame.Layout
	runs   []*scenario.RunResult
	run    int
	step   int // -1 is the initial snapshot
	prog   progress.Model
	width  int
}

// NewTimelineModel returns a Bubble Tea model that steps through the
// snapshots of finished runs. It only reads res.
func NewTimelineModel(title string, res *scenario.Result) tea.Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 56
	return &timelineModel{
		title:  title,
		layout: res.Layout,
		runs:   res.Runs,
		step:   -1,
		prog:   prog,
		width:  80,
	}
}

func (m *timelineModel) Init() tea.Cmd { return nil }

func (m *timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "right", "l", " ":
			if m.step < m.steps()-1 {
				m.step++
			}
		case "left", "h":
			if m.step > -1 {
				m.step--
			}
		case "home", "g":
			m.step = -1
		case "end", "G":
			m.step = m.steps() - 1
		case "down", "j", "tab":
			if m.run < len(m.runs)-1 {
				m.run++
				m.step = -1
			}
		case "up", "k", "shift+tab":
			if m.run > 0 {
				m.run--
				m.step = -1
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	}
	return m, nil
}

func (m *timelineModel) steps() int {
	if len(m.runs) == 0 {
		return 0
	}
	return len(m.runs[m.run].Snapshots)
}

func (m *timelineModel) View() string {
	if len(m.runs) == 0 {
		return "no runs recorded\n"
	}
	run := m.runs[m.run]

	var b strings.Builder
	header := fmt.Sprintf("%s: %s (run %d/%d)", m.title, run.Scenario.Name, m.run+1, len(m.runs))
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")

	prev, cur := m.pair(run)
	label := "init"
	if m.step >= 0 {
		label = fmt.Sprintf("step %d/%d  buffer[%d] = 0x%02x", m.step+1, m.steps(), cur.Step.Index, cur.Step.Value)
	}
	b.WriteString("  " + label + "\n\n")
	b.WriteString("  " + m.image(run, prev, cur) + "\n\n")
	b.WriteString(fmt.Sprintf("  length=%d  num=%d  guard=0x%08X\n", cur.Length, cur.Num, cur.Guard))
	if m.step == m.steps()-1 {
		b.WriteString("  " + outcome(run) + "\n")
	}
	b.WriteString("\n")

	pct := 0.0
	if n := m.steps(); n > 0 {
		pct = float64(m.step+1) / float64(n)
	}
	b.WriteString(m.prog.ViewAs(pct))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ step  ↑/↓ run  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *timelineModel) pair(run *scenario.RunResult) (prev, cur observe.Snapshot) {
	switch {
	case m.step < 0:
		return run.Initial, run.Initial
	case m.step == 0:
		return run.Initial, run.Snapshots[0]
	default:
		return run.Snapshots[m.step-1], run.Snapshots[m.step]
	}
}

// image renders the frame bytes of cur. A byte is corrupted once any
// earlier step changed it.
func (m *timelineModel) image(run *scenario.RunResult, prev, cur observe.Snapshot) string {
	var corrupted [frame.Size]bool
	for _, s := range run.Snapshots[:max(m.step, 0)] {
		for i := range s.Image {
			if s.Image[i] != run.Initial.Image[i] {
				corrupted[i] = true
			}
		}
	}
	bounds := m.layout.Boundaries()
	var b strings.Builder
	for i, v := range cur.Image {
		if len(bounds) > 0 && bounds[0] == i {
			b.WriteString("| ")
			bounds = bounds[1:]
		}
		cell := fmt.Sprintf("%02x ", v)
		switch {
		case v != prev.Image[i]:
			b.WriteString(changedStyle.Render(cell))
		case m.layout.Watched(i) && !corrupted[i]:
			b.WriteString(watchedStyle.Render(cell))
		default:
			b.WriteString(plainStyle.Render(cell))
		}
	}
	return b.String()
}

func outcome(run *scenario.RunResult) string {
	if ev := run.Outcome.Fault; ev != nil {
		return faultStyle.Render(fmt.Sprintf("FAULT %s: consumer trusted length %d, valid [%d,%d]", ev.Code, ev.Attempted, ev.Lo, ev.Hi))
	}
	return okStyle.Render(fmt.Sprintf("consumer sum = %d", run.Outcome.Sum))
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// the tail counts toward width
	return runewidth.Truncate(value, width, "...")
}
