// Package tui renders a live transfer progress view on top of the engine's
// event stream.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/driftlight/snapsort/internal/engine"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7FB4CA")).Padding(0, 1)
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type eventMsg engine.Event

type streamClosedMsg struct{}

// Model implements the tea.Model interface for the transfer view.
type Model struct {
	events <-chan engine.Event
	cancel context.CancelFunc

	bar       progress.Model
	total     int
	completed int
	failed    int
	lastPath  string
	done      bool
	width     int
}

// New creates a progress view over the given event stream. cancel is invoked
// when the user aborts the run from the keyboard.
func New(events <-chan engine.Event, total int, cancel context.CancelFunc) Model {
	return Model{
		events: events,
		cancel: cancel,
		bar:    progress.New(progress.WithDefaultGradient()),
		total:  total,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8

	case eventMsg:
		m.completed = msg.Completed
		m.lastPath = msg.Path
		if !msg.Success {
			m.failed++
		}

		var percent float64
		if m.total > 0 {
			percent = float64(m.completed) / float64(m.total)
		}
		cmds := []tea.Cmd{m.bar.SetPercent(percent)}
		if m.completed >= m.total {
			m.done = true
		} else {
			cmds = append(cmds, waitForEvent(m.events))
		}
		return m, tea.Batch(cmds...)

	case streamClosedMsg:
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		if m.done && !m.bar.IsAnimating() {
			return m, tea.Quit
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("snapsort") + "\n\n")
	b.WriteString("  " + m.bar.View() + "\n\n")

	status := fmt.Sprintf("  %s %d/%d copied",
		successStyle.Render("▸"), m.completed-m.failed, m.total)
	if m.failed > 0 {
		status += failStyle.Render(fmt.Sprintf("  %d failed", m.failed))
	}
	b.WriteString(status + "\n")

	if m.lastPath != "" {
		b.WriteString(fileStyle.Render("  "+m.lastPath) + "\n")
	}

	b.WriteString(helpStyle.Render("  q/ctrl+c: abort"))
	return b.String()
}

// Run drives the progress view until the event stream ends or the user
// aborts.
func Run(events <-chan engine.Event, total int, cancel context.CancelFunc) error {
	p := tea.NewProgram(New(events, total, cancel))
	_, err := p.Run()
	return err
}
