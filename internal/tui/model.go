package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cchexcode/bobr/internal/multiplex"
)

// row is the dashboard's view of one task.
type row struct {
	id       int
	command  string
	status   multiplex.Status
	exitCode *int
	stderr   []string
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	rows      []*row
	tail      int
	remaining int
	cancel    context.CancelFunc
	spinner   spinner.Model
	styles    *Styles
	width     int
	height    int
	quitting  bool
	done      bool
}

// Styles contains the lipgloss styling for the dashboard.
type Styles struct {
	Title   lipgloss.Style
	Command lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Stderr  lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates the default dashboard styling.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		Command: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Stderr: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
	}
}

// NewModel creates a dashboard model for the given command list. The cancel
// function is invoked when the user aborts from the keyboard.
func NewModel(cancel context.CancelFunc, commands []string, tail int) *Model {
	rows := make([]*row, len(commands))
	for i, c := range commands {
		rows[i] = &row{id: i, command: c, status: multiplex.StatusPending}
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("11"))),
	)

	return &Model{
		rows:      rows,
		tail:      tail,
		remaining: len(rows),
		cancel:    cancel,
		spinner:   sp,
		styles:    NewStyles(),
	}
}

// eventMsg wraps an engine event for the tea framework.
type eventMsg struct {
	Event multiplex.Event
}

// finishedMsg indicates the reporter has drained every event.
type finishedMsg struct{}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Abort the run; the program quits once the reporter drains.
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}

			return m, nil
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case eventMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case finishedMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(ev multiplex.Event) {
	if ev.TaskID < 0 || ev.TaskID >= len(m.rows) {
		return
	}

	r := m.rows[ev.TaskID]

	switch ev.Type {
	case multiplex.EventStarted:
		r.status = multiplex.StatusRunning

	case multiplex.EventStderrLine:
		r.stderr = append(r.stderr, ev.Data.Line)
		if len(r.stderr) > m.tail {
			r.stderr = r.stderr[1:]
		}

	case multiplex.EventStdoutCaptured:
		// Stdout is not shown live; it belongs to the structured result.

	case multiplex.EventCompleted:
		if ev.Data.Success {
			r.status = multiplex.StatusSucceeded
		} else {
			r.status = multiplex.StatusFailed
		}

		r.exitCode = ev.Data.ExitCode
		m.remaining--
	}
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return "Aborting, waiting for tasks to stop...\n"
	}

	b := strings.Builder{}
	b.WriteString(m.styles.Title.Render("bobr"))
	b.WriteString("\n\n")
	m.renderRows(&b, true)
	b.WriteString("\n")

	if m.remaining > 0 {
		b.WriteString(m.styles.Help.Render(
			fmt.Sprintf("%d task(s) remaining · q/ctrl+c to abort", m.remaining)))
	}

	b.WriteString("\n")

	return b.String()
}

// WriteSummary writes the final, non-live dashboard state. It is called after
// the program has left the alternate screen so the summary persists.
func (m *Model) WriteSummary(w io.Writer) error {
	b := strings.Builder{}
	m.renderRows(&b, false)
	b.WriteString("\nDone.\n")

	_, err := io.WriteString(w, b.String())

	return err
}

func (m *Model) renderRows(b *strings.Builder, live bool) {
	for _, r := range m.rows {
		b.WriteString(m.styles.Command.Render(
			fmt.Sprintf("⇒ (%d) %s", r.id, strings.TrimSpace(r.command))))
		b.WriteString("\n ↳ Status: ")
		b.WriteString(m.statusString(r, live))
		b.WriteString("\n")

		if len(r.stderr) > 0 {
			b.WriteString(" ↳ Stderr:\n")

			for _, line := range r.stderr {
				b.WriteString(m.styles.Stderr.Render("   |> " + line))
				b.WriteString("\n")
			}
		}
	}
}

func (m *Model) statusString(r *row, live bool) string {
	switch r.status {
	case multiplex.StatusPending:
		return m.styles.Pending.Render("PENDING")
	case multiplex.StatusRunning:
		label := "RUNNING"
		if live {
			label = m.spinner.View() + label
		}

		return m.styles.Running.Render(label)
	case multiplex.StatusSucceeded:
		return m.styles.Success.Render("SUCCESS (0)")
	case multiplex.StatusFailed:
		code := "unknown"
		if r.exitCode != nil {
			code = strconv.Itoa(*r.exitCode)
		}

		return m.styles.Failed.Render("FAILED (" + code + ")")
	default:
		return r.status.String()
	}
}
