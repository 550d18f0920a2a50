package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cchexcode/bobr/internal/ctxlog"
	"github.com/cchexcode/bobr/internal/multiplex"
	"golang.org/x/term"
)

var _ multiplex.Renderer = (*Renderer)(nil)

// Renderer implements multiplex.Renderer by forwarding engine events into a
// running bubbletea program.
type Renderer struct {
	program *tea.Program
}

// Render implements multiplex.Renderer.Render.
func (r *Renderer) Render(ev multiplex.Event) {
	r.program.Send(eventMsg{Event: ev})
}

// Close implements multiplex.Renderer.Close. The program quits on receipt,
// leaving the alternate screen; the final draw happens afterwards via
// Model.WriteSummary.
func (r *Renderer) Close() {
	r.program.Send(finishedMsg{})
}

// Run attaches a dashboard to the multiplexer and executes the run. With a
// terminal on stderr the bubbletea alternate-screen dashboard is used;
// otherwise a plain line renderer keeps output pipe-friendly. The cancel
// function aborts the run when the user quits the dashboard.
func Run(
	ctx context.Context,
	cancel context.CancelFunc,
	m *multiplex.Multiplexer,
	commands []string,
) (*multiplex.Result, error) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		m.Renderer = NewPlainRenderer(os.Stderr, len(commands))
		return m.Run(ctx)
	}

	model := NewModel(cancel, commands, m.StderrTail)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	m.Renderer = &Renderer{program: program}

	type outcome struct {
		res *multiplex.Result
		err error
	}

	resCh := make(chan outcome, 1)

	go func() {
		res, err := m.Run(ctx)
		resCh <- outcome{res: res, err: err}
	}()

	final, tuiErr := program.Run()
	out := <-resCh

	if tuiErr != nil {
		ctxlog.Error(ctx, "dashboard failed", "error", tuiErr)
	}

	if out.err == nil {
		if fm, ok := final.(*Model); ok {
			if err := fm.WriteSummary(os.Stderr); err != nil {
				ctxlog.Error(ctx, "failed to write summary", "error", err)
			}
		}
	}

	return out.res, out.err
}
