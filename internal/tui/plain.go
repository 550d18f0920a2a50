package tui

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/cchexcode/bobr/internal/color"
	"github.com/cchexcode/bobr/internal/multiplex"
)

var _ multiplex.Renderer = (*PlainRenderer)(nil)

// PlainRenderer writes one line per task transition, for runs where stderr is
// not a terminal (CI logs, pipes). Stderr lines are passed through with a
// task prefix; stdout captures are not echoed.
type PlainRenderer struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	done  int
}

// NewPlainRenderer creates a PlainRenderer writing to w.
func NewPlainRenderer(w io.Writer, total int) *PlainRenderer {
	return &PlainRenderer{w: w, total: total}
}

// Render implements multiplex.Renderer.Render.
func (p *PlainRenderer) Render(ev multiplex.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Type {
	case multiplex.EventStarted:
		fmt.Fprintf(p.w, "task %d: %s\n", ev.TaskID, color.Colorize("running", color.FgYellow))

	case multiplex.EventStderrLine:
		fmt.Fprintf(p.w, "task %d: |> %s\n", ev.TaskID, ev.Data.Line)

	case multiplex.EventStdoutCaptured:
		// Stdout belongs to the structured result.

	case multiplex.EventCompleted:
		p.done++

		if ev.Data.Success {
			fmt.Fprintf(p.w, "task %d: %s\n", ev.TaskID, color.Colorize("success (0)", color.FgGreen))
			return
		}

		code := "unknown"
		if ev.Data.ExitCode != nil {
			code = strconv.Itoa(*ev.Data.ExitCode)
		}

		fmt.Fprintf(p.w, "task %d: %s\n", ev.TaskID,
			color.Colorize("failed ("+code+")", color.FgRed))
	}
}

// Close implements multiplex.Renderer.Close.
func (p *PlainRenderer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "done: %d/%d task(s) completed\n", p.done, p.total)
}
