package multiplex

// reporter is the single consumer of the event channel and the sole writer of
// the task registry. After applying each event it forwards it to the
// renderer.
type reporter struct {
	tasks     []*Task
	tail      int
	remaining int
	renderer  Renderer
}

func newReporter(tasks []*Task, tail int, renderer Renderer) *reporter {
	return &reporter{
		tasks:     tasks,
		tail:      tail,
		remaining: len(tasks),
		renderer:  renderer,
	}
}

// consume drains the event channel until all producers have finished. The
// renderer's Close is the final draw and is called exactly once.
func (r *reporter) consume(events <-chan Event) {
	for ev := range events {
		r.apply(ev)
		r.renderer.Render(ev)
	}

	r.renderer.Close()
}

func (r *reporter) apply(ev Event) {
	t := r.tasks[ev.TaskID]

	switch ev.Type {
	case EventStarted:
		t.Status = StatusRunning

	case EventStderrLine:
		t.RecentStderr = append(t.RecentStderr, ev.Data.Line)
		if len(t.RecentStderr) > r.tail {
			t.RecentStderr = t.RecentStderr[1:]
		}

	case EventStdoutCaptured:
		t.Stdout = ev.Data.Content

	case EventCompleted:
		if ev.Data.Success {
			t.Status = StatusSucceeded
		} else {
			t.Status = StatusFailed
		}

		t.ExitCode = ev.Data.ExitCode
		r.remaining--
	}
}

// done reports whether every task has reached a terminal state.
func (r *reporter) done() bool {
	return r.remaining == 0
}
