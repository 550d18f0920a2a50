package multiplex

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/cchexcode/bobr/internal/ctxlog"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultStderrTail is the default number of recent stderr lines kept per
	// task for the dashboard.
	DefaultStderrTail = 3

	// eventBufferSize bounds the event channel. Sends block when the buffer
	// is full; the reporter always drains, so every event is delivered.
	eventBufferSize = 64

	// maxStderrLineSize caps a single scanned stderr line.
	maxStderrLineSize = 1024 * 1024

	defaultKillGrace = 5 * time.Second
)

var (
	// ErrInterrupted is returned by Run when the run was aborted by the
	// caller's context before every task completed. No Result is produced.
	ErrInterrupted = errors.New("run interrupted")
	// ErrNoProgram is returned when the program prefix is empty.
	ErrNoProgram = errors.New("program prefix must not be empty")
)

// nowFunc allows tests to stub the run's clock.
var nowFunc = time.Now

// Multiplexer runs a fixed set of commands concurrently and owns their task
// registry for the lifetime of the run.
type Multiplexer struct {
	// Program is the invocation prefix: interpreter plus fixed flags, e.g.
	// ["/bin/sh", "-c"]. The task command is appended as the final argument.
	Program []string
	// StderrTail is the per-task bound on recent stderr lines.
	StderrTail int
	// Parallelism caps how many child processes are live at once. Zero or
	// negative means one permit per task, i.e. effectively unbounded.
	Parallelism int
	// Renderer receives every applied event. Defaults to NullRenderer.
	Renderer Renderer
	// KillGrace is how long a child gets between SIGTERM and SIGKILL when
	// the run is interrupted.
	KillGrace time.Duration

	tasks []*Task
}

// New creates a Multiplexer for the given program prefix and resolved command
// list. Task ids are assigned by position in commands.
func New(program, commands []string) *Multiplexer {
	return &Multiplexer{
		Program:    program,
		StderrTail: DefaultStderrTail,
		Renderer:   NullRenderer{},
		KillGrace:  defaultKillGrace,
		tasks:      newTasks(commands),
	}
}

// Run executes every task exactly once and blocks until the run completes or
// the context is cancelled. On normal completion it returns the assembled
// Result. On interruption it returns ErrInterrupted and no Result; live
// children are signalled to terminate and the reporter is drained before
// returning, but tasks that never started stay pending.
func (m *Multiplexer) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.Logger(ctx).With("component", "multiplexer")

	if len(m.Program) == 0 {
		return nil, ErrNoProgram
	}

	parallelism := m.Parallelism
	if parallelism <= 0 {
		parallelism = len(m.tasks)
	}

	tail := m.StderrTail
	if tail < 0 {
		tail = 0
	}

	renderer := m.Renderer
	if renderer == nil {
		renderer = NullRenderer{}
	}

	logger.Debug("starting run", "tasks", len(m.tasks), "parallelism", parallelism)

	started := nowFunc()

	events := make(chan Event, eventBufferSize)
	permits := semaphore.NewWeighted(int64(parallelism))

	wg := &sync.WaitGroup{}
	for _, t := range m.tasks {
		wg.Add(1)

		go func(id int, command string) {
			defer wg.Done()
			m.runTask(ctx, id, command, permits, events)
		}(t.ID, t.Command)
	}

	// The channel closes only once every producer has returned; that is what
	// lets the reporter's consumption loop end.
	poolDone := make(chan struct{})

	go func() {
		wg.Wait()
		close(events)
		close(poolDone)
	}()

	rep := newReporter(m.tasks, tail, renderer)
	reporterDone := make(chan struct{})

	go func() {
		rep.consume(events)
		close(reporterDone)
	}()

	var interrupted bool

	select {
	case <-ctx.Done():
		interrupted = true
	case <-poolDone:
	case <-reporterDone:
	}

	// The registry must be quiescent before anything reads it. Workers exit
	// promptly after cancellation because each child process is signalled via
	// its command context, so this wait is bounded by the kill grace.
	<-reporterDone

	if interrupted {
		logger.Info("run aborted", "cause", ctx.Err())
		return nil, errors.Join(ErrInterrupted, ctx.Err())
	}

	ended := nowFunc()

	logger.Debug("run complete", "duration", ended.Sub(started))

	res := &Result{
		Metadata: Metadata{Started: started, Ended: ended},
		Tasks:    make(map[int]TaskResult, len(m.tasks)),
	}
	for _, t := range m.tasks {
		res.Tasks[t.ID] = TaskResult{Stdout: t.Stdout}
	}

	return res, nil
}

// runTask is one worker: it acquires a permit, spawns the child process,
// streams stderr line-by-line, surfaces stdout once drained, waits for exit
// and emits the terminal event. Failures are absorbed into the task's
// outcome; a worker never aborts the run.
func (m *Multiplexer) runTask(
	ctx context.Context,
	id int,
	command string,
	permits *semaphore.Weighted,
	events chan<- Event,
) {
	if err := permits.Acquire(ctx, 1); err != nil {
		// Run was aborted before this task got a permit; it stays pending.
		return
	}
	// The permit is held until the process has fully exited, keeping the OS
	// process count within the cap.
	defer permits.Release(1)

	logger := ctxlog.Logger(ctx).With("task", id)

	events <- newEvent(id, EventStarted, EventData{})

	args := make([]string, 0, len(m.Program))
	args = append(args, m.Program[1:]...)
	args = append(args, command)

	cmd := exec.CommandContext(ctx, m.Program[0], args...)
	// Stdin stays nil so the child reads from the null device.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = m.KillGrace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		logger.Debug("stdout pipe failed", "error", err)
		m.failTask(id, events)

		return
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		logger.Debug("stderr pipe failed", "error", err)
		m.failTask(id, events)

		return
	}

	if err := cmd.Start(); err != nil {
		logger.Debug("spawn failed", "error", err)
		m.failTask(id, events)

		return
	}

	logger.Debug("process started", "pid", cmd.Process.Pid)

	// Stdout is drained concurrently to keep the child from blocking on a
	// full pipe, but its single event is emitted only after stderr closes,
	// preserving the task's event order.
	stdoutCh := make(chan string, 1)

	go func() {
		b, _ := io.ReadAll(stdout)
		stdoutCh <- string(b)
	}()

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStderrLineSize)

	for scanner.Scan() {
		events <- newEvent(id, EventStderrLine, EventData{Line: scanner.Text()})
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		// The scanner gave up mid-stream, e.g. on a line exceeding
		// maxStderrLineSize. The rest of the pipe must still be drained or the
		// child blocks on a full pipe and never exits.
		logger.Debug("stderr read failed", "error", scanErr)

		_, _ = io.Copy(io.Discard, stderr)
	}

	events <- newEvent(id, EventStdoutCaptured, EventData{Content: <-stdoutCh})

	waitErr := cmd.Wait()
	success, exitCode := classifyExit(waitErr)

	if scanErr != nil {
		// A stderr read failure is a pipe error, not a process outcome.
		success, exitCode = false, nil
	}

	logger.Debug("process finished", "success", success, "error", waitErr)

	events <- newEvent(id, EventCompleted, EventData{Success: success, ExitCode: exitCode})
}

// failTask emits the terminal event for a task whose process never produced
// output: spawn and pipe failures map to a failed outcome with no exit code.
func (m *Multiplexer) failTask(id int, events chan<- Event) {
	events <- newEvent(id, EventStdoutCaptured, EventData{})
	events <- newEvent(id, EventCompleted, EventData{Success: false, ExitCode: nil})
}

// classifyExit maps the wait outcome onto the task outcome: exit zero is
// success, a normal non-zero exit keeps its code, and a signal death or
// wait/IO failure has no code at all.
func classifyExit(waitErr error) (success bool, exitCode *int) {
	var exitErr *exec.ExitError

	switch {
	case waitErr == nil:
		code := 0
		return true, &code
	case errors.As(waitErr, &exitErr):
		if !exitErr.Exited() {
			// Terminated by a signal.
			return false, nil
		}

		code := exitErr.ExitCode()

		return false, &code
	default:
		return false, nil
	}
}
