package multiplex

// Status represents the lifecycle state of a task. Transitions are forward
// only: Pending to Running to one of the terminal states. A task whose
// process cannot be spawned moves straight from Running to Failed.
type Status int

const (
	// StatusPending indicates the task has not yet acquired a permit.
	StatusPending Status = iota
	// StatusRunning indicates the task's process has been spawned.
	StatusRunning
	// StatusSucceeded indicates the process exited with code zero.
	StatusSucceeded
	// StatusFailed indicates a non-zero exit, a signal death or a spawn failure.
	StatusFailed
)

// String implements the Stringer interface for Status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Task is one command to execute, identified by a stable integer id assigned
// by position in the resolved command list.
type Task struct {
	// ID is the dense zero-based identity of the task.
	ID int
	// Command is the literal command string handed to the program prefix.
	Command string
	// Status is the current lifecycle state, written only by the reporter.
	Status Status
	// ExitCode is the process exit code. It is nil while the task has not
	// completed, and stays nil for a task killed by a signal or one whose
	// process never spawned.
	ExitCode *int
	// RecentStderr holds the most recent stderr lines, oldest first, bounded
	// by the configured tail length.
	RecentStderr []string
	// Stdout is the full captured standard output, set once after the
	// process's stdout stream has been drained.
	Stdout string
}

// newTasks builds the task registry from the resolved command list.
func newTasks(commands []string) []*Task {
	tasks := make([]*Task, len(commands))
	for i, c := range commands {
		tasks[i] = &Task{ID: i, Command: c, Status: StatusPending}
	}

	return tasks
}
