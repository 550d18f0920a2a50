package multiplex

import "time"

// EventType indicates what happened to a task.
type EventType int

const (
	// EventStarted indicates the task acquired a permit and its process is
	// being spawned.
	EventStarted EventType = iota
	// EventStderrLine indicates one new line of stderr output.
	EventStderrLine
	// EventStdoutCaptured indicates the task's stdout stream has been fully
	// drained; the event carries the complete capture.
	EventStdoutCaptured
	// EventCompleted indicates the task reached a terminal state.
	EventCompleted
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventStderrLine:
		return "stderr"
	case EventStdoutCaptured:
		return "stdout"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is a message from a worker to the reporter describing a task state
// change or captured output. Events from the same task arrive in emission
// order; events from different tasks interleave arbitrarily.
type Event struct {
	TaskID    int
	Type      EventType
	Timestamp time.Time
	Data      EventData
}

// EventData carries the type-specific payload of an event.
type EventData struct {
	// Line is the stderr line for EventStderrLine.
	Line string
	// Content is the full stdout capture for EventStdoutCaptured.
	Content string
	// Success reports whether the process exited zero, for EventCompleted.
	Success bool
	// ExitCode is the process exit code for EventCompleted; nil when the
	// process was killed by a signal or never spawned.
	ExitCode *int
}

func newEvent(id int, t EventType, data EventData) Event {
	return Event{TaskID: id, Type: t, Timestamp: time.Now(), Data: data}
}
