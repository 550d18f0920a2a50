package multiplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestReporterApplyStatusTransitions(t *testing.T) {
	tasks := newTasks([]string{"true"})
	r := newReporter(tasks, DefaultStderrTail, NullRenderer{})

	r.apply(newEvent(0, EventStarted, EventData{}))
	assert.Equal(t, StatusRunning, tasks[0].Status)
	assert.False(t, r.done())

	r.apply(newEvent(0, EventCompleted, EventData{Success: true, ExitCode: intPtr(0)}))
	assert.Equal(t, StatusSucceeded, tasks[0].Status)
	assert.True(t, r.done())
}

func TestReporterApplyFailure(t *testing.T) {
	tasks := newTasks([]string{"false"})
	r := newReporter(tasks, DefaultStderrTail, NullRenderer{})

	r.apply(newEvent(0, EventCompleted, EventData{Success: false, ExitCode: intPtr(1)}))
	assert.Equal(t, StatusFailed, tasks[0].Status)
	require.NotNil(t, tasks[0].ExitCode)
	assert.Equal(t, 1, *tasks[0].ExitCode)
}

func TestReporterStderrEviction(t *testing.T) {
	tasks := newTasks([]string{"noisy"})
	r := newReporter(tasks, 2, NullRenderer{})

	for _, line := range []string{"one", "two", "three", "four"} {
		r.apply(newEvent(0, EventStderrLine, EventData{Line: line}))
	}

	assert.Equal(t, []string{"three", "four"}, tasks[0].RecentStderr)
}

func TestReporterStdoutReplace(t *testing.T) {
	tasks := newTasks([]string{"echo"})
	r := newReporter(tasks, DefaultStderrTail, NullRenderer{})

	r.apply(newEvent(0, EventStdoutCaptured, EventData{Content: "hello\n"}))
	assert.Equal(t, "hello\n", tasks[0].Stdout)
}

func TestReporterConsumeForwardsAndCloses(t *testing.T) {
	tasks := newTasks([]string{"true"})
	rec := &recordingRenderer{}
	r := newReporter(tasks, DefaultStderrTail, rec)

	events := make(chan Event, 4)
	events <- newEvent(0, EventStarted, EventData{})
	events <- newEvent(0, EventStdoutCaptured, EventData{})
	events <- newEvent(0, EventCompleted, EventData{Success: true, ExitCode: intPtr(0)})
	close(events)

	r.consume(events)

	assert.Len(t, rec.events, 3)
	assert.True(t, rec.closed)
	assert.True(t, r.done())
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusRunning, "running"},
		{StatusSucceeded, "succeeded"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		et   EventType
		want string
	}{
		{EventStarted, "started"},
		{EventStderrLine, "stderr"},
		{EventStdoutCaptured, "stdout"},
		{EventCompleted, "completed"},
		{EventType(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.et.String())
	}
}
