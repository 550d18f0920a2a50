package multiplex

import "time"

// Result is the immutable snapshot of a completed run: timestamps plus the
// full stdout of every task, keyed by task id. Task status and stderr are
// dashboard-only and are not serialized.
type Result struct {
	Metadata Metadata           `json:"metadata" yaml:"metadata"`
	Tasks    map[int]TaskResult `json:"tasks" yaml:"tasks"`
}

// Metadata holds the run's start and end timestamps, captured when the run
// begins and when the completion race resolves.
type Metadata struct {
	Started time.Time `json:"started" yaml:"started"`
	Ended   time.Time `json:"ended" yaml:"ended"`
}

// TaskResult is the exported per-task data.
type TaskResult struct {
	Stdout string `json:"stdout" yaml:"stdout"`
}
