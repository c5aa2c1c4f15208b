package models

import "time"

// LaneState is the declared state record a lane worker writes alongside
// its log. This engine only ever reads it.
type LaneState struct {
	Status           string `yaml:"status"`
	PID              *int   `yaml:"pid,omitempty"`
	StartTime        string `yaml:"start_time,omitempty"`
	EndTime          string `yaml:"end_time,omitempty"`
	CurrentTaskIndex int    `yaml:"current_task_index"`
	TotalTasks       int    `yaml:"total_tasks"`
	Error            string `yaml:"error,omitempty"`
}

// ActualStatus is a lane's reconciled status: its declared lifecycle
// status cross-checked against OS process existence.
type ActualStatus string

// Reconciled statuses.
const (
	StatusRunning   ActualStatus = "running"
	StatusDead      ActualStatus = "dead"
	StatusPending   ActualStatus = "pending"
	StatusCompleted ActualStatus = "completed"
	StatusFailed    ActualStatus = "failed"
	StatusUnknown   ActualStatus = "unknown"
)

// LaneProcessStatus is the reconciled view of one lane worker.
type LaneProcessStatus struct {
	Lane           string
	PID            *int
	ProcessExists  bool
	ProcessRunning bool
	DeclaredStatus string
	ActualStatus   ActualStatus
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration

	// Stale is true exactly when the declared status implies active work
	// but the OS process is gone.
	Stale bool

	// Process-table enrichment, best-effort.
	Command    string
	Uptime     time.Duration
	CPUPercent float64
	MemoryMB   float64
}

// FlowSummary aggregates the reconciled statuses of all lanes in a run.
type FlowSummary struct {
	Total   int
	Counts  map[ActualStatus]int
	IsAlive bool // at least one lane is running
}

// CanDelete reports whether destructive actions on the run are permitted.
func (s FlowSummary) CanDelete() bool {
	return !s.IsAlive
}
