package proc

import (
	"strings"
	"time"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/config"
	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

// activeStatuses are the declared statuses that assert a live worker
// process. A lane declaring one of these without a live process is stale.
var activeStatuses = map[string]bool{
	"running":     true,
	"working":     true,
	"in_progress": true,
}

// Checker reconciles lane state records against OS process state. It
// holds no cache: every call re-reads the state file and re-probes.
type Checker struct {
	Prober Prober
	now    func() time.Time
}

// NewChecker creates a checker with the best available prober.
func NewChecker() *Checker {
	return &Checker{Prober: NewProber(), now: time.Now}
}

// LaneStatus reads a lane's declared state record and reconciles it
// against the OS. A missing record is a valid pending lane, not an error.
func (c *Checker) LaneStatus(laneDir, laneName string) models.LaneProcessStatus {
	status := models.LaneProcessStatus{
		Lane:           laneName,
		DeclaredStatus: "pending",
		ActualStatus:   models.StatusPending,
	}

	statePath := config.LaneStateFile(laneDir)
	if !config.FileExists(statePath) {
		return status
	}

	var state models.LaneState
	if err := config.LoadYAML(statePath, &state); err != nil {
		status.DeclaredStatus = ""
		status.ActualStatus = models.StatusUnknown
		return status
	}

	declared := strings.ToLower(strings.TrimSpace(state.Status))
	status.DeclaredStatus = declared
	status.PID = state.PID
	status.StartTime = parseStateTime(state.StartTime)
	status.EndTime = parseStateTime(state.EndTime)

	switch declared {
	case "completed":
		status.ActualStatus = models.StatusCompleted
	case "failed":
		status.ActualStatus = models.StatusFailed
	case "pending", "waiting", "":
		status.ActualStatus = models.StatusPending
	default:
		c.reconcileActive(&status, declared)
	}

	status.Duration = c.duration(status)
	return status
}

// reconcileActive handles declared statuses that imply a live process.
func (c *Checker) reconcileActive(status *models.LaneProcessStatus, declared string) {
	if status.PID == nil {
		// A queued-but-never-spawned lane has no pid by construction;
		// only the explicit active markers make a missing pid stale.
		if activeStatuses[declared] {
			status.ActualStatus = models.StatusDead
			status.Stale = true
		} else {
			status.ActualStatus = models.StatusPending
		}
		return
	}

	info := c.Prober.Probe(*status.PID)
	status.ProcessExists = info.Exists
	status.ProcessRunning = info.Running
	status.Command = info.Command
	status.Uptime = info.Uptime
	status.CPUPercent = info.CPUPercent
	status.MemoryMB = info.MemoryMB

	if info.Running {
		status.ActualStatus = models.StatusRunning
	} else {
		// The record claims active work but the process is gone.
		status.ActualStatus = models.StatusDead
		status.Stale = true
	}
}

// duration computes a lane's elapsed time from its declared timestamps.
func (c *Checker) duration(status models.LaneProcessStatus) time.Duration {
	switch {
	case !status.StartTime.IsZero() && !status.EndTime.IsZero():
		return status.EndTime.Sub(status.StartTime)
	case !status.StartTime.IsZero() && status.ActualStatus == models.StatusRunning:
		return c.now().Sub(status.StartTime)
	default:
		return 0
	}
}

// FlowSummary reconciles every lane under a run and aggregates counts
// by actual status.
func (c *Checker) FlowSummary(runDir string) models.FlowSummary {
	summary := models.FlowSummary{
		Counts: make(map[models.ActualStatus]int),
	}

	for _, lane := range config.Lanes(runDir) {
		status := c.LaneStatus(config.LaneDir(runDir, lane), lane)
		summary.Total++
		summary.Counts[status.ActualStatus]++
		if status.ActualStatus == models.StatusRunning {
			summary.IsAlive = true
		}
	}
	return summary
}

func parseStateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	return time.Time{}
}
