package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/config"
	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
	"github.com/eungjin-cigro/cursorflow-sub004/internal/proc"
)

var statusCmd = &cobra.Command{
	Use:   "status <run-dir>",
	Short: "Show reconciled lane statuses for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runDir := args[0]
		checker := proc.NewChecker()

		summary := checker.FlowSummary(runDir)
		fmt.Println(styleHeading.Render("Run: ") + styleValue.Render(runDir))
		fmt.Printf("%s %d lanes", styleLabel.Render("total:"), summary.Total)
		for _, st := range []models.ActualStatus{
			models.StatusRunning, models.StatusCompleted, models.StatusFailed,
			models.StatusDead, models.StatusPending, models.StatusUnknown,
		} {
			if n := summary.Counts[st]; n > 0 {
				fmt.Printf("  %s %d", styleLabel.Render(string(st)+":"), n)
			}
		}
		fmt.Println()

		for _, lane := range config.Lanes(runDir) {
			status := checker.LaneStatus(config.LaneDir(runDir, lane), lane)
			printLaneStatus(status)
		}
		return nil
	},
}

func printLaneStatus(s models.LaneProcessStatus) {
	line := fmt.Sprintf("  %-16s %s", s.Lane, statusBadge(s.ActualStatus))
	if s.Stale {
		line += " " + badgeDead.Render("(stale)")
	}
	if s.PID != nil {
		line += styleLabel.Render(fmt.Sprintf("  pid=%d", *s.PID))
	}
	if s.Duration > 0 {
		line += styleLabel.Render("  " + s.Duration.Round(time.Second).String())
	}
	if s.Command != "" {
		line += styleLabel.Render(fmt.Sprintf("  %s cpu=%.1f%% mem=%.0fMB", s.Command, s.CPUPercent, s.MemoryMB))
	}
	fmt.Println(line)
}

func statusBadge(s models.ActualStatus) string {
	label := fmt.Sprintf("%-9s", string(s))
	switch s {
	case models.StatusRunning:
		return badgeRunning.Render(label)
	case models.StatusCompleted:
		return badgeCompleted.Render(label)
	case models.StatusFailed:
		return badgeFailed.Render(label)
	case models.StatusDead:
		return badgeDead.Render(label)
	case models.StatusPending:
		return badgePending.Render(label)
	default:
		return badgeUnknown.Render(label)
	}
}
