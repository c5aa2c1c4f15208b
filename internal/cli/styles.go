package cli

import "github.com/charmbracelet/lipgloss"

// Adaptive colors for CLI output.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// Reconciled status badge styles.
var (
	badgeRunning   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	badgeCompleted = lipgloss.NewStyle().Foreground(colorGreen)
	badgeFailed    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	badgeDead      = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	badgePending   = lipgloss.NewStyle().Foreground(colorDim)
	badgeUnknown   = lipgloss.NewStyle().Foreground(colorYellow)
)
