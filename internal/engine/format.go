package engine

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

// lanePalette is the fixed color cycle assigned to lanes in discovery
// order. Colors are stable for a lane's lifetime within one engine.
var lanePalette = []string{"39", "212", "84", "214", "141", "220", "51", "203"}

// Level styles for the type-indicator column.
var (
	styleErrorTag = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	styleWarnTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleDebugTag = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleInfoTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// typeIndicators maps entry types to fixed-width column tags.
var typeIndicators = map[models.EntryType]string{
	models.TypeUser:       "USER",
	models.TypeAssistant:  "ASST",
	models.TypeTool:       "TOOL",
	models.TypeToolResult: "TRES",
	models.TypeResult:     "DONE",
	models.TypeThinking:   "THNK",
	models.TypeSystem:     "SYST",
	models.TypeError:      "ERR!",
	models.TypeWarn:       "WARN",
	models.TypeDebug:      "DBG ",
	models.TypeInfo:       "INFO",
	models.TypeStdout:     "OUT ",
	models.TypeStderr:     "ERR ",
}

// FormatOptions control which columns FormatEntry renders.
type FormatOptions struct {
	ShowLane      bool
	ShowTimestamp bool
}

// FormatEntry renders one entry as a single display line with
// fixed-width lane and type-indicator columns.
func FormatEntry(e models.BufferedLogEntry, opts FormatOptions) string {
	var line string

	if opts.ShowTimestamp {
		line += styleDim.Render(e.Timestamp.Format("15:04:05")) + " "
	}

	if opts.ShowLane {
		label := e.Lane
		if len(label) > 12 {
			label = label[:12]
		}
		laneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color))
		line += laneStyle.Render(fmt.Sprintf("%-12s", label)) + " "
	}

	line += levelStyle(e.Level).Render(typeIndicator(e.Type)) + " "
	line += e.Message
	return line
}

func typeIndicator(t models.EntryType) string {
	if tag, ok := typeIndicators[t]; ok {
		return tag
	}
	return "    "
}

func levelStyle(level models.LogLevel) lipgloss.Style {
	switch level {
	case models.LevelError:
		return styleErrorTag
	case models.LevelWarn:
		return styleWarnTag
	case models.LevelDebug:
		return styleDebugTag
	default:
		return styleInfoTag
	}
}
