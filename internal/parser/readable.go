// Package parser decodes lane output: readable log lines and the
// streaming JSON event protocol emitted by agent processes.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

// DecodedLine is the result of decoding one readable log line.
type DecodedLine struct {
	Timestamp time.Time
	Message   string
	Level     models.LogLevel
	Type      models.EntryType
}

var (
	// \r followed by anything but \n is a terminal line overwrite.
	crOverwriteRe = regexp.MustCompile(`\r([^\n])`)

	isoTimestampRe   = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2}T[0-9:.+Z-]+)\]\s*`)
	clockTimestampRe = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2})\]\s*`)
	labelRe          = regexp.MustCompile(`^\[[^\]]*\]\s*`)
)

// StripControl removes ANSI escape sequences and control characters from
// a string. Carriage-return line overwrites become newlines so that
// progress-bar style output keeps its final state on its own line.
func StripControl(s string) string {
	s = ansi.Strip(s)
	s = crOverwriteRe.ReplaceAllString(s, "\n$1")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// DecodeReadableLine decodes one formatted log line into a timestamp,
// level, type, and message. Lines without a recognizable timestamp use
// the caller-supplied fallback time. The function is pure: it holds no
// state across calls.
func DecodeReadableLine(line string, fallback time.Time) DecodedLine {
	s := strings.TrimSpace(StripControl(line))

	ts := fallback
	if m := isoTimestampRe.FindStringSubmatch(s); m != nil {
		if parsed, err := time.Parse(time.RFC3339Nano, m[1]); err == nil {
			ts = parsed
		} else if parsed, err := time.Parse(time.RFC3339, m[1]); err == nil {
			ts = parsed
		}
		s = s[len(m[0]):]
	} else if m := clockTimestampRe.FindStringSubmatch(s); m != nil {
		if parsed, err := time.Parse("15:04:05", m[1]); err == nil {
			y, mo, d := fallback.Date()
			ts = time.Date(y, mo, d, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, fallback.Location())
		}
		s = s[len(m[0]):]
	}

	// One optional bracketed lane/context tag precedes the message.
	if m := labelRe.FindString(s); m != "" {
		s = s[len(m):]
	}

	s = strings.TrimSpace(s)
	level, typ := classifyLine(s)

	return DecodedLine{
		Timestamp: ts,
		Message:   s,
		Level:     level,
		Type:      typ,
	}
}

// classifyLine derives level and type from keyword and glyph markers,
// case-insensitive, in error > warn > debug > info precedence.
func classifyLine(s string) (models.LogLevel, models.EntryType) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(s, "❌") || strings.Contains(lower, "err"):
		return models.LevelError, models.TypeError
	case strings.Contains(lower, "warn"):
		return models.LevelWarn, models.TypeWarn
	case strings.Contains(lower, "debug"):
		return models.LevelDebug, models.TypeDebug
	case strings.Contains(lower, "info"):
		return models.LevelInfo, models.TypeInfo
	default:
		return models.LevelInfo, models.TypeStdout
	}
}
