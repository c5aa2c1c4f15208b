package models

import "time"

// LogLevel classifies the severity of a decoded log line.
type LogLevel string

// Log levels.
const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// EntryType is the semantic kind of a buffered log entry.
type EntryType string

// Entry types.
const (
	TypeUser       EntryType = "user"
	TypeAssistant  EntryType = "assistant"
	TypeTool       EntryType = "tool"
	TypeToolResult EntryType = "tool_result"
	TypeResult     EntryType = "result"
	TypeThinking   EntryType = "thinking"
	TypeSystem     EntryType = "system"
	TypeError      EntryType = "error"
	TypeWarn       EntryType = "warn"
	TypeDebug      EntryType = "debug"
	TypeInfo       EntryType = "info"
	TypeStdout     EntryType = "stdout"
	TypeStderr     EntryType = "stderr"
)

// Importance ranks entries for filtering. Higher values are more important.
type Importance int

// Importance ranks, lowest to highest.
const (
	ImportanceDebug Importance = iota
	ImportanceInfo
	ImportanceLow
	ImportanceMedium
	ImportanceHigh
	ImportanceCritical
)

var importanceNames = map[Importance]string{
	ImportanceDebug:    "debug",
	ImportanceInfo:     "info",
	ImportanceLow:      "low",
	ImportanceMedium:   "medium",
	ImportanceHigh:     "high",
	ImportanceCritical: "critical",
}

func (i Importance) String() string {
	if name, ok := importanceNames[i]; ok {
		return name
	}
	return "unknown"
}

// ParseImportance parses an importance name as used in CLI flags.
// Returns ImportanceDebug (the floor) for unrecognized names.
func ParseImportance(s string) Importance {
	for rank, name := range importanceNames {
		if name == s {
			return rank
		}
	}
	return ImportanceDebug
}

// BufferedLogEntry is one normalized, displayable unit of lane output.
// Entries are append-only: once buffered they are never mutated.
type BufferedLogEntry struct {
	ID         int64
	Timestamp  time.Time
	Lane       string
	Level      LogLevel
	Type       EntryType
	Message    string // truncated display message
	Importance Importance
	Color      string // stable per-lane display color

	// Pre-truncation originals, kept for lossless inspection.
	RawLevel   string
	RawType    string
	RawMessage string
}

// DefaultMaxMessageLength is the display truncation cap for entry messages.
const DefaultMaxMessageLength = 500

// TruncationMarker is appended to messages cut at the truncation cap.
const TruncationMarker = "..."

// TruncateMessage caps a display message at max runes, appending the
// truncation marker when anything was cut. max <= 0 means no cap.
func TruncateMessage(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + TruncationMarker
}

// InferImportance derives an entry's importance rank from its level and type.
func InferImportance(level LogLevel, typ EntryType) Importance {
	switch {
	case level == LevelError || typ == TypeResult:
		return ImportanceHigh
	case typ == TypeTool || typ == TypeToolResult:
		return ImportanceMedium
	case typ == TypeThinking || level == LevelDebug:
		return ImportanceDebug
	case typ == TypeAssistant || typ == TypeUser:
		return ImportanceMedium
	default:
		return ImportanceInfo
	}
}
