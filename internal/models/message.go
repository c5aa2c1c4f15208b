package models

import "time"

// MessageMeta carries optional metadata attached to a parsed message.
type MessageMeta struct {
	ToolName   string
	CallID     string
	DurationMs int64
	IsError    bool
	Subtype    string
	LineCount  int
}

// ParsedMessage is one discrete message reconstructed from the agent's
// JSON event stream. Content is never empty at emission time.
type ParsedMessage struct {
	Type      string // system | user | assistant | thinking | tool | tool_result | result
	Role      string
	Content   string
	Timestamp time.Time // start-of-message time in source time-base
	Meta      *MessageMeta
}
