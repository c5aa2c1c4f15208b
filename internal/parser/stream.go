package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

// streamEvent mirrors one line of the agent's JSON event protocol.
// Unknown fields are ignored; the stream is best-effort by design.
type streamEvent struct {
	Type           string `json:"type"`
	Subtype        string `json:"subtype"`
	Timestamp      string `json:"timestamp"`
	TS             int64  `json:"ts"`
	Model          string `json:"model"`
	PermissionMode string `json:"permission_mode"`
	Text           string `json:"text"`
	ToolName       string `json:"tool_name"`
	CallID         string `json:"call_id"`
	Success        *bool  `json:"success"`
	DurationMs     int64  `json:"duration_ms"`
	IsError        bool   `json:"is_error"`

	Args   json.RawMessage `json:"args"`
	Result json.RawMessage `json:"result"`

	Message *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// contentBlock is one element of a structured content array.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// StreamParser incrementally reconstructs discrete messages from the
// JSON-lines event stream. Multi-chunk message types (assistant text,
// thinking) accumulate until a role change or an explicit completion
// signal; everything else emits immediately.
//
// The accumulation state is deliberately a single explicit variant:
// an empty role means idle, a non-empty role means accumulating text
// for that role since startTime.
type StreamParser struct {
	role      string
	text      strings.Builder
	startTime time.Time

	maxLen int
	now    func() time.Time
}

// NewStreamParser creates a parser with the default truncation cap for
// tool results.
func NewStreamParser() *StreamParser {
	return &StreamParser{
		maxLen: models.DefaultMaxMessageLength,
		now:    time.Now,
	}
}

// ParseLine ingests one line of the event stream and returns any
// messages it caused to be emitted. Non-JSON lines and malformed events
// are silently ignored: the stream is partial by nature and never fatal.
func (p *StreamParser) ParseLine(line string) []models.ParsedMessage {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	var ev streamEvent
	if err := json.Unmarshal([]byte(trimmed), &ev); err != nil {
		return nil
	}

	ts := p.eventTime(ev)

	switch ev.Type {
	case "system":
		return p.emitSystem(ev, ts)
	case "user":
		return p.emitUser(ev, ts)
	case "assistant":
		out := p.open("assistant", ts)
		if ev.Message != nil {
			p.text.WriteString(extractText(ev.Message.Content))
		}
		return out
	case "thinking":
		switch ev.Subtype {
		case "delta":
			out := p.open("thinking", ts)
			p.text.WriteString(ev.Text)
			return out
		case "completed":
			return p.Flush()
		}
		return nil
	case "tool_call":
		return p.handleToolCall(ev, ts)
	case "result":
		return p.handleResult(ev, ts)
	default:
		return nil
	}
}

// Flush forcibly emits whatever is currently accumulating and resets
// the parser to idle. Callers must flush at stream end or a trailing
// partial message is lost.
func (p *StreamParser) Flush() []models.ParsedMessage {
	if p.role == "" {
		return nil
	}

	content := p.text.String()
	role := p.role
	start := p.startTime

	p.role = ""
	p.text.Reset()
	p.startTime = time.Time{}

	if strings.TrimSpace(content) == "" {
		return nil
	}

	return []models.ParsedMessage{{
		Type:      role,
		Role:      role,
		Content:   content,
		Timestamp: start,
	}}
}

// open ensures an accumulation for role is active, flushing any prior
// accumulation for a different role first.
func (p *StreamParser) open(role string, ts time.Time) []models.ParsedMessage {
	if p.role == role {
		return nil
	}
	out := p.Flush()
	p.role = role
	p.startTime = ts
	return out
}

func (p *StreamParser) emitSystem(ev streamEvent, ts time.Time) []models.ParsedMessage {
	var parts []string
	if ev.Model != "" {
		parts = append(parts, "model: "+ev.Model)
	}
	if ev.PermissionMode != "" {
		parts = append(parts, "permissions: "+ev.PermissionMode)
	}
	if ev.Subtype != "" && len(parts) == 0 {
		parts = append(parts, ev.Subtype)
	}
	content := strings.Join(parts, ", ")
	if content == "" {
		return nil
	}

	return []models.ParsedMessage{{
		Type:      "system",
		Role:      "system",
		Content:   content,
		Timestamp: ts,
		Meta:      &models.MessageMeta{Subtype: ev.Subtype},
	}}
}

func (p *StreamParser) emitUser(ev streamEvent, ts time.Time) []models.ParsedMessage {
	var content string
	if ev.Message != nil {
		content = extractText(ev.Message.Content)
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}

	return []models.ParsedMessage{{
		Type:      "user",
		Role:      "user",
		Content:   content,
		Timestamp: ts,
	}}
}

func (p *StreamParser) handleToolCall(ev streamEvent, ts time.Time) []models.ParsedMessage {
	switch ev.Subtype {
	case "started":
		out := p.Flush()
		content := ev.ToolName
		if args := compactJSON(ev.Args); args != "" {
			content = fmt.Sprintf("%s %s", ev.ToolName, args)
		}
		if strings.TrimSpace(content) == "" {
			return out
		}
		return append(out, models.ParsedMessage{
			Type:      "tool",
			Role:      "assistant",
			Content:   content,
			Timestamp: ts,
			Meta: &models.MessageMeta{
				ToolName: ev.ToolName,
				CallID:   ev.CallID,
			},
		})
	case "completed":
		// Non-success completions carry no displayable output.
		if ev.Success == nil || !*ev.Success {
			return nil
		}
		content := extractText(ev.Result)
		if strings.TrimSpace(content) == "" {
			return nil
		}
		lineCount := strings.Count(content, "\n") + 1
		return []models.ParsedMessage{{
			Type:      "tool_result",
			Role:      "assistant",
			Content:   models.TruncateMessage(content, p.maxLen),
			Timestamp: ts,
			Meta: &models.MessageMeta{
				ToolName:  ev.ToolName,
				CallID:    ev.CallID,
				LineCount: lineCount,
			},
		}}
	}
	return nil
}

func (p *StreamParser) handleResult(ev streamEvent, ts time.Time) []models.ParsedMessage {
	out := p.Flush()
	content := extractText(ev.Result)
	if strings.TrimSpace(content) == "" {
		return out
	}
	return append(out, models.ParsedMessage{
		Type:      "result",
		Role:      "system",
		Content:   content,
		Timestamp: ts,
		Meta: &models.MessageMeta{
			DurationMs: ev.DurationMs,
			IsError:    ev.IsError,
			Subtype:    ev.Subtype,
		},
	})
}

// eventTime resolves an event's timestamp: RFC3339 string, then epoch
// milliseconds, then the wall clock.
func (p *StreamParser) eventTime(ev streamEvent) time.Time {
	if ev.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339Nano, ev.Timestamp); err == nil {
			return ts
		}
	}
	if ev.TS > 0 {
		return time.UnixMilli(ev.TS)
	}
	return p.now()
}

// extractText concatenates the textual parts of a content payload. The
// payload is either a bare string or an array of typed blocks, of which
// only "text" blocks contribute.
func extractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, b := range blocks {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// compactJSON renders a raw JSON value on one line, empty on failure.
func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
