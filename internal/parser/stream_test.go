package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

func parseAll(p *StreamParser, lines ...string) []models.ParsedMessage {
	var out []models.ParsedMessage
	for _, line := range lines {
		out = append(out, p.ParseLine(line)...)
	}
	return append(out, p.Flush()...)
}

func TestStreamParser_AssistantAccumulation(t *testing.T) {
	p := NewStreamParser()
	out := parseAll(p,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"Hel"}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"lo"}]}}`,
		`{"type":"result","result":"done"}`,
	)

	if len(out) != 2 {
		t.Fatalf("got %d messages, want 2", len(out))
	}
	if out[0].Type != "assistant" || out[0].Content != "Hello" {
		t.Errorf("first message = %s %q, want assistant %q", out[0].Type, out[0].Content, "Hello")
	}
	if out[1].Type != "result" || out[1].Content != "done" {
		t.Errorf("second message = %s %q, want result %q", out[1].Type, out[1].Content, "done")
	}
}

func TestStreamParser_ThinkingDeltas(t *testing.T) {
	p := NewStreamParser()
	out := parseAll(p,
		`{"type":"thinking","subtype":"delta","text":"let me "}`,
		`{"type":"thinking","subtype":"delta","text":"think"}`,
		`{"type":"thinking","subtype":"completed"}`,
	)

	if len(out) != 1 {
		t.Fatalf("got %d messages, want 1", len(out))
	}
	if out[0].Type != "thinking" || out[0].Content != "let me think" {
		t.Errorf("message = %s %q, want thinking %q", out[0].Type, out[0].Content, "let me think")
	}
}

func TestStreamParser_RoleChangeFlushes(t *testing.T) {
	p := NewStreamParser()
	out := parseAll(p,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"answer"}]}}`,
		`{"type":"thinking","subtype":"delta","text":"hmm"}`,
	)

	if len(out) != 2 {
		t.Fatalf("got %d messages, want 2", len(out))
	}
	if out[0].Type != "assistant" || out[0].Content != "answer" {
		t.Errorf("first = %s %q", out[0].Type, out[0].Content)
	}
	if out[1].Type != "thinking" || out[1].Content != "hmm" {
		t.Errorf("second = %s %q", out[1].Type, out[1].Content)
	}
}

func TestStreamParser_ToolCallStartedFlushesAndEmits(t *testing.T) {
	p := NewStreamParser()
	out := parseAll(p,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"running a tool"}]}}`,
		`{"type":"tool_call","subtype":"started","tool_name":"read_file","call_id":"c1","args":{"path":"main.go"}}`,
	)

	if len(out) != 2 {
		t.Fatalf("got %d messages, want 2", len(out))
	}
	if out[0].Type != "assistant" {
		t.Errorf("first message type = %s, want assistant (flushed before tool)", out[0].Type)
	}
	tool := out[1]
	if tool.Type != "tool" {
		t.Fatalf("second message type = %s, want tool", tool.Type)
	}
	if !strings.Contains(tool.Content, "read_file") || !strings.Contains(tool.Content, "main.go") {
		t.Errorf("tool content = %q, want tool name and args", tool.Content)
	}
	if tool.Meta == nil || tool.Meta.ToolName != "read_file" || tool.Meta.CallID != "c1" {
		t.Errorf("tool meta = %+v, want tool_name and call_id", tool.Meta)
	}
}

func TestStreamParser_ToolCallCompleted(t *testing.T) {
	t.Run("success emits truncated result", func(t *testing.T) {
		p := NewStreamParser()
		long := strings.Repeat("x", 600)
		out := p.ParseLine(fmt.Sprintf(
			`{"type":"tool_call","subtype":"completed","tool_name":"read_file","success":true,"result":%q}`, long))

		if len(out) != 1 {
			t.Fatalf("got %d messages, want 1", len(out))
		}
		msg := out[0]
		if msg.Type != "tool_result" {
			t.Errorf("type = %s, want tool_result", msg.Type)
		}
		if !strings.HasSuffix(msg.Content, models.TruncationMarker) {
			t.Errorf("content not truncated: %d chars", len(msg.Content))
		}
		if len([]rune(msg.Content)) != models.DefaultMaxMessageLength+len(models.TruncationMarker) {
			t.Errorf("content length = %d runes", len([]rune(msg.Content)))
		}
		if msg.Meta == nil || msg.Meta.LineCount != 1 {
			t.Errorf("meta = %+v, want line count 1", msg.Meta)
		}
	})

	t.Run("failure is dropped", func(t *testing.T) {
		p := NewStreamParser()
		out := p.ParseLine(`{"type":"tool_call","subtype":"completed","tool_name":"read_file","success":false,"result":"boom"}`)
		if len(out) != 0 {
			t.Errorf("got %d messages, want 0", len(out))
		}
	})
}

func TestStreamParser_ResultMetadata(t *testing.T) {
	p := NewStreamParser()
	out := p.ParseLine(`{"type":"result","subtype":"success","result":"all good","duration_ms":1234,"is_error":false}`)

	if len(out) != 1 {
		t.Fatalf("got %d messages, want 1", len(out))
	}
	msg := out[0]
	if msg.Content != "all good" {
		t.Errorf("content = %q", msg.Content)
	}
	if msg.Meta == nil || msg.Meta.DurationMs != 1234 || msg.Meta.IsError || msg.Meta.Subtype != "success" {
		t.Errorf("meta = %+v", msg.Meta)
	}
}

func TestStreamParser_SystemAndUser(t *testing.T) {
	p := NewStreamParser()

	out := p.ParseLine(`{"type":"system","model":"opus","permission_mode":"auto"}`)
	if len(out) != 1 || out[0].Type != "system" {
		t.Fatalf("system: got %v", out)
	}
	if !strings.Contains(out[0].Content, "opus") || !strings.Contains(out[0].Content, "auto") {
		t.Errorf("system content = %q", out[0].Content)
	}

	out = p.ParseLine(`{"type":"user","message":{"content":[{"type":"text","text":"do the thing"}]}}`)
	if len(out) != 1 || out[0].Type != "user" || out[0].Content != "do the thing" {
		t.Fatalf("user: got %v", out)
	}

	// Empty user content is suppressed.
	out = p.ParseLine(`{"type":"user","message":{"content":[]}}`)
	if len(out) != 0 {
		t.Errorf("empty user emitted %d messages", len(out))
	}
}

func TestStreamParser_IgnoresGarbage(t *testing.T) {
	p := NewStreamParser()

	var out []models.ParsedMessage
	out = append(out, p.ParseLine(`{"type":"assistant","message":{"content":[{"type":"text","text":"Hel"}]}}`)...)
	out = append(out, p.ParseLine("not json at all")...)
	out = append(out, p.ParseLine(`{"broken`)...)
	out = append(out, p.ParseLine(`{"type":"mystery_event","payload":42}`)...)
	out = append(out, p.ParseLine(`{"type":"assistant","message":{"content":[{"type":"text","text":"lo"}]}}`)...)
	out = append(out, p.Flush()...)

	if len(out) != 1 {
		t.Fatalf("got %d messages, want 1", len(out))
	}
	if out[0].Content != "Hello" {
		t.Errorf("content = %q, want %q (garbage must not break accumulation)", out[0].Content, "Hello")
	}
}

func TestStreamParser_FlushAtBoundaryPreservesMessages(t *testing.T) {
	lines := []string{
		`{"type":"assistant","message":{"content":[{"type":"text","text":"Hel"}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"lo"}]}}`,
		`{"type":"thinking","subtype":"delta","text":"pondering"}`,
		`{"type":"result","result":"done"}`,
	}

	full := parseAll(NewStreamParser(), lines...)

	// Same stream with an artificial flush at the assistant/thinking
	// boundary: no message may be duplicated or lost.
	p := NewStreamParser()
	var split []models.ParsedMessage
	split = append(split, p.ParseLine(lines[0])...)
	split = append(split, p.ParseLine(lines[1])...)
	split = append(split, p.Flush()...)
	split = append(split, p.ParseLine(lines[2])...)
	split = append(split, p.ParseLine(lines[3])...)
	split = append(split, p.Flush()...)

	if len(full) != len(split) {
		t.Fatalf("full pass emitted %d, split pass emitted %d", len(full), len(split))
	}
	for i := range full {
		if full[i].Type != split[i].Type || full[i].Content != split[i].Content {
			t.Errorf("message %d differs: %s %q vs %s %q",
				i, full[i].Type, full[i].Content, split[i].Type, split[i].Content)
		}
	}
}

func TestStreamParser_NonTextBlocksIgnored(t *testing.T) {
	p := NewStreamParser()
	out := parseAll(p,
		`{"type":"assistant","message":{"content":[{"type":"image","text":"nope"},{"type":"text","text":"kept"}]}}`,
	)

	if len(out) != 1 || out[0].Content != "kept" {
		t.Fatalf("got %v, want single message %q", out, "kept")
	}
}

func TestStreamParser_FlushWhenIdle(t *testing.T) {
	p := NewStreamParser()
	if out := p.Flush(); len(out) != 0 {
		t.Errorf("idle flush emitted %d messages", len(out))
	}
}
