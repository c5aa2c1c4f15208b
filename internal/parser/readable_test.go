package parser

import (
	"testing"
	"time"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

func TestDecodeReadableLine_ISOTimestamp(t *testing.T) {
	fallback := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	d := DecodeReadableLine("[2024-01-01T00:00:00.000Z] [worker-a] ❌ build failed", fallback)

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !d.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", d.Timestamp, want)
	}
	if d.Level != models.LevelError {
		t.Errorf("level = %q, want error", d.Level)
	}
	if d.Type != models.TypeError {
		t.Errorf("type = %q, want error", d.Type)
	}
	if d.Message != "❌ build failed" {
		t.Errorf("message = %q, want %q", d.Message, "❌ build failed")
	}
}

func TestDecodeReadableLine_ClockTimestamp(t *testing.T) {
	fallback := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	d := DecodeReadableLine("[14:30:05] hello world", fallback)

	want := time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC)
	if !d.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", d.Timestamp, want)
	}
	if d.Message != "hello world" {
		t.Errorf("message = %q, want %q", d.Message, "hello world")
	}
}

func TestDecodeReadableLine_FallbackTimestamp(t *testing.T) {
	fallback := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	d := DecodeReadableLine("plain output", fallback)

	if !d.Timestamp.Equal(fallback) {
		t.Errorf("timestamp = %v, want fallback %v", d.Timestamp, fallback)
	}
	if d.Type != models.TypeStdout {
		t.Errorf("type = %q, want stdout", d.Type)
	}
}

func TestDecodeReadableLine_Classification(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		level models.LogLevel
		typ   models.EntryType
	}{
		{"error glyph", "❌ compile failed", models.LevelError, models.TypeError},
		{"error keyword", "Error: file not found", models.LevelError, models.TypeError},
		{"err substring", "stderr output captured", models.LevelError, models.TypeError},
		{"warning", "WARN: disk almost full", models.LevelWarn, models.TypeWarn},
		{"debug", "debug: cache miss", models.LevelDebug, models.TypeDebug},
		{"info", "INFO starting task", models.LevelInfo, models.TypeInfo},
		{"default stdout", "building module", models.LevelInfo, models.TypeStdout},
		{"error beats warn", "error while parsing warning list", models.LevelError, models.TypeError},
	}

	fallback := time.Now()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecodeReadableLine(tt.line, fallback)
			if d.Level != tt.level {
				t.Errorf("level = %q, want %q", d.Level, tt.level)
			}
			if d.Type != tt.typ {
				t.Errorf("type = %q, want %q", d.Type, tt.typ)
			}
		})
	}
}

func TestDecodeReadableLine_StripsOneLabel(t *testing.T) {
	d := DecodeReadableLine("[10:11:12] [lane-b] [keep] message", time.Now())
	if d.Message != "[keep] message" {
		t.Errorf("message = %q, want %q", d.Message, "[keep] message")
	}
}

func TestStripControl(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"sgr colors", "\x1b[31mred\x1b[0m", "red"},
		{"osc title", "\x1b]0;title\x07text", "text"},
		{"cr overwrite", "progress 1\rprogress 2", "progress 1\nprogress 2"},
		{"bare control chars", "\x07bell\x08", "bell"},
		{"keeps tabs and newlines", "a\tb\nc", "a\tb\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripControl(tt.in); got != tt.want {
				t.Errorf("StripControl(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
