package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		// Case-insensitive: flag values arrive in whatever case the user typed.
		{"DEBUG", LevelDebug},
		{"Warn", LevelWarn},
		{"eRrOr", LevelError},

		// Empty and unrecognized fall back to Info.
		{"", LevelInfo},
		{"trace", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"logfmt", FormatText}, // unrecognized defaults to text
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("fault injected", "id", "f-1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "fault injected" {
		t.Errorf("msg = %v, want %q", entry["msg"], "fault injected")
	}
	if entry["id"] != "f-1" {
		t.Errorf("id = %v, want %q", entry["id"], "f-1")
	}
}

func TestNew_TextIsTheDefaultFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	logger.Info("cleanup complete", "removed", 3)

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("expected text output, got JSON: %s", out)
	}
	if !strings.Contains(out, "msg=\"cleanup complete\"") || !strings.Contains(out, "removed=3") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Debug("targeted removal failed")
	logger.Info("fault removed")
	if buf.Len() != 0 {
		t.Errorf("below-threshold records should be dropped, got: %s", buf.String())
	}

	logger.Warn("bulk-clear failed")
	if !strings.Contains(buf.String(), "bulk-clear failed") {
		t.Errorf("warn record missing: %s", buf.String())
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("Nop() returned nil")
	}
	// Must be safe to log at any level with no destination configured.
	logger.Debug("dropped")
	logger.Error("dropped", "err", "boom")
}
