package logs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for i, tt := range tests {
		level, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("tests[%d] - error wrong. wantErr=%v, got=%v", i, tt.wantErr, err)
		}
		if level != tt.expected {
			t.Errorf("tests[%d] - level wrong. expected=%s, got=%s", i, tt.expected, level)
		}
	}
}

func TestLoggerWritesText(t *testing.T) {
	if isSystemdService() {
		t.Skip("records go to the journal under systemd")
	}

	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("analysis finished", "semantic", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record should be filtered, got %q", out)
	}
	if !strings.Contains(out, "analysis finished") || !strings.Contains(out, "semantic=2") {
		t.Errorf("info record missing, got %q", out)
	}
}

func TestToJournalKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"msg", "MSG"},
		{"token_count", "TOKEN_COUNT"},
		{"http.status", "HTTP_STATUS"},
		{"_private", "PRIVATE"},
	}

	for i, tt := range tests {
		if got := toJournalKey(tt.input); got != tt.expected {
			t.Errorf("tests[%d] - key wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}
