package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitLogger_ValidLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"upper case", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.level)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			logger := GetLogger()
			if logger == nil {
				t.Fatal("GetLogger() returned nil")
			}
		})
	}
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger("invalid")
	if err == nil {
		t.Error("expected error for invalid log level, got nil")
	}
}

func TestInitLoggerWithFormat_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := InitLoggerWithFormat("info", "json", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	Component("vm").Info("program terminated", "actor", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["component"] != "vm" {
		t.Errorf("component = %v, want vm", rec["component"])
	}
	if rec["actor"] != float64(3) {
		t.Errorf("actor = %v, want 3", rec["actor"])
	}
}

func TestInitLoggerWithFormat_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitLoggerWithFormat("warn", "text", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	GetLogger().Info("hidden")
	GetLogger().Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestInitLoggerWithFormat_InvalidFormat(t *testing.T) {
	if err := InitLoggerWithFormat("info", "xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid log format, got nil")
	}
}

func TestGetLogger_BeforeInit(t *testing.T) {
	// globalLoggerをリセット
	globalLogger = nil

	logger := GetLogger()
	if logger == nil {
		t.Error("GetLogger() should return default logger when not initialized")
	}

	// デフォルトロガーが返されることを確認
	if logger != slog.Default() {
		t.Error("GetLogger() should return slog.Default() when not initialized")
	}
}
