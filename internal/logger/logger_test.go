package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
		{"fatal", FatalLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(LogConfig{Writer: &buf, Level: "warn"})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	log.Debug("hidden %d", 1)
	log.Info("hidden %d", 2)
	log.Warn("shown %d", 3)
	log.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("missing expected lines in %q", out)
	}

	buf.Reset()
	log.SetLevel(DebugLevel)
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG] now visible") {
		t.Errorf("expected debug output after SetLevel, got %q", buf.String())
	}
}

func TestNewLoggerInvalidOutput(t *testing.T) {
	if _, err := NewLogger(LogConfig{Output: "syslog"}); err == nil {
		t.Fatal("expected error for unknown output")
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := t.TempDir() + "/logs/docparse.log"
	log, err := NewLogger(LogConfig{Output: "file", FilePath: path, Level: "info"})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	log.Info("written")
}
