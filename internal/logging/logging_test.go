package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"ltask/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.WarnLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"ERROR", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, zapcore.WarnLevel, false)
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry should be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing, got %q", out)
	}
}

func TestNew_DebugOverrides(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, zapcore.ErrorLevel, true)
	log.Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Errorf("expected debug entry, got %q", buf.String())
	}
}
