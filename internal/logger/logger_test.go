package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/deppfellow/defect-service/internal/config"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tc := range testCases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	if got := GetPgxTraceLogLevel(zerolog.DebugLevel); got != 5 {
		t.Errorf("debug = %d, want 5", got)
	}
	if got := GetPgxTraceLogLevel(zerolog.ErrorLevel); got != 2 {
		t.Errorf("error = %d, want 2", got)
	}
	if got := GetPgxTraceLogLevel(zerolog.Disabled); got != 1 {
		t.Errorf("disabled = %d, want 1", got)
	}
}

func TestLoggerServiceWithoutLicense(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	ls := NewLoggerService(cfg)
	if ls.GetApplication() != nil {
		t.Fatal("expected nil New Relic application without a license key")
	}
	ls.Shutdown()

	var nilService *LoggerService
	if nilService.GetApplication() != nil {
		t.Fatal("nil service must report nil application")
	}
}

func TestNewLoggerUsesConfiguredLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"
	l := NewLogger(cfg)
	if l.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", l.GetLevel())
	}
	same := WithTraceContext(l, nil)
	if same.GetLevel() != zerolog.WarnLevel {
		t.Errorf("WithTraceContext(nil) changed level to %v", same.GetLevel())
	}
}
