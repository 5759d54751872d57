package services

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"WARN", zap.WarnLevel},
		{" error ", zap.ErrorLevel},
		{"", zap.InfoLevel},
		{"verbose", zap.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseLevel(tc.in); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNewLogger_TestEnvIsNoOp(t *testing.T) {
	os.Setenv("GO_ENV", "test")
	defer os.Unsetenv("GO_ENV")

	if _, ok := NewLogger("chat").(*NoOpLogger); !ok {
		t.Error("Expected NoOpLogger when GO_ENV=test")
	}
}

func TestNewLogger_Development(t *testing.T) {
	os.Unsetenv("GO_ENV")

	logger := NewLoggerTo("chat", t.TempDir()+"/chat.log")
	zl, ok := logger.(*ZapLogger)
	if !ok {
		t.Fatalf("Expected *ZapLogger, got %T", logger)
	}
	zl.Info("hello", "key", "value")
	_ = zl.Sync()
}
