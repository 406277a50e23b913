package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/mortgage-affordability/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input     string
		expected  zapcore.Level
		expectErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ParseLevel(%q) error = %v, expectErr %v", tt.input, err, tt.expectErr)
			}
			if !tt.expectErr && level != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		override  string
		expectErr bool
		enabled   zapcore.Level
	}{
		{
			name:    "Defaults to info json",
			cfg:     config.LoggingConfig{},
			enabled: zapcore.InfoLevel,
		},
		{
			name:    "Console debug",
			cfg:     config.LoggingConfig{Level: "debug", Format: "console"},
			enabled: zapcore.DebugLevel,
		},
		{
			name:     "Override wins",
			cfg:      config.LoggingConfig{Level: "error"},
			override: "debug",
			enabled:  zapcore.DebugLevel,
		},
		{
			name:      "Invalid level",
			cfg:       config.LoggingConfig{Level: "loud"},
			expectErr: true,
		},
		{
			name:      "Invalid format",
			cfg:       config.LoggingConfig{Format: "xml"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("expected level %v to be enabled", tt.enabled)
			}
		})
	}
}

func TestNewLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "affordability.log")

	logger, err := NewLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("written to file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}
