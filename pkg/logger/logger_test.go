package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/analystlens/pkg/config"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name:      "debug level",
			cfg:       &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name:      "info level",
			cfg:       &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "warn level",
			cfg:       &config.Config{Env: "staging", LogLevel: "warn", LogFormat: "json"},
			wantLevel: zerolog.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if NewWithWriter(tt.cfg, &buf) == nil {
				t.Fatal("Expected logger to be created")
			}

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v (%s)", err, buf.String())
	}
	return entry
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log := &Logger{zlog: zerolog.New(&buf)}

	log.WithFields(map[string]interface{}{
		"analyst_id": 42,
		"ticker":     "AAPL",
	}).Info("predictions loaded")

	entry := decodeEntry(t, &buf)
	if entry["analyst_id"] != float64(42) {
		t.Errorf("Expected analyst_id 42, got %v", entry["analyst_id"])
	}
	if entry["ticker"] != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %v", entry["ticker"])
	}
	if entry["message"] != "predictions loaded" {
		t.Errorf("Unexpected message %v", entry["message"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log := &Logger{zlog: zerolog.New(&buf)}

	log.WithError(errors.New("lookup failed")).Error("page failed")

	entry := decodeEntry(t, &buf)
	if entry["error"] != "lookup failed" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
	if entry["level"] != "error" {
		t.Errorf("Expected error level, got %v", entry["level"])
	}
}

func TestWithComponentAndContext(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log := &Logger{zlog: zerolog.New(&buf)}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	log.WithComponent("prediction.service").WithContext(ctx).Info("done")

	entry := decodeEntry(t, &buf)
	if entry["component"] != "prediction.service" {
		t.Errorf("Expected component field, got %v", entry["component"])
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("Expected request_id field, got %v", entry["request_id"])
	}
}

func TestWithContext_NoRequestID(t *testing.T) {
	log := Nop()
	if got := log.WithContext(context.Background()); got != log {
		t.Error("Expected the same logger when ctx has no request id")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "development", LogLevel: "info", LogFormat: "console"}

	NewWithWriter(cfg, &buf).Info("console message")

	if !strings.Contains(buf.String(), "console message") {
		t.Errorf("Expected output to contain message, got: %s", buf.String())
	}
}
