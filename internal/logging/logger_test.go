package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"climate-server/internal/config"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}

	logger := newWithWriter(&buf, cfg, "1.2.3", "climate-server")
	logger.Info("hello", "route", "GET /api/v1.0/stations")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v: %q", err, buf.String())
	}
	for k, want := range map[string]string{
		"msg":     "hello",
		"app":     "climate-server",
		"version": "1.2.3",
		"env":     "prod",
		"route":   "GET /api/v1.0/stations",
	} {
		if rec[k] != want {
			t.Errorf("%s = %v; want %q", k, rec[k], want)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}

	logger := newWithWriter(&buf, cfg, "dev", "climate-server")
	logger.Info("dropped")
	logger.Debug("dropped")

	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}
}

func TestNew_DevWritesText(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}

	logger := newWithWriter(&buf, cfg, "dev", "climate-server")
	logger.Debug("sql", "op", "query")

	out := buf.String()
	if !strings.Contains(out, "sql") || !strings.Contains(out, "climate-server") {
		t.Errorf("dev output = %q; want message and app name", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("dev output looks like JSON: %q", out)
	}
}
