package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"climate-server/internal/config"
	"climate-server/internal/db"
)

func testConfig(path string) config.Config {
	return config.Config{
		AppEnv:       "dev",
		HTTPAddr:     ":0",
		SQLiteDriver: db.DriverMattn,
		SQLitePath:   path,
	}
}

func TestRun_InitThenInspect(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	cfg := testConfig(path)

	var out bytes.Buffer
	if err := run(ctx, []string{"init"}, cfg, &out, logger); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out.String(), "applied 0001") {
		t.Errorf("init output = %q; want applied 0001", out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"init"}, cfg, &out, logger); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out.String(), "already up to date") {
		t.Errorf("second init output = %q; want up to date", out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"inspect"}, cfg, &out, logger); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"stations:     0", "measurements: 0", "latest date:  none"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("inspect output = %q; want %q", out.String(), want)
		}
	}
}

func TestRun_PathFlag(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "other.sqlite")

	var out bytes.Buffer
	if err := run(ctx, []string{"-path", path, "init"}, testConfig("unused.sqlite"), &out, logger); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output = %q; want path %q", out.String(), path)
	}
}

func TestRun_BadUsage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(filepath.Join(t.TempDir(), "x.sqlite"))

	for _, args := range [][]string{nil, {"migrate"}, {"init", "inspect"}} {
		var out bytes.Buffer
		if err := run(context.Background(), args, cfg, &out, logger); err == nil {
			t.Errorf("run(%v) error = nil; want error", args)
		}
		if !strings.Contains(out.String(), "usage:") {
			t.Errorf("run(%v) output = %q; want usage", args, out.String())
		}
	}
}
