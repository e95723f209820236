// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestSlogHandler_Handle(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.LevelDebug - 4, "trace"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewSlogHandler(zerolog.New(&buf)))
			logger.Log(context.Background(), tt.level, "service event", "service", "index")

			m := decodeLine(t, &buf)
			if m["level"] != tt.want || m["message"] != "service event" || m["service"] != "index" {
				t.Errorf("line = %v", m)
			}
		})
	}
}

func TestSlogHandler_AttrKinds(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf)))
	logger.Info("kinds",
		slog.String("s", "v"),
		slog.Int("i", 3),
		slog.Uint64("u", 4),
		slog.Float64("f", 1.5),
		slog.Bool("b", true),
		slog.Duration("d", time.Second),
		slog.Any("err", errors.New("boom")),
		slog.Group("g", slog.Int("n", 1)),
	)

	m := decodeLine(t, &buf)
	checks := map[string]any{
		"s": "v", "i": float64(3), "u": float64(4), "f": 1.5, "b": true,
		"err": "boom", "g.n": float64(1),
	}
	for k, want := range checks {
		if m[k] != want {
			t.Errorf("%s = %v, want %v", k, m[k], want)
		}
	}
	if _, ok := m["d"]; !ok {
		t.Error("duration attribute missing")
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf))).
		With("supervisor", "reelmatch").
		WithGroup("event")
	logger.Info("restart", "service", "http")

	m := decodeLine(t, &buf)
	if m["supervisor"] != "reelmatch" {
		t.Errorf("pre-configured attribute missing: %v", m)
	}
	if m["event.service"] != "http" {
		t.Errorf("grouped key missing: %v", m)
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
	if h.WithAttrs(nil) != h {
		t.Error("WithAttrs(nil) should return the same handler")
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("error should be enabled at warn")
	}
}

func TestNewSlogLogger(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	useLogger(NewTestLogger(&buf))

	NewSlogLogger().Warn("through global")
	if !strings.Contains(buf.String(), "through global") {
		t.Errorf("output = %s", buf.String())
	}
}
