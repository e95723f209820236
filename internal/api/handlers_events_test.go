// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/websocket"
)

func newEventsServer(t *testing.T, hub *websocket.Hub, origins []string) *httptest.Server {
	t.Helper()
	mc := DefaultChiMiddlewareConfig()
	mc.RateLimitDisabled = true
	h := NewHandler(&fakeRecommender{}, nil, HandlerConfig{
		Version:        "test",
		Events:         hub,
		AllowedOrigins: origins,
	}, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(h, NewChiMiddleware(mc), zerolog.Nop()).SetupChi())
	t.Cleanup(srv.Close)
	return srv
}

func runHub(t *testing.T) *websocket.Hub {
	t.Helper()
	hub := websocket.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	deadline := time.Now().Add(2 * time.Second)
	for !hub.Running() {
		if time.Now().After(deadline) {
			t.Fatal("hub did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return hub
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/index/events"
}

func TestIndexEvents_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		hub  *websocket.Hub
	}{
		{"no hub", nil},
		{"stopped hub", websocket.NewHub(zerolog.Nop())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeRecommender{}, nil, HandlerConfig{Events: tt.hub}, zerolog.Nop())
			mc := DefaultChiMiddlewareConfig()
			mc.RateLimitDisabled = true
			srv := NewRouter(h, NewChiMiddleware(mc), zerolog.Nop()).SetupChi()

			w, env := do(t, srv, http.MethodGet, "/api/v1/index/events")
			if w.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != ErrCodeEventsDisabled {
				t.Errorf("status = %d, envelope = %+v", w.Code, env)
			}
		})
	}
}

func TestIndexEvents_OriginCheck(t *testing.T) {
	srv := newEventsServer(t, runHub(t), []string{"https://movies.example.com"})

	for _, origin := range []string{"", "https://evil.example.com"} {
		header := http.Header{}
		if origin != "" {
			header.Set("Origin", origin)
		}
		conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
		if err == nil {
			conn.Close()
			t.Errorf("origin %q: dial should fail", origin)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("origin %q: response = %+v, want 403", origin, resp)
		}
		if resp != nil {
			resp.Body.Close()
		}
	}
}

func TestIndexEvents_Stream(t *testing.T) {
	hub := runHub(t)
	srv := newEventsServer(t, hub, []string{"https://movies.example.com"})

	header := http.Header{"Origin": {"https://movies.example.com"}}
	conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.IndexPublished(recommend.IndexStats{Version: 7, Items: 5}, time.Second)

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Type string               `json:"type"`
		Data websocket.IndexEvent `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != websocket.MessageTypeIndexPublished || msg.Data.Version != 7 || msg.Data.Items != 5 {
		t.Errorf("message = %+v", msg)
	}
}
