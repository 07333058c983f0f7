package sse

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/rx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/events", h)
	return r
}

func stream(t *testing.T, h gin.HandlerFunc) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	newRouter(h).ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("got content type %q, want text/event-stream", ct)
	}
	return rec.Body.String()
}

func assertOrder(t *testing.T, body string, parts ...string) {
	t.Helper()
	last := -1
	for _, part := range parts {
		idx := strings.Index(body, part)
		if idx < 0 {
			t.Fatalf("missing %q in body:\n%s", part, body)
		}
		if idx < last {
			t.Fatalf("%q out of order in body:\n%s", part, body)
		}
		last = idx
	}
}

func TestHandler_StreamsValuesThenComplete(t *testing.T) {
	h := Handler(rx.Just(1, 2, 3), Config{}, WithLogger(logger.Nop()))
	body := stream(t, h)

	assertOrder(t, body,
		"event: connected\n",
		"event: message\ndata: 1\n\n",
		"event: message\ndata: 2\n\n",
		"event: message\ndata: 3\n\n",
		"event: complete\ndata: {}\n\n",
	)
}

func TestHandler_FailureSendsErrorEvent(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"app error", errors.InvalidInput("n", "odd"), `"code":"INVALID_INPUT"`},
		{"plain error", stderrors.New("boom"), `"code":"INTERNAL_ERROR"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := stream(t, Handler(rx.Fail[int](tc.err), Config{}, WithLogger(logger.Nop())))

			assertOrder(t, body, "event: connected\n", "event: error\n", tc.wantCode)
			if strings.Contains(body, "event: complete") {
				t.Error("failure stream should not send complete")
			}
		})
	}
}

func TestHandler_DropsWhenBufferFull(t *testing.T) {
	body := stream(t, Handler(rx.Just(1, 2, 3), Config{Buffer: 1}, WithLogger(logger.Nop())))

	assertOrder(t, body, "data: 1\n\n", "event: complete\n")
	if strings.Contains(body, "data: 2\n") || strings.Contains(body, "data: 3\n") {
		t.Errorf("expected values beyond the buffer to be dropped:\n%s", body)
	}
}

func TestHandler_DisconnectCancelsSubscription(t *testing.T) {
	subject := rx.NewSubject[string](rx.WithLogger(logger.Nop()))
	h := Handler(subject.Publisher(), Config{}, WithLogger(logger.Nop()))

	ctx, cancel := context.WithCancel(context.Background())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		newRouter(h).ServeHTTP(rec, req)
	}()

	waitFor(t, func() bool { return subject.Len() == 1 })
	subject.Send("hello")
	cancel()
	<-done

	if subject.Len() != 0 {
		t.Errorf("got %d registrations after disconnect, want 0", subject.Len())
	}
	if strings.Contains(rec.Body.String(), "event: complete") {
		t.Error("disconnected stream should not complete")
	}
}

func TestComponent_StopClosesStreams(t *testing.T) {
	hub := NewHub()
	comp := NewComponent(hub, "/events")
	subject := rx.NewSubject[int](rx.WithLogger(logger.Nop()))
	h := Handler(subject.Publisher(), Config{}, WithHub(hub), WithLogger(logger.Nop()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		newRouter(h).ServeHTTP(rec, req)
	}()

	waitFor(t, func() bool { return hub.GetClientCount() == 1 })
	if h := comp.Health(context.Background()); h.Message != "1 clients connected" {
		t.Errorf("got health message %q", h.Message)
	}

	if err := comp.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after stop")
	}
	if subject.Len() != 0 {
		t.Errorf("got %d registrations after stop, want 0", subject.Len())
	}

	late := httptest.NewRecorder()
	newRouter(h).ServeHTTP(late, httptest.NewRequest(http.MethodGet, "/events", nil))
	if late.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d after stop, want %d", late.Code, http.StatusServiceUnavailable)
	}
}

func TestComponent_StopAfterFinishSendsComplete(t *testing.T) {
	hub := NewHub()
	comp := NewComponent(hub, "/events")
	subject := rx.NewSubject[int](rx.WithLogger(logger.Nop()))
	h := Handler(subject.Publisher(), Config{}, WithHub(hub), WithLogger(logger.Nop()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		newRouter(h).ServeHTTP(rec, req)
	}()

	waitFor(t, func() bool { return hub.GetClientCount() == 1 })
	subject.Send(7)
	subject.Finish()
	if err := comp.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after stop")
	}

	assertOrder(t, rec.Body.String(), "data: 7\n\n", "event: complete\n")
}

func TestComponent_DescribeListsClients(t *testing.T) {
	hub := NewHub()
	comp := NewComponent(hub, "/events")
	if d := comp.Describe(); d.Details != "Path: /events" {
		t.Errorf("got details %q with no clients", d.Details)
	}

	client := NewClient("c-1", 1, logger.Nop())
	hub.Register(client)
	if d := comp.Describe(); d.Details != "Path: /events, clients: c-1" {
		t.Errorf("got details %q", d.Details)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.KeepAlive != 30*time.Second || cfg.Buffer != 256 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := Config{KeepAlive: -time.Second}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative keep_alive")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}
