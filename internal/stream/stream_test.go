package stream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hvillar/gastos/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startStreamServer runs a WebSocket endpoint that sends each frame in
// messages, then blocks until the client goes away.
func startStreamServer(t *testing.T, messages []string) *Opener {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// Hold the connection open until the client closes it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return NewOpener(srv.URL, "test-token", discardLogger())
}

func TestNextDecodesEvents(t *testing.T) {
	opener := startStreamServer(t, []string{
		`{"type":"initial_status","progress_percentage":20,"processed_emails":2,"accounts":[{"account_id":1,"status":"processing","processed_emails":2,"total_emails":9}]}`,
		`{"type":"account_update","account_id":1,"status":"completed","processed_emails":9,"total_emails":9,"detected_expenses":4}`,
	})

	sub, err := opener.OpenProgress(context.Background(), 42)
	if err != nil {
		t.Fatalf("OpenProgress: %v", err)
	}
	defer sub.Close()

	ev, err := sub.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Type != domain.EventInitialStatus || ev.Percent != 20 {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Accounts) != 1 || ev.Accounts[0].Total != 9 {
		t.Errorf("accounts = %+v", ev.Accounts)
	}

	ev, err = sub.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Type != domain.EventAccountUpdate || ev.AccountID != 1 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Status != domain.SyncCompleted || ev.Detected != 4 {
		t.Errorf("event = %+v", ev)
	}
}

func TestNextSkipsMalformedPayloads(t *testing.T) {
	opener := startStreamServer(t, []string{
		`{not json`,
		`{"type":"progress_update","progress_percentage":55}`,
	})

	sub, err := opener.OpenProgress(context.Background(), 42)
	if err != nil {
		t.Fatalf("OpenProgress: %v", err)
	}
	defer sub.Close()

	ev, err := sub.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Type != domain.EventProgressUpdate || ev.Percent != 55 {
		t.Errorf("expected the well-formed event after the bad frame, got %+v", ev)
	}
}

func TestCloseUnblocksNext(t *testing.T) {
	opener := startStreamServer(t, nil)

	sub, err := opener.OpenProgress(context.Background(), 42)
	if err != nil {
		t.Fatalf("OpenProgress: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := sub.Next()
		errCh <- err
	}()

	// Give the reader a moment to block
	time.Sleep(20 * time.Millisecond)

	if err := sub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, domain.ErrStreamClosed) {
			t.Errorf("Next after Close = %v, want ErrStreamClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not unblock after Close")
	}

	// Close is idempotent
	if err := sub.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestOpenProgressNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	opener := NewOpener(srv.URL, "test-token", discardLogger())
	_, err := opener.OpenProgress(context.Background(), 42)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8787", "ws://localhost:8787/ws/sync/7"},
		{"https://gastos.example.com", "wss://gastos.example.com/ws/sync/7"},
	}

	for _, tt := range tests {
		o := NewOpener(tt.base, "", discardLogger())
		got, err := o.streamURL(7)
		if err != nil {
			t.Fatalf("streamURL(%q): %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("streamURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
