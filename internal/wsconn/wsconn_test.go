package wsconn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// echoServer upgrades and echoes every message back.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		ctx := r.Context()
		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if err := conn.Write(ctx, typ, data); err != nil {
				return
			}
		}
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestClient_ConnectSendReceive(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := New(DefaultConfig(wsURL(srv)))
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	if got := c.State(); got != StateConnected {
		t.Fatalf("State = %s, want %s", got, StateConnected)
	}

	if err := c.Send(ctx, []byte("ping")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case msg := <-c.Messages():
		if string(msg) != "ping" {
			t.Errorf("echo = %q, want %q", msg, "ping")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for echo")
	}
}

func TestClient_CloseStopsClient(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := New(DefaultConfig(wsURL(srv)))
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Logf("Close: %v", err) // close races with server teardown, not fatal
	}
	if got := c.State(); got != StateDisconnected {
		t.Errorf("State after Close = %s, want %s", got, StateDisconnected)
	}

	// Close is idempotent.
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestClient_ConnectFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := New(Config{
		URL:            "ws://127.0.0.1:1", // nothing listens here
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
		MaxReconnects:  1,
	})
	if err := c.Connect(ctx); err == nil {
		t.Fatal("Connect succeeded against closed port")
	}
	if got := c.State(); got != StateDisconnected {
		t.Errorf("State = %s, want %s", got, StateDisconnected)
	}
}

func TestClient_StateChangeCallback(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	states := make(chan State, 10)
	c := New(DefaultConfig(wsURL(srv)))
	c.OnStateChange(func(s State) { states <- s })

	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	want := []State{StateConnecting, StateConnected}
	for _, w := range want {
		select {
		case got := <-states:
			if got != w {
				t.Fatalf("state transition = %s, want %s", got, w)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for state %s", w)
		}
	}
}
