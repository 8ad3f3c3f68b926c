package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testClientConfig(url string) ClientConfig {
	cfg := DefaultClientConfig()
	cfg.URL = url
	cfg.BufferSize = 100
	return cfg
}

func TestClient_Connect(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if !client.IsConnected() {
		t.Error("expected IsConnected to return true")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	if client.IsConnected() {
		t.Error("expected IsConnected to return false after Close")
	}
}

func TestClient_ConnectRefused(t *testing.T) {
	client := NewClient(testClientConfig("ws://127.0.0.1:1/ws"), nil)

	if err := client.Connect(context.Background()); err == nil {
		t.Error("Connect to dead endpoint = nil, want error")
	}
}

func TestClient_Send(t *testing.T) {
	var received []byte
	var mu sync.Mutex

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			mu.Lock()
			received = msg
			mu.Unlock()
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	testMsg := []byte(`{"type": "ping"}`)
	if err := client.Send(testMsg); err != nil {
		t.Errorf("Send failed: %v", err)
	}

	// Wait for message to be received
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if string(received) != string(testMsg) {
		t.Errorf("received %q, want %q", received, testMsg)
	}
}

func TestClient_SendNotConnected(t *testing.T) {
	client := NewClient(testClientConfig("ws://127.0.0.1:1/ws"), nil)

	if err := client.Send([]byte(`{}`)); err != ErrNotConnected {
		t.Errorf("Send = %v, want ErrNotConnected", err)
	}
}

func TestClient_Messages(t *testing.T) {
	testMessages := []string{
		`{"type": "SIGNAL_UPDATE", "data": {"symbol": "INFY"}}`,
		`{"type": "NEW_SIGNALS", "count": 2}`,
		`{"type": "pong"}`,
	}

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for _, msg := range testMessages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		time.Sleep(time.Second)
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	for i, want := range testMessages {
		select {
		case msg := <-client.Messages():
			if string(msg.Data) != want {
				t.Errorf("message %d = %q, want %q", i, msg.Data, want)
			}
			if msg.ReceivedAt.IsZero() {
				t.Errorf("message %d has zero ReceivedAt", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestClient_MessagesClosedAfterClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	client.Close()

	select {
	case _, ok := <-client.Messages():
		if ok {
			t.Error("expected messages channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("messages channel not closed after Close")
	}
}

func TestClient_RemoteClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.Close()
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case <-client.Errors():
		// read loop surfaced the drop
	case _, ok := <-client.Messages():
		if ok {
			t.Error("expected closed messages channel or an error after remote close")
		}
	case <-time.After(time.Second):
		t.Fatal("no close notification after remote close")
	}
}
