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
func mockWSServer(t *testing.T, handler func(*websocket.Conn, *http.Request)) *httptest.Server {
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
		handler(conn, r)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testSocketConfig(url string) SocketConfig {
	return SocketConfig{
		URL:              url,
		Token:            "tok-1",
		ClientID:         "client-1",
		HandshakeTimeout: 5 * time.Second,
		PingInterval:     15 * time.Second,
		PongTimeout:      60 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       100,
	}
}

func TestSocket_Connect(t *testing.T) {
	var gotAuth, gotClientID string
	var headerMu sync.Mutex

	server := mockWSServer(t, func(conn *websocket.Conn, r *http.Request) {
		headerMu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("X-Client-ID")
		headerMu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	s := NewSocket(testSocketConfig(wsURL(server)), nil)

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if !s.IsConnected() {
		t.Error("expected IsConnected after Connect")
	}

	time.Sleep(50 * time.Millisecond)

	headerMu.Lock()
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if gotClientID != "client-1" {
		t.Errorf("X-Client-ID = %q, want client-1", gotClientID)
	}
	headerMu.Unlock()

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if s.IsConnected() {
		t.Error("expected not connected after Close")
	}
}

func TestSocket_Send(t *testing.T) {
	var received []byte
	var mu sync.Mutex

	server := mockWSServer(t, func(conn *websocket.Conn, _ *http.Request) {
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

	s := NewSocket(testSocketConfig(wsURL(server)), nil)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer s.Close()

	frame := []byte(`{"type":"join:event","room":"event:E1"}`)
	if err := s.Send(frame); err != nil {
		t.Errorf("Send failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if string(received) != string(frame) {
		t.Errorf("received %q, want %q", received, frame)
	}
}

func TestSocket_Messages(t *testing.T) {
	frames := []string{
		`{"type":"points:earned","payload":{"points":5}}`,
		`{"type":"activity:new","payload":{"id":"A1"}}`,
	}

	server := mockWSServer(t, func(conn *websocket.Conn, _ *http.Request) {
		for _, msg := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		time.Sleep(time.Second)
	})
	defer server.Close()

	s := NewSocket(testSocketConfig(wsURL(server)), nil)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer s.Close()

	var received []string
	timeout := time.After(2 * time.Second)
	for i := 0; i < len(frames); i++ {
		select {
		case msg := <-s.Messages():
			received = append(received, string(msg.Data))
			if msg.ReceivedAt.IsZero() {
				t.Error("ReceivedAt should not be zero")
			}
		case <-timeout:
			t.Fatalf("timeout waiting for messages, received %d of %d", len(received), len(frames))
		}
	}

	for i, want := range frames {
		if received[i] != want {
			t.Errorf("message %d: got %q, want %q", i, received[i], want)
		}
	}
}

func TestSocket_SendNotConnected(t *testing.T) {
	s := NewSocket(testSocketConfig("ws://localhost:12345"), nil)

	if err := s.Send([]byte("test")); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestSocket_DoubleClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn, _ *http.Request) {
		time.Sleep(time.Second)
	})
	defer server.Close()

	s := NewSocket(testSocketConfig(wsURL(server)), nil)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestSocket_ServerPing(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn, _ *http.Request) {
		if err := conn.WriteControl(websocket.PingMessage, []byte("heartbeat"), time.Now().Add(time.Second)); err != nil {
			t.Logf("ping error: %v", err)
			return
		}
		time.Sleep(500 * time.Millisecond)
	})
	defer server.Close()

	s := NewSocket(testSocketConfig(wsURL(server)), nil)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer s.Close()

	time.Sleep(200 * time.Millisecond)

	if !s.IsConnected() {
		t.Error("expected socket to stay connected after server ping")
	}
}

func TestSocket_ConnectAfterClose(t *testing.T) {
	s := NewSocket(testSocketConfig("ws://localhost:12345"), nil)
	s.Close()

	if err := s.Connect(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("expected ErrAlreadyClosed, got %v", err)
	}
}
