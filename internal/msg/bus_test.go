package msg

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func echoServer(t *testing.T, inbound []busMessage) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range inbound {
			data, _ := json.Marshal(m)
			conn.WriteMessage(websocket.TextMessage, data)
		}
		// keep the connection open for the client's own writes
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBusReceivesAddressedMessages(t *testing.T) {
	srv := echoServer(t, []busMessage{
		{From: "alice", To: "iris", Kind: "text", Content: "hello"},
		{From: "bob", To: "someone-else", Kind: "text", Content: "not for us"},
		{From: "carol", Kind: "text", Content: "broadcast"},
	})
	defer srv.Close()

	b, err := Dial(wsURL(srv), "iris")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		n := len(b.inbox)
		b.mu.Unlock()
		if n >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	msgs := b.Poll()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages: %v", len(msgs), msgs)
	}
	if msgs[0].From != "alice" || msgs[0].Content != "hello" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].From != "carol" {
		t.Errorf("broadcast not delivered: %+v", msgs[1])
	}
	if len(b.Poll()) != 0 {
		t.Error("poll did not clear the inbox")
	}
}

func TestBusSend(t *testing.T) {
	received := make(chan busMessage, 1)
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var m busMessage
		json.Unmarshal(raw, &m)
		received <- m
	}))
	defer srv.Close()

	b, err := Dial(wsURL(srv), "iris")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.Send("alice", "timer done"); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-received:
		if m.From != "iris" || m.To != "alice" || m.Content != "timer done" {
			t.Errorf("sent %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the message")
	}
}
