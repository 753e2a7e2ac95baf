// Package msg connects the assistant to a websocket message bus so the
// send_message and check_messages functions have a real transport.
package msg

import (
	"encoding/json"
	log "log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"iris/internal/funcs"
)

// busMessage is the bus wire format.
type busMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Bus is a websocket client that sends on demand and collects inbound
// messages in the background until the loop polls for them.
type Bus struct {
	conn *websocket.Conn
	self string

	mu    sync.Mutex
	inbox []funcs.InboundMessage
}

// Dial connects to the bus and starts the inbox reader. self is the
// name this client sends from and receives for.
func Dial(wsURL, self string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to bus", "url", wsURL, "as", self)
	b := &Bus{conn: conn, self: self}
	go b.readLoop()
	return b, nil
}

func (b *Bus) Send(recipient, content string) error {
	data, err := json.Marshal(busMessage{
		From:    b.self,
		To:      recipient,
		Kind:    "text",
		Content: content,
	})
	if err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

// Poll returns and clears the messages received since the last call.
func (b *Bus) Poll() []funcs.InboundMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := b.inbox
	b.inbox = nil
	return msgs
}

func (b *Bus) Close() error {
	return b.conn.Close()
}

func (b *Bus) readLoop() {
	for {
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			log.Warn("bus read ended", "err", err)
			return
		}
		var m busMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			log.Debug("skipping malformed bus message", "err", err)
			continue
		}
		if m.To != "" && m.To != b.self {
			continue
		}
		b.mu.Lock()
		b.inbox = append(b.inbox, funcs.InboundMessage{From: m.From, Content: m.Content})
		b.mu.Unlock()
	}
}
