// Package bus mirrors announcements to a websocket hub so other shards can
// display or relay them.
package bus

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

type Publisher struct {
	from string
	url  string

	// gorilla connections allow one concurrent writer
	mu   sync.Mutex
	conn *websocket.Conn
}

func Dial(wsURL, from string) (*Publisher, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse bus url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial bus: %w", err)
	}

	log.Info("Connected to bus", "url", wsURL)
	return &Publisher{from: from, url: u.String(), conn: conn}, nil
}

// Publish sends one message to every listener. A broken connection is
// redialled once before giving up.
func (p *Publisher) Publish(kind, content string) error {
	data, err := json.Marshal(Message{From: p.from, To: "ALL", Kind: kind, Content: content})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.write(data); err == nil {
		return nil
	}

	log.Warn("Bus write failed, redialling", "url", p.url)
	conn, _, err := websocket.DefaultDialer.Dial(p.url, nil)
	if err != nil {
		return fmt.Errorf("redial bus: %w", err)
	}
	p.conn.Close()
	p.conn = conn

	return p.write(data)
}

func (p *Publisher) write(data []byte) error {
	p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return p.conn.Close()
}
