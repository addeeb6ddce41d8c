package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by Inbox.Next once the inbox is closed and empty.
var ErrClosed = errors.New("notify: inbox closed")

// Kind is the type tag of a push message.
type Kind string

const (
	KindOrderStatus  Kind = "ORDER_STATUS_UPDATE"
	KindPriceDrop    Kind = "PRICE_DROP"
	KindStockAlert   Kind = "STOCK_ALERT"
	KindCartReminder Kind = "CART_REMINDER"
)

// Level is the severity a notification is displayed with.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is one frame received on the push channel.
type Message struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Notification is a message translated for display.
type Notification struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Level    Level     `json:"level"`
	Title    string    `json:"title,omitempty"`
	Message  string    `json:"message"`
	Received time.Time `json:"received"`
}

// ParseMessage decodes a raw frame.
func ParseMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode push message: %w", err)
	}
	if m.Type == "" {
		return Message{}, errors.New("decode push message: missing type")
	}
	return m, nil
}

// Translate turns m into a notification. Returns false for unknown kinds or
// payloads that are not JSON objects.
func Translate(m Message) (Notification, bool) {
	p, ok := decodePayload(m.Payload)
	if !ok {
		return Notification{}, false
	}

	n := Notification{Kind: m.Type}
	switch m.Type {
	case KindOrderStatus:
		n.Level = LevelInfo
		n.Title = "Order Update"
		n.Message = fmt.Sprintf("Order #%s status: %s", p.field("orderId"), p.field("status"))
	case KindPriceDrop:
		n.Level = LevelSuccess
		n.Title = "Price Drop Alert"
		n.Message = fmt.Sprintf("%s is now %s!", p.field("productName"), p.field("newPrice"))
	case KindStockAlert:
		n.Level = LevelWarning
		n.Title = "Stock Alert"
		n.Message = fmt.Sprintf("Only %s left of %s", p.field("quantity"), p.field("productName"))
	case KindCartReminder:
		n.Level = LevelInfo
		n.Title = "Cart Reminder"
		n.Message = "Items in your cart are waiting for you!"
	default:
		return Notification{}, false
	}
	return n, true
}

type payload map[string]any

func decodePayload(raw json.RawMessage) (payload, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return payload{}, true
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, false
	}
	return p, true
}

// field renders a payload value as text. Numbers keep their wire form.
func (p payload) field(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
