package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		payload string
		level   Level
		title   string
		message string
	}{
		{"order status", KindOrderStatus, `{"orderId":31,"status":"shipped"}`, LevelInfo, "Order Update", "Order #31 status: shipped"},
		{"price drop", KindPriceDrop, `{"productName":"Silk Scarf","newPrice":19.50}`, LevelSuccess, "Price Drop Alert", "Silk Scarf is now 19.50!"},
		{"stock alert", KindStockAlert, `{"productName":"Wool Coat","quantity":2}`, LevelWarning, "Stock Alert", "Only 2 left of Wool Coat"},
		{"cart reminder", KindCartReminder, `{}`, LevelInfo, "Cart Reminder", "Items in your cart are waiting for you!"},
		{"null payload", KindCartReminder, `null`, LevelInfo, "Cart Reminder", "Items in your cart are waiting for you!"},
		{"string order id", KindOrderStatus, `{"orderId":"A-1","status":"pending"}`, LevelInfo, "Order Update", "Order #A-1 status: pending"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Translate(Message{Type: tt.kind, Payload: []byte(tt.payload)})
			require.True(t, ok)
			assert.Equal(t, tt.kind, n.Kind)
			assert.Equal(t, tt.level, n.Level)
			assert.Equal(t, tt.title, n.Title)
			assert.Equal(t, tt.message, n.Message)
		})
	}
}

func TestTranslate_Rejects(t *testing.T) {
	_, ok := Translate(Message{Type: "UNKNOWN", Payload: []byte(`{}`)})
	assert.False(t, ok)

	_, ok = Translate(Message{Type: KindPriceDrop, Payload: []byte(`[1,2]`)})
	assert.False(t, ok)
}

func TestParseMessage(t *testing.T) {
	m, err := ParseMessage([]byte(`{"type":"PRICE_DROP","payload":{"newPrice":5}}`))
	require.NoError(t, err)
	assert.Equal(t, KindPriceDrop, m.Type)

	_, err = ParseMessage([]byte(`{"payload":{}}`))
	assert.Error(t, err)
	_, err = ParseMessage([]byte(`{`))
	assert.Error(t, err)
}

func TestInbox_FIFO(t *testing.T) {
	q := NewInbox()
	for _, id := range []string{"a", "b", "c"} {
		require.True(t, q.Push(Notification{ID: id}))
	}
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		n, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, want, n.ID)
	}
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestInbox_NextBlocksUntilPush(t *testing.T) {
	q := NewInbox()
	got := make(chan Notification, 1)
	go func() {
		n, err := q.Next(context.Background())
		if err == nil {
			got <- n
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(Notification{ID: "late"})

	select {
	case n := <-got:
		assert.Equal(t, "late", n.ID)
	case <-time.After(time.Second):
		t.Fatal("Next did not wake on push")
	}
}

func TestInbox_NextRespectsContext(t *testing.T) {
	q := NewInbox()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInbox_Close(t *testing.T) {
	q := NewInbox()
	q.Push(Notification{ID: "kept"})
	q.Close()
	q.Close()

	assert.False(t, q.Push(Notification{ID: "rejected"}))

	n, err := q.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kept", n.ID)

	_, err = q.Next(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInbox_Drain(t *testing.T) {
	q := NewInbox()
	q.Push(Notification{ID: "a"})
	q.Push(Notification{ID: "b"})

	out := q.Drain()
	assert.Len(t, out, 2)
	assert.Equal(t, 0, q.Len())
}
