// Package notify receives push messages for a logged-in user.
//
// A Channel keeps a WebSocket open to {ws_url}/ws/{userID}. When the
// connection drops or cannot be established it waits a fixed delay and
// dials again, forever, until its context is cancelled. Frames are
// translated into display notifications and queued on an Inbox; they
// never reach the state store.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultReconnectDelay is the wait between connection attempts.
const DefaultReconnectDelay = 5 * time.Second

// Endpoint returns the push URL for userID under base.
func Endpoint(base, userID string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("parse ws url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("ws url %q: scheme must be ws or wss", base)
	}
	if userID == "" {
		return "", errors.New("ws url: empty user id")
	}
	return u.String() + "/ws/" + url.PathEscape(userID), nil
}

// Channel is a reconnecting push connection.
//
// Thread-safety: Run must be called once; the counters and Inbox are safe
// from any goroutine.
type Channel struct {
	url    string
	delay  time.Duration
	dialer *websocket.Dialer
	inbox  *Inbox
	logger *slog.Logger
	newID  func() string
	now    func() time.Time

	attempts  atomic.Int64
	connected atomic.Int64
	dropped   atomic.Int64
}

// Option configures a Channel.
type Option func(*Channel)

// WithReconnectDelay sets the fixed wait between attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Channel) {
		c.delay = d
	}
}

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Channel) {
		c.dialer = d
	}
}

// WithInbox delivers into an existing inbox.
func WithInbox(q *Inbox) Option {
	return func(c *Channel) {
		c.inbox = q
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Channel) {
		c.logger = l
	}
}

// WithIDs sets the notification id source. Defaults to random UUIDs.
func WithIDs(f func() string) Option {
	return func(c *Channel) {
		c.newID = f
	}
}

// WithNow sets the clock used to stamp notifications.
func WithNow(f func() time.Time) Option {
	return func(c *Channel) {
		c.now = f
	}
}

// NewChannel creates a channel for userID's push endpoint under wsURL.
func NewChannel(wsURL, userID string, opts ...Option) (*Channel, error) {
	endpoint, err := Endpoint(wsURL, userID)
	if err != nil {
		return nil, err
	}
	c := &Channel{
		url:    endpoint,
		delay:  DefaultReconnectDelay,
		dialer: websocket.DefaultDialer,
		logger: slog.Default(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.inbox == nil {
		c.inbox = NewInbox()
	}
	return c, nil
}

// URL returns the endpoint being dialed.
func (c *Channel) URL() string { return c.url }

// Inbox returns the queue notifications are delivered to.
func (c *Channel) Inbox() *Inbox { return c.inbox }

// Attempts returns the number of dials started.
func (c *Channel) Attempts() int64 { return c.attempts.Load() }

// Connections returns the number of successful dials.
func (c *Channel) Connections() int64 { return c.connected.Load() }

// Dropped returns the number of frames discarded as malformed or unknown.
func (c *Channel) Dropped() int64 { return c.dropped.Load() }

// Run dials and reads until ctx is done, reconnecting after every failure
// with the same fixed delay. It always returns ctx.Err().
func (c *Channel) Run(ctx context.Context) error {
	for {
		c.attempts.Add(1)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Info("push channel dial failed", "url", c.url, "error", err, "retry_in", c.delay)
		} else {
			c.connected.Add(1)
			c.logger.Info("push channel connected", "url", c.url)
			err = c.read(ctx, conn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Info("push channel disconnected", "url", c.url, "error", err, "retry_in", c.delay)
		}

		timer := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// read consumes frames until the connection fails or ctx is done.
func (c *Channel) read(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handle(data)
	}
}

func (c *Channel) handle(data []byte) {
	m, err := ParseMessage(data)
	if err != nil {
		c.dropped.Add(1)
		c.logger.Debug("dropped push frame", "error", err)
		return
	}
	n, ok := Translate(m)
	if !ok {
		c.dropped.Add(1)
		c.logger.Debug("dropped push message", "type", m.Type)
		return
	}
	n.ID = c.newID()
	n.Received = c.now()
	c.inbox.Push(n)
}
