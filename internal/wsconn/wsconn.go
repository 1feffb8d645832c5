// Package wsconn provides a managed WebSocket client with automatic
// reconnection and exponential backoff, built on github.com/coder/websocket.
package wsconn

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/0xmoleclub/gSwap/internal/apperror"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0, // infinite
		PingInterval:   30 * time.Second,
	}
}

// Client is a managed WebSocket client. Received messages are delivered
// on the Messages channel; the read loop reconnects with backoff when
// the connection drops.
type Client struct {
	config Config

	conn   *websocket.Conn
	connMu sync.RWMutex

	state   State
	stateMu sync.RWMutex

	messages chan []byte
	done     chan struct{}
	closed   sync.Once

	reconnects int
	onState    func(State)
}

// New creates a new WebSocket client.
func New(config Config) *Client {
	return &Client{
		config:   config,
		state:    StateDisconnected,
		messages: make(chan []byte, 100),
		done:     make(chan struct{}),
	}
}

// OnStateChange registers a callback invoked on every state transition.
// Must be called before Connect.
func (c *Client) OnStateChange(fn func(State)) {
	c.onState = fn
}

// Connect establishes the WebSocket connection and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting)

	if err := c.dial(ctx); err != nil {
		c.setState(StateDisconnected)
		return apperror.External(apperror.CodeWebSocketConnectionError, c.config.URL, err)
	}

	c.setState(StateConnected)
	go c.readLoop(ctx)
	if c.config.PingInterval > 0 {
		go c.pingLoop(ctx)
	}
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(1 << 20)

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// Send sends a text message through the WebSocket.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()

	if conn == nil || c.State() != StateConnected {
		return apperror.New(apperror.CodeWebSocketSendError, apperror.WithContext("not connected"))
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.External(apperror.CodeWebSocketSendError, c.config.URL, err)
	}
	return nil
}

// Messages returns the channel for receiving messages. The channel is
// closed when the client shuts down.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Close gracefully closes the WebSocket connection.
func (c *Client) Close() error {
	c.closed.Do(func() {
		close(c.done)
		c.connMu.Lock()
		if c.conn != nil {
			c.conn.Close(websocket.StatusNormalClosure, "client shutdown")
			c.conn = nil
		}
		c.connMu.Unlock()
		c.setState(StateDisconnected)
	})
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	defer close(c.messages)

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		c.connMu.RLock()
		conn := c.conn
		c.connMu.RUnlock()
		if conn == nil {
			return
		}

		_, data, err := conn.Read(ctx)
		if err != nil {
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		select {
		case c.messages <- data:
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// reconnect re-dials with exponential backoff. Returns false when the
// client is shutting down or the reconnect budget is exhausted.
func (c *Client) reconnect(ctx context.Context) bool {
	c.setState(StateReconnecting)

	backoff := c.config.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	for {
		c.reconnects++
		if c.config.MaxReconnects > 0 && c.reconnects > c.config.MaxReconnects {
			c.setState(StateDisconnected)
			return false
		}

		select {
		case <-c.done:
			return false
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}

		if err := c.dial(ctx); err == nil {
			c.reconnects = 0
			c.setState(StateConnected)
			return true
		}

		backoff *= 2
		if c.config.MaxBackoff > 0 && backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.connMu.RLock()
			conn := c.conn
			c.connMu.RUnlock()
			if conn == nil || c.State() != StateConnected {
				continue
			}
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_ = conn.Ping(pingCtx)
			cancel()
		}
	}
}

func (c *Client) setState(state State) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
	if c.onState != nil {
		c.onState(state)
	}
}
