// Package wsconn provides a WebSocket client with automatic reconnection.
package wsconn

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
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
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0,
	}
}

// Client maintains a WebSocket connection, reconnecting with exponential
// backoff, and delivers inbound messages on a channel.
type Client struct {
	config Config

	stateMu sync.RWMutex
	state   State

	connMu sync.Mutex
	conn   *websocket.Conn

	messages chan []byte
	done     chan struct{}
	closeOne sync.Once

	onStateChange func(State)
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
	c.onStateChange = fn
}

// Connect dials the endpoint and starts the read/reconnect loop. It returns
// after the first successful dial; reconnection happens in the background.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		return err
	}
	c.setConn(conn)
	c.setState(StateConnected)

	go c.readLoop(ctx)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.config.URL, nil)
	if err != nil {
		return nil, err
	}
	// Streams can exceed the 32KiB default.
	conn.SetReadLimit(1 << 20)
	return conn, nil
}

// readLoop reads messages until failure, then reconnects with backoff.
func (c *Client) readLoop(ctx context.Context) {
	reconnects := 0
	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return
		default:
		}

		_, data, err := c.currentConn().Read(ctx)
		if err == nil {
			select {
			case c.messages <- data:
			default:
				// Consumer is behind; drop the oldest semantics are not
				// needed here, dropping the newest keeps the loop alive.
			}
			continue
		}

		if ctx.Err() != nil || c.isClosed() {
			c.setState(StateDisconnected)
			return
		}

		// Reconnect with exponential backoff.
		c.setState(StateReconnecting)
		backoff := c.config.InitialBackoff
		for {
			reconnects++
			if c.config.MaxReconnects > 0 && reconnects > c.config.MaxReconnects {
				c.setState(StateDisconnected)
				return
			}

			select {
			case <-time.After(backoff):
			case <-c.done:
				return
			case <-ctx.Done():
				c.setState(StateDisconnected)
				return
			}

			conn, dialErr := c.dial(ctx)
			if dialErr == nil {
				c.setConn(conn)
				c.setState(StateConnected)
				reconnects = 0
				break
			}

			backoff *= 2
			if backoff > c.config.MaxBackoff {
				backoff = c.config.MaxBackoff
			}
		}
	}
}

// Send writes a text message to the connection.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	return c.currentConn().Write(ctx, websocket.MessageText, msg)
}

// Messages returns the channel of inbound messages.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Close tears down the connection and stops reconnecting.
func (c *Client) Close() error {
	var err error
	c.closeOne.Do(func() {
		close(c.done)
		c.connMu.Lock()
		if c.conn != nil {
			err = c.conn.Close(websocket.StatusNormalClosure, "client closed")
		}
		c.connMu.Unlock()
		c.setState(StateDisconnected)
	})
	return err
}

func (c *Client) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
}

func (c *Client) currentConn() *websocket.Conn {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn
}

func (c *Client) setState(state State) {
	c.stateMu.Lock()
	changed := c.state != state
	c.state = state
	c.stateMu.Unlock()

	if changed && c.onStateChange != nil {
		c.onStateChange(state)
	}
}
