// Package channel implements the live push transport: one
// gorilla/websocket connection per authenticated session, owned
// entirely by this package. Reconnection, keepalive and teardown never
// leak upward; consumers only see decoded events and status changes.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

const (
	defaultHandshakeTimeout  = 10 * time.Second
	defaultPingInterval      = 30 * time.Second
	defaultPongTimeout       = 10 * time.Second
	defaultReconnectInitial  = time.Second
	defaultReconnectMax      = 30 * time.Second
	defaultReconnectMultiple = 2.0
)

// Event is one decoded push frame. Payload stays raw; the reconciler
// owns the per-event decoding.
type Event struct {
	Name      string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"ts"`
}

// Handler receives decoded events and transport status changes. Calls
// arrive from the channel's read goroutine, one at a time.
type Handler interface {
	HandleEvent(evt Event)
	HandleStatus(status state.ChannelStatus, lastErr string)
}

// Client maintains the push connection for the current session.
//
// Open while a connection is live (or a dial is in flight) is a no-op,
// so there is never more than one active connection. Close is
// idempotent, stops reconnection until the next Open, and is safe to
// call from inside a Handler callback.
type Client struct {
	cfg     config.ChannelConfig
	dialer  *websocket.Dialer
	handler Handler
	logger  *zap.Logger
	metrics *telemetry.RuntimeMetrics

	lifecycleMu  sync.Mutex
	started      atomic.Bool
	shutdown     chan struct{}
	shutdownOnce *sync.Once
	done         chan struct{}

	connMu sync.Mutex
	conn   *websocket.Conn
}

var _ platform.LiveChannel = (*Client)(nil)

// Option configures optional client collaborators.
type Option func(*Client)

// WithMetrics wires runtime metrics into the client.
func WithMetrics(m *telemetry.RuntimeMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a push-channel client for the given endpoint.
// Events and status changes go to handler.
func NewClient(cfg config.ChannelConfig, handler Handler, logger *zap.Logger, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("channel: URL is required")
	}
	if handler == nil {
		return nil, errors.New("channel: handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = defaultPongTimeout
	}
	if cfg.ReconnectInitialInterval <= 0 {
		cfg.ReconnectInitialInterval = defaultReconnectInitial
	}
	if cfg.ReconnectMaxInterval <= 0 {
		cfg.ReconnectMaxInterval = defaultReconnectMax
	}
	if cfg.ReconnectMultiplier < 1 {
		cfg.ReconnectMultiplier = defaultReconnectMultiple
	}

	c := &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		handler: handler,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Open starts the connection loop with the given bearer token. It
// returns immediately; connection progress arrives through the
// handler's status callback. Calling Open while already open is a
// no-op.
func (c *Client) Open(token string) {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.shutdown != nil {
		select {
		case <-c.shutdown:
			// Close has been called; the old loop is unwinding. Let it
			// finish so two loops never share a generation.
			<-c.done
		default:
			if c.started.Load() {
				return
			}
			// The loop ended on its own (retries exhausted).
			<-c.done
		}
	}

	c.shutdown = make(chan struct{})
	c.shutdownOnce = &sync.Once{}
	c.done = make(chan struct{})
	c.started.Store(true)

	go c.run(token, c.shutdown, c.done)
}

// Close tears the connection down and stops reconnection until the
// next Open. It does not wait for the loop to unwind; use Done for
// that.
func (c *Client) Close() {
	c.lifecycleMu.Lock()
	shutdown := c.shutdown
	once := c.shutdownOnce
	c.lifecycleMu.Unlock()

	if once == nil {
		return
	}
	once.Do(func() {
		close(shutdown)
		c.closeConn()
	})
}

// Done reports when the current connection loop has fully unwound.
// Before the first Open, and after teardown completes, the returned
// channel is closed.
func (c *Client) Done() <-chan struct{} {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	if c.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// run owns the dial/read/redial cycle for one Open generation.
func (c *Client) run(token string, shutdown chan struct{}, done chan struct{}) {
	defer func() {
		c.started.Store(false)
		close(done)
	}()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.ReconnectInitialInterval
	bo.MaxInterval = c.cfg.ReconnectMaxInterval
	bo.Multiplier = c.cfg.ReconnectMultiplier
	bo.MaxElapsedTime = 0 // bounded by ReconnectMaxRetries, not time
	bo.Reset()

	dials := 0
	failures := 0

	for {
		select {
		case <-shutdown:
			c.handler.HandleStatus(state.ChannelStatusDisconnected, "")
			return
		default:
		}

		if dials > 0 {
			c.metrics.RecordReconnect(context.Background())
		}
		c.handler.HandleStatus(state.ChannelStatusConnecting, "")
		dials++

		conn, err := c.dial(token)
		if err != nil {
			failures++
			c.logger.Warn("channel dial failed",
				zap.String("url", c.cfg.URL),
				zap.Int("consecutive_failures", failures),
				zap.Error(err))

			if c.cfg.ReconnectMaxRetries > 0 && failures >= c.cfg.ReconnectMaxRetries {
				c.logger.Error("channel retries exhausted, giving up until next open",
					zap.Int("retries", failures))
				c.handler.HandleStatus(state.ChannelStatusDisconnected, err.Error())
				return
			}

			select {
			case <-shutdown:
				c.handler.HandleStatus(state.ChannelStatusDisconnected, "")
				return
			case <-time.After(bo.NextBackOff()):
			}
			continue
		}

		failures = 0
		bo.Reset()
		c.trackConn(conn, shutdown)
		c.metrics.RecordChannelUp(context.Background(), true)
		c.handler.HandleStatus(state.ChannelStatusConnected, "")
		c.logger.Info("channel connected", zap.String("url", c.cfg.URL))

		readErr := c.readLoop(conn)

		c.trackConn(nil, shutdown)
		_ = conn.Close()
		c.metrics.RecordChannelUp(context.Background(), false)

		select {
		case <-shutdown:
			c.handler.HandleStatus(state.ChannelStatusDisconnected, "")
			return
		default:
			c.logger.Warn("channel connection lost", zap.Error(readErr))
		}
	}
}

// dial performs one handshake with the session token attached.
func (c *Client) dial(token string) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := c.dialer.Dial(c.cfg.URL, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("channel: handshake rejected with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("channel: dial %s: %w", c.cfg.URL, err)
	}
	return conn, nil
}

// readLoop decodes frames until the connection dies. Malformed frames
// are logged and skipped; they never tear the connection down.
func (c *Client) readLoop(conn *websocket.Conn) error {
	// The server answers every ping; silence past one full
	// ping+pong window means the connection is gone.
	wait := c.cfg.PingInterval + c.cfg.PongTimeout
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})

	stopPing := make(chan struct{})
	pingExited := make(chan struct{})
	go func() {
		defer close(pingExited)
		c.pingLoop(conn, stopPing)
	}()
	defer func() {
		close(stopPing)
		<-pingExited
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			c.logger.Warn("skipping malformed channel frame", zap.Error(err))
			continue
		}
		if evt.Name == "" {
			c.logger.Warn("skipping channel frame without event name")
			continue
		}

		c.handler.HandleEvent(evt)
	}
}

// pingLoop is the connection's only writer.
func (c *Client) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.PongTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				// Unblocks the read loop into the reconnect path.
				_ = conn.Close()
				return
			}
		}
	}
}

// trackConn records the active connection so Close can reach it. If
// Close raced the dial, the fresh connection is torn down here.
func (c *Client) trackConn(conn *websocket.Conn, shutdown <-chan struct{}) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	if conn == nil {
		return
	}
	select {
	case <-shutdown:
		_ = conn.Close()
	default:
	}
}

func (c *Client) closeConn() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
