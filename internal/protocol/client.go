package protocol

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Handler receives everything that arrives on the channel. Both methods are
// called from the read goroutine; implementations hand the data over to the
// frame loop rather than mutating game state directly.
type Handler interface {
	HandleMessage(raw []byte)
	HandleError(err error)
}

// ClientConfig holds WebSocket tuning for the match channel.
type ClientConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	PongWait         time.Duration `yaml:"pong_wait"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	MaxMessageSize   int64         `yaml:"max_message_size"`
	SendBuffer       int           `yaml:"send_buffer"`
}

// DefaultClientConfig returns the settings used by the game client.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		PongWait:         60 * time.Second,
		PingInterval:     (60 * time.Second * 9) / 10,
		MaxMessageSize:   4096,
		SendBuffer:       16,
	}
}

// link is one opened channel. Closing the client cancels the link so late
// reads from a torn-down connection are never delivered.
type link struct {
	id     string
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// stop cancels the link and runs first exactly once, whichever of Close or
// the two pumps gets there first.
func (l *link) stop(first func()) {
	l.once.Do(func() {
		l.cancel()
		if first != nil {
			first()
		}
	})
}

// Client is a single long-lived match channel. There is no reconnection:
// a failure is reported to the handler once and the link stays down until
// the next Open.
type Client struct {
	cfg     ClientConfig
	dialer  *websocket.Dialer
	handler Handler

	mu   sync.Mutex
	link *link
}

// NewClient creates a client reporting to h.
func NewClient(cfg ClientConfig, h Handler) *Client {
	return &Client{
		cfg:     cfg,
		handler: h,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}
}

// Open dials endpoint in the background and returns immediately. Selections
// sent before the dial completes are queued. An already open channel is
// closed first.
func (c *Client) Open(endpoint string) {
	c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	l := &link{
		id:     uuid.New().String()[:8],
		send:   make(chan []byte, c.cfg.SendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
	c.mu.Lock()
	c.link = l
	c.mu.Unlock()

	go c.run(l, endpoint)
}

// Close tears down the current channel, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	l := c.link
	c.link = nil
	c.mu.Unlock()
	if l == nil {
		return nil
	}
	l.stop(func() {
		log.Info().Str("link", l.id).Msg("match channel closed")
	})
	return nil
}

// IsOpen reports whether a channel has been opened and not yet closed.
func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.link != nil && c.link.ctx.Err() == nil
}

// Send queues payload for the write pump without blocking.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	l := c.link
	c.mu.Unlock()
	if l == nil || l.ctx.Err() != nil {
		return ErrNotConnected
	}
	select {
	case l.send <- payload:
		log.Debug().Str("link", l.id).RawJSON("message", payload).Msg("selection queued")
		return nil
	default:
		log.Warn().Str("link", l.id).Msg("send queue full, dropping selection")
		return ErrSendQueueFull
	}
}

func (c *Client) run(l *link, endpoint string) {
	log.Info().Str("link", l.id).Str("endpoint", endpoint).Msg("opening match channel")
	conn, _, err := c.dialer.DialContext(l.ctx, endpoint, nil)
	if err != nil {
		c.fail(l, fmt.Errorf("dial %s: %w", endpoint, err))
		return
	}
	log.Info().Str("link", l.id).Msg("match channel open")

	go c.writePump(l, conn)
	c.readPump(l, conn)
}

func (c *Client) fail(l *link, err error) {
	l.stop(func() {
		log.Error().Err(err).Str("link", l.id).Msg("match channel error")
		if c.handler != nil {
			c.handler.HandleError(err)
		}
	})
}

// readPump never closes conn. A read error stops the link and writePump,
// which owns the connection, closes it.
func (c *Client) readPump(l *link, conn *websocket.Conn) {
	conn.SetReadLimit(c.cfg.MaxMessageSize)
	if c.cfg.PongWait > 0 {
		conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
			return nil
		})
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info().Str("link", l.id).Msg("match channel closed by server")
			}
			c.fail(l, fmt.Errorf("read: %w", err))
			return
		}
		if l.ctx.Err() != nil {
			return
		}
		if c.cfg.PongWait > 0 {
			conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		}
		if c.handler != nil {
			c.handler.HandleMessage(message)
		}
	}
}

func (c *Client) writePump(l *link, conn *websocket.Conn) {
	// Closing conn here is also what unblocks readPump.
	defer conn.Close()

	var pings <-chan time.Time
	if c.cfg.PingInterval > 0 {
		ticker := time.NewTicker(c.cfg.PingInterval)
		defer ticker.Stop()
		pings = ticker.C
	}

	for {
		select {
		case <-l.ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client leaving"))
			return
		case msg := <-l.send:
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.fail(l, fmt.Errorf("write: %w", err))
				return
			}
		case <-pings:
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.fail(l, fmt.Errorf("ping: %w", err))
				return
			}
		}
	}
}
