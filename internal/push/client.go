// Package push receives download progress from the backend's Socket.IO
// channel. Only the websocket transport of Engine.IO v4 is spoken; events are
// decoded into model.Event values and handed to a Handler one at a time.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/model"
)

const (
	socketPath       = "/socket.io/"
	writeWait        = 10 * time.Second
	readLimit        = 1 << 20
	defaultPingEvery = 25 * time.Second
	defaultPingWait  = 20 * time.Second
)

// Reconnect delays used by Run
const (
	DefaultMinBackoff = 500 * time.Millisecond
	DefaultMaxBackoff = 30 * time.Second
)

// Engine.IO packet types
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
)

// Socket.IO packet types, carried inside an Engine.IO message
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

// ErrDisconnected is returned when the server ends the session
var ErrDisconnected = errors.New("push channel disconnected")

// Handler consumes decoded push events
type Handler interface {
	HandleEvent(model.Event)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(model.Event)

// HandleEvent calls f(ev)
func (f HandlerFunc) HandleEvent(ev model.Event) { f(ev) }

// Client connects to one backend's push channel
type Client struct {
	url        string
	dialer     *websocket.Dialer
	header     http.Header
	onConnect  func()
	minBackoff time.Duration
	maxBackoff time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithDialer replaces the websocket dialer
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithHeader adds headers to the handshake request
func WithHeader(h http.Header) Option {
	return func(c *Client) { c.header = h }
}

// WithOnConnect registers f to run once the namespace connect is acknowledged
func WithOnConnect(f func()) Option {
	return func(c *Client) { c.onConnect = f }
}

// WithBackoff sets the first and the largest wait between reconnects
func WithBackoff(min, max time.Duration) Option {
	return func(c *Client) {
		c.minBackoff = min
		c.maxBackoff = max
	}
}

// NewClient builds the websocket endpoint from the backend base URL
func NewClient(serverURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + socketPath
	u.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()

	c := &Client{
		url:        u.String(),
		dialer:     websocket.DefaultDialer,
		minBackoff: DefaultMinBackoff,
		maxBackoff: DefaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the websocket endpoint
func (c *Client) URL() string {
	return c.url
}

type openPacket struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

// Listen connects, joins the default namespace and delivers events to h
// until ctx is done or the connection ends. It never reconnects; the
// returned error is ctx.Err() after cancellation.
func (c *Client) Listen(ctx context.Context, h Handler) error {
	_, err := c.listen(ctx, h)
	return err
}

// Run keeps the channel open until ctx is done. Every drop is logged and
// followed by a new dial; the wait doubles up to the maximum while dials
// fail and starts over once a session gets connected. It returns ctx.Err().
func (c *Client) Run(ctx context.Context, h Handler) error {
	wait := c.minBackoff
	for {
		connected, err := c.listen(ctx, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			wait = c.minBackoff
		}
		log.Warn().Err(err).Bool("was_connected", connected).Dur("retry_in", wait).Msg("[push] channel dropped")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if !connected {
			wait = min(wait*2, c.maxBackoff)
		}
	}
}

// listen runs one session. connected reports whether the namespace connect
// was acknowledged before it ended.
func (c *Client) listen(ctx context.Context, h Handler) (bool, error) {
	connected := false
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			return connected, fmt.Errorf("dial push channel (status %d): %w", resp.StatusCode, err)
		}
		return connected, fmt.Errorf("dial push channel: %w", err)
	}
	defer conn.Close()
	conn.SetReadLimit(readLimit)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	readWait := defaultPingEvery + defaultPingWait

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return connected, ctx.Err()
			}
			return connected, fmt.Errorf("read push channel: %w", err)
		}
		if len(payload) == 0 {
			continue
		}

		switch payload[0] {
		case eioOpen:
			var op openPacket
			if err := json.Unmarshal(payload[1:], &op); err != nil {
				return connected, fmt.Errorf("decode open packet: %w", err)
			}
			if op.PingInterval > 0 && op.PingTimeout > 0 {
				readWait = time.Duration(op.PingInterval+op.PingTimeout) * time.Millisecond
			}
			log.Debug().Str("sid", op.SID).Dur("read_wait", readWait).Msg("[push] engine open")
			if err := c.write(conn, string(eioMessage)+string(sioConnect)); err != nil {
				return connected, err
			}
		case eioPing:
			if err := c.write(conn, string(eioPong)+string(payload[1:])); err != nil {
				return connected, err
			}
		case eioClose:
			return connected, ErrDisconnected
		case eioMessage:
			if len(payload) < 2 {
				continue
			}
			switch payload[1] {
			case sioConnect:
				if !connected {
					connected = true
					log.Info().Str("url", c.url).Msg("[push] connected")
					if c.onConnect != nil {
						c.onConnect()
					}
				}
			case sioConnectError:
				return connected, fmt.Errorf("namespace connect refused: %s", string(payload[2:]))
			case sioDisconnect:
				return connected, ErrDisconnected
			case sioEvent:
				ev, err := ParseEventPacket(payload[2:])
				if err != nil {
					log.Warn().Err(err).Msg("[push] drop malformed event")
					continue
				}
				if ev == nil {
					continue
				}
				h.HandleEvent(ev)
			}
		}
	}
}

func (c *Client) write(conn *websocket.Conn, packet string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(packet)); err != nil {
		return fmt.Errorf("write push channel: %w", err)
	}
	return nil
}
