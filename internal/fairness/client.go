package fairness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
)

// Message types exchanged with the fair-play service
const (
	TypeStartSession   = "start_session"
	TypeSessionStarted = "session_started"
	TypeError          = "error"
)

// Message is the JSON envelope used in both directions
type Message struct {
	Type           string `json:"type"`
	ClientSeed     string `json:"client_seed,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	ServerSeedHash string `json:"server_seed_hash,omitempty"`
	Message        string `json:"message,omitempty"`
}

// ErrRejected is returned when the service answers with an error message
var ErrRejected = errors.New("fair-play service rejected session")

// Client starts sessions on a remote fair-play service over WebSocket. Each
// Authorize call uses its own short-lived connection.
type Client struct {
	serverURL string
	timeout   time.Duration
	clock     quartz.Clock
	logger    *log.Logger
	dialer    *websocket.Dialer

	mu   sync.Mutex
	last Session
}

// NewClient creates a client for serverURL. http(s) URLs are converted to
// ws(s).
func NewClient(serverURL string, timeout time.Duration, clock quartz.Clock, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid fair-play URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported fair-play URL scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	return &Client{
		serverURL: u.String(),
		timeout:   timeout,
		clock:     clock,
		logger:    logger.WithPrefix("fairness"),
		dialer:    &websocket.Dialer{HandshakeTimeout: timeout},
	}, nil
}

// Authorize implements game.Authorizer
func (c *Client) Authorize(ctx context.Context) (string, error) {
	s, err := c.Start(ctx, NewClientSeed())
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

// Start requests a new session seeded with clientSeed
func (c *Client) Start(ctx context.Context, clientSeed string) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.serverURL, nil)
	if err != nil {
		return Session{}, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	deadline := c.clock.Now().Add(c.timeout)
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	// Unblock the read when ctx ends first
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.WriteJSON(Message{Type: TypeStartSession, ClientSeed: clientSeed}); err != nil {
		return Session{}, fmt.Errorf("failed to send request: %w", err)
	}

	var reply Message
	if err := conn.ReadJSON(&reply); err != nil {
		if ctx.Err() != nil {
			return Session{}, ctx.Err()
		}
		return Session{}, fmt.Errorf("failed to read reply: %w", err)
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	switch reply.Type {
	case TypeSessionStarted:
		if reply.SessionID == "" {
			return Session{}, fmt.Errorf("reply missing session id")
		}
	case TypeError:
		return Session{}, fmt.Errorf("%w: %s", ErrRejected, reply.Message)
	default:
		return Session{}, fmt.Errorf("unexpected reply type %q", reply.Type)
	}

	s := Session{ID: reply.SessionID, ClientSeed: clientSeed, ServerSeedHash: reply.ServerSeedHash}
	c.mu.Lock()
	c.last = s
	c.mu.Unlock()
	c.logger.Debug("Fair-play session started", "session", s.ID, "server_seed_hash", s.ServerSeedHash)
	return s, nil
}

// Last returns the most recently started session
func (c *Client) Last() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
