package fairness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fairServer(t *testing.T, handle func(req Message) Message) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var req Message
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		_ = conn.WriteJSON(handle(req))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientStartsSession(t *testing.T) {
	var seen Message
	srv := fairServer(t, func(req Message) Message {
		seen = req
		return Message{Type: TypeSessionStarted, SessionID: "ses_abc", ServerSeedHash: "deadbeef"}
	})

	c, err := NewClient(srv.URL, time.Second, quartz.NewReal(), nil)
	require.NoError(t, err)

	s, err := c.Start(t.Context(), "cafe")
	require.NoError(t, err)
	assert.Equal(t, "ses_abc", s.ID)
	assert.Equal(t, "deadbeef", s.ServerSeedHash)
	assert.Equal(t, "cafe", s.ClientSeed)
	assert.Equal(t, TypeStartSession, seen.Type)
	assert.Equal(t, "cafe", seen.ClientSeed)
	assert.Equal(t, s, c.Last())
}

func TestClientAuthorizeReturnsSessionID(t *testing.T) {
	srv := fairServer(t, func(req Message) Message {
		if len(req.ClientSeed) != 32 {
			return Message{Type: TypeError, Message: "bad seed"}
		}
		return Message{Type: TypeSessionStarted, SessionID: "ses_xyz"}
	})
	c, err := NewClient(srv.URL, time.Second, nil, nil)
	require.NoError(t, err)

	id, err := c.Authorize(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "ses_xyz", id)
}

func TestClientServiceError(t *testing.T) {
	srv := fairServer(t, func(Message) Message {
		return Message{Type: TypeError, Message: "rate limited"}
	})
	c, err := NewClient(srv.URL, time.Second, nil, nil)
	require.NoError(t, err)

	_, err = c.Authorize(t.Context())
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClientUnexpectedReply(t *testing.T) {
	srv := fairServer(t, func(Message) Message {
		return Message{Type: "pong"}
	})
	c, err := NewClient(srv.URL, time.Second, nil, nil)
	require.NoError(t, err)

	_, err = c.Authorize(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pong")
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, 200*time.Millisecond, nil, nil)
	require.NoError(t, err)
	_, err = c.Authorize(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestClientCancelledContext(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	srv := fairServer(t, func(Message) Message {
		<-block
		return Message{Type: TypeSessionStarted, SessionID: "late"}
	})
	c, err := NewClient(srv.URL, 5*time.Second, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Authorize(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientSchemes(t *testing.T) {
	c, err := NewClient("https://fair.example.com/ws", 0, nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.serverURL, "wss://"))
	assert.Equal(t, 5*time.Second, c.timeout)

	_, err = NewClient("ftp://nope", 0, nil, nil)
	require.Error(t, err)
}

func TestLocalIssuesSessionIDs(t *testing.T) {
	l := NewLocal(nil)
	a, err := l.Authorize(t.Context())
	require.NoError(t, err)
	b, err := l.Authorize(t.Context())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "ses_"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, b, l.Last().ID)
	assert.Len(t, l.Last().ClientSeed, 32)
}

func TestLocalCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := NewLocal(nil).Authorize(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
