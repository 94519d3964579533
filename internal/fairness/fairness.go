// Package fairness starts provably-fair sessions before each deal. The
// session identifier is attached to the settled round for later audit; the
// shoe is still shuffled locally and never derived from the server seed.
package fairness

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/lox/blackjack/internal/roundid"
)

// Session is an issued fair-play session
type Session struct {
	ID             string
	ClientSeed     string
	ServerSeedHash string
}

// NewClientSeed returns a random hex seed
func NewClientSeed() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Local issues sessions without a remote service, for offline play
type Local struct {
	ids *roundid.Generator

	mu   sync.Mutex
	last Session
}

// NewLocal creates a local authorizer. A nil generator uses the default.
func NewLocal(ids *roundid.Generator) *Local {
	if ids == nil {
		ids = roundid.NewGenerator(nil, nil)
	}
	return &Local{ids: ids}
}

// Authorize implements game.Authorizer
func (l *Local) Authorize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s := Session{ID: l.ids.New(roundid.PrefixSession), ClientSeed: NewClientSeed()}
	l.mu.Lock()
	l.last = s
	l.mu.Unlock()
	return s.ID, nil
}

// Last returns the most recently issued session
func (l *Local) Last() Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
