package game

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/rules"
)

// BalanceSource is the authoritative account balance, read once when a
// session starts.
type BalanceSource interface {
	Balance(ctx context.Context) (rules.Amount, error)
}

// Authorizer starts a provably-fair session before a deal and returns its
// identifier for audit.
type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

// AuthorizerFunc adapts a function to Authorizer
type AuthorizerFunc func(ctx context.Context) (string, error)

func (f AuthorizerFunc) Authorize(ctx context.Context) (string, error) {
	return f(ctx)
}

// StartSession reads the starting balance from src and creates a session
func StartSession(ctx context.Context, src BalanceSource, opts ...Option) (*Session, error) {
	balance, err := src.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	return NewSession(balance, opts...)
}
