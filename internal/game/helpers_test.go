package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stackedShoe returns a shoe that deals cards in the order given, padded with
// low clubs so that dealing never triggers a reshuffle.
func stackedShoe(cards string) *deck.Shoe {
	cs := deck.MustParseCards(cards)
	target := max(80, len(cs)+60)
	for len(cs) < target {
		cs = append(cs, deck.NewCard(deck.Clubs, deck.Two))
	}
	return deck.NewShoeFromCards(cs...)
}

// newTestSession creates a session whose first shoe deals the given cards.
// Deal order is player, dealer, player, dealer, then draws.
func newTestSession(t *testing.T, balance rules.Amount, cards string, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithShoe(stackedShoe(cards)),
		WithRNG(randutil.New(1)),
		WithLogger(quietLogger()),
	}
	s, err := NewSession(balance, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

// dealWith places the bets and deals, failing the test on rejection
func dealWith(t *testing.T, s *Session, bets ...BetPlacement) {
	t.Helper()
	for _, b := range bets {
		require.NoError(t, s.Bet(b.Kind, b.Amount))
	}
	require.NoError(t, s.Deal(t.Context()))
}

func mainBet(dollars int64) BetPlacement {
	return BetPlacement{Kind: rules.BetMain, Amount: rules.Dollars(dollars)}
}

func sideBet(kind rules.BetKind, dollars int64) BetPlacement {
	return BetPlacement{Kind: kind, Amount: rules.Dollars(dollars)}
}

// ledgerMatches checks every bet field equals the sum of its placements
func ledgerMatches(t *testing.T, h Hand) {
	t.Helper()
	sums := map[rules.BetKind]rules.Amount{}
	for _, p := range h.Placements {
		sums[p.Kind] += p.Amount
	}
	require.Equal(t, h.MainBet, sums[rules.BetMain], "main bet ledger")
	for _, kind := range rules.SideBets {
		require.Equal(t, h.SideBets.Get(kind), sums[kind], "%s ledger", kind)
	}
}

type recordingSubscriber struct {
	events []GameEvent
}

func (r *recordingSubscriber) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}
