package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/rules"
)

// HandResult is the settlement of one player hand's main bet
type HandResult struct {
	Cards   []deck.Card
	Value   rules.HandValue
	Bet     rules.Amount
	Doubled bool
	Outcome rules.Outcome
	Payout  rules.Amount
	Ratio   string
}

// SideBetResult is the settlement of a side bet from the frozen deal-time
// evaluation.
type SideBetResult struct {
	Kind   rules.BetKind
	Bet    rules.Amount
	Hand   string // winning combination or the losing label
	Payout rules.Amount
	Ratio  string
}

// Outcome returns "win" or "loss"
func (r SideBetResult) Outcome() string {
	if r.Payout > 0 {
		return "win"
	}
	return "loss"
}

// InsuranceResult is the settlement of an insurance bet
type InsuranceResult struct {
	Bet    rules.Amount
	Payout rules.Amount
}

// RoundResult is an immutable record of a settled round
type RoundResult struct {
	ID            string
	FairSessionID string
	Timestamp     time.Time
	Hands         []HandResult
	SideBets      []SideBetResult
	Insurance     *InsuranceResult
	DealerCards   []deck.Card
	DealerValue   rules.HandValue
	TotalBet      rules.Amount
	TotalPayout   rules.Amount
	Balance       rules.Amount // after payouts
	Streak        Streak
	Split         bool
}

// Net returns the round's profit or loss
func (r RoundResult) Net() rules.Amount {
	return r.TotalPayout - r.TotalBet
}

// Wins counts hands that won, blackjacks included
func (r RoundResult) Wins() int {
	n := 0
	for _, h := range r.Hands {
		if h.Outcome.IsWin() {
			n++
		}
	}
	return n
}

// Losses counts hands that lost or busted
func (r RoundResult) Losses() int {
	n := 0
	for _, h := range r.Hands {
		if h.Outcome.IsLoss() {
			n++
		}
	}
	return n
}
