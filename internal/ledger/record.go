package ledger

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// HandRecord is a settled player hand as stored on disk
type HandRecord struct {
	Cards   string        `json:"cards"`
	Total   int           `json:"total"`
	Bet     rules.Amount  `json:"bet"`
	Doubled bool          `json:"doubled,omitempty"`
	Outcome rules.Outcome `json:"outcome"`
	Payout  rules.Amount  `json:"payout"`
	Ratio   string        `json:"ratio"`
}

// SideBetRecord is a settled side bet as stored on disk
type SideBetRecord struct {
	Kind   string       `json:"kind"`
	Bet    rules.Amount `json:"bet"`
	Hand   string       `json:"hand"`
	Payout rules.Amount `json:"payout"`
	Ratio  string       `json:"ratio"`
}

// InsuranceRecord is a settled insurance bet
type InsuranceRecord struct {
	Bet    rules.Amount `json:"bet"`
	Payout rules.Amount `json:"payout"`
}

// Record is one round in the ledger file. Amounts are in cents.
type Record struct {
	ID            string           `json:"id"`
	FairSessionID string           `json:"fair_session_id,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
	Hands         []HandRecord     `json:"hands"`
	Dealer        string           `json:"dealer"`
	DealerTotal   int              `json:"dealer_total"`
	SideBets      []SideBetRecord  `json:"side_bets,omitempty"`
	Insurance     *InsuranceRecord `json:"insurance,omitempty"`
	TotalBet      rules.Amount     `json:"total_bet"`
	TotalPayout   rules.Amount     `json:"total_payout"`
	Net           rules.Amount     `json:"net"`
	Balance       rules.Amount     `json:"balance"`
}

// NewRecord converts a settled round. Totals are recomputed from the cards.
func NewRecord(r game.RoundResult) Record {
	rec := Record{
		ID:            r.ID,
		FairSessionID: r.FairSessionID,
		Timestamp:     r.Timestamp.UTC(),
		Dealer:        deck.FormatCards(r.DealerCards),
		DealerTotal:   rules.Value(r.DealerCards).Total,
		TotalBet:      r.TotalBet,
		TotalPayout:   r.TotalPayout,
		Net:           r.Net(),
		Balance:       r.Balance,
	}
	for _, h := range r.Hands {
		rec.Hands = append(rec.Hands, HandRecord{
			Cards:   deck.FormatCards(h.Cards),
			Total:   rules.Value(h.Cards).Total,
			Bet:     h.Bet,
			Doubled: h.Doubled,
			Outcome: h.Outcome,
			Payout:  h.Payout,
			Ratio:   h.Ratio,
		})
	}
	for _, sb := range r.SideBets {
		rec.SideBets = append(rec.SideBets, SideBetRecord{
			Kind:   sb.Kind.String(),
			Bet:    sb.Bet,
			Hand:   sb.Hand,
			Payout: sb.Payout,
			Ratio:  sb.Ratio,
		})
	}
	if r.Insurance != nil {
		rec.Insurance = &InsuranceRecord{Bet: r.Insurance.Bet, Payout: r.Insurance.Payout}
	}
	return rec
}
