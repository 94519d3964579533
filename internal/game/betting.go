package game

import (
	"slices"

	"github.com/lox/blackjack/internal/rules"
)

// SetBetAmount sets the chip value used by PlaceBet
func (s *Session) SetBetAmount(amount rules.Amount) error {
	if amount <= 0 {
		return s.reject("set bet amount", ErrInvalidAmount, "Bet amount must be positive")
	}
	s.betAmount = amount
	s.message = ""
	return nil
}

// SelectBetMode chooses which wager PlaceBet adds to
func (s *Session) SelectBetMode(kind rules.BetKind) error {
	if kind != rules.BetMain && !kind.IsSide() {
		return s.reject("select bet mode", ErrInvalidAmount, "Unknown bet type")
	}
	s.betMode = kind
	s.message = ""
	return nil
}

// PlaceBet adds the selected chip value to the selected wager
func (s *Session) PlaceBet() error {
	return s.Bet(s.betMode, s.betAmount)
}

// Bet adds amount to the wager of the given kind on the primary hand. The
// amount is taken from the balance immediately.
func (s *Session) Bet(kind rules.BetKind, amount rules.Amount) error {
	const op = "place bet"
	if s.phase != PhaseBetting {
		return s.reject(op, ErrWrongPhase, "Bets can only be placed before the deal")
	}
	if amount <= 0 {
		return s.reject(op, ErrInvalidAmount, "Bet amount must be positive")
	}
	h := s.hands[0]
	if kind.IsSide() && h.MainBet == 0 {
		return s.reject(op, ErrNoMainBet, "Place a main bet before %s", kind)
	}
	if kind != rules.BetMain && !kind.IsSide() {
		return s.reject(op, ErrInvalidAmount, "Unknown bet type")
	}
	if amount > s.balance {
		return s.reject(op, ErrInsufficientBalance, "Insufficient balance for a %s bet", amount)
	}
	if kind == rules.BetMain && h.MainBet+amount > s.table.MaxBet {
		return s.reject(op, ErrBetLimit, "Main bet cannot exceed %s", s.table.MaxBet)
	}
	if kind.IsSide() && h.SideBets.Get(kind)+amount > s.table.MaxSideBet {
		return s.reject(op, ErrBetLimit, "%s bet cannot exceed %s", kind, s.table.MaxSideBet)
	}

	h.addBet(kind, amount)
	s.balance -= amount
	s.message = ""
	s.logger.Debug("Bet placed", "kind", kind, "amount", amount, "balance", s.balance)
	return nil
}

// UndoBet removes the most recently placed bet and refunds it
func (s *Session) UndoBet() error {
	const op = "undo bet"
	if s.phase != PhaseBetting {
		return s.reject(op, ErrWrongPhase, "Bets can only be undone before the deal")
	}
	last, ok := s.hands[0].popBet()
	if !ok {
		return s.reject(op, ErrNothingToUndo, "No bets to undo")
	}
	s.balance += last.Amount
	s.message = ""
	s.logger.Debug("Bet undone", "kind", last.Kind, "amount", last.Amount, "balance", s.balance)
	return nil
}

// ClearBets refunds every bet placed this round
func (s *Session) ClearBets() error {
	const op = "clear bets"
	if s.phase != PhaseBetting {
		return s.reject(op, ErrWrongPhase, "Bets can only be cleared before the deal")
	}
	h := s.hands[0]
	if len(h.Placements) == 0 {
		return s.reject(op, ErrNothingToUndo, "No bets to clear")
	}
	refund := h.TotalBet()
	s.hands[0] = newHand()
	s.balance += refund
	s.message = ""
	s.logger.Debug("Bets cleared", "refund", refund, "balance", s.balance)
	return nil
}

// RedoBet places the same bets as the last settled round. From gameOver it
// starts the next round first.
func (s *Session) RedoBet() error {
	const op = "redo bet"
	switch s.phase {
	case PhaseBetting:
		if len(s.hands[0].Placements) > 0 {
			return s.reject(op, ErrWrongPhase, "Redo is only available before any bet is placed")
		}
	case PhaseGameOver:
	default:
		return s.reject(op, ErrWrongPhase, "Redo is only available between rounds")
	}
	if len(s.lastBets) == 0 {
		return s.reject(op, ErrNoPreviousBets, "No previous bets to repeat")
	}
	total := sumBets(s.lastBets)
	if total > s.balance {
		return s.reject(op, ErrInsufficientBalance, "Insufficient balance to repeat %s in bets", total)
	}

	if s.phase == PhaseGameOver {
		s.resetRound()
	}
	h := s.hands[0]
	for _, b := range s.lastBets {
		h.addBet(b.Kind, b.Amount)
	}
	s.balance -= total
	s.message = ""
	s.logger.Debug("Bets repeated", "total", total, "balance", s.balance)
	return nil
}

// LastBets returns the bets that RedoBet would place
func (s *Session) LastBets() []BetPlacement {
	return slices.Clone(s.lastBets)
}
