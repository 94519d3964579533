package game

import (
	"context"
	"fmt"
	"slices"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/lox/blackjack/internal/rules"
)

// Deal starts the round: two cards each to the player and the dealer,
// alternating, player first. If an authorizer is configured it must succeed
// before any card is drawn.
func (s *Session) Deal(ctx context.Context) error {
	const op = "deal"
	if s.phase != PhaseBetting {
		return s.reject(op, ErrWrongPhase, "Cannot deal during %s", s.phase)
	}
	h := s.hands[0]
	if h.MainBet == 0 {
		return s.reject(op, ErrNoMainBet, "Place a main bet before dealing")
	}
	if h.MainBet < s.table.MinBet {
		return s.reject(op, ErrBetLimit, "Minimum main bet is %s", s.table.MinBet)
	}

	var fairID string
	if s.authorizer != nil {
		id, err := s.authorizer.Authorize(ctx)
		if err != nil {
			s.message = "Could not start a fair-play session, try again"
			s.logger.Warn("Authorization failed", "error", err)
			return &RejectedError{Op: op, Reason: fmt.Errorf("%w: %w", ErrAuthorization, err), Message: s.message}
		}
		fairID = id
	}

	if s.shoe.Remaining() < s.table.ReshuffleAt {
		s.logger.Info("Reshuffling shoe", "remaining", s.shoe.Remaining(), "decks", s.table.Decks)
		s.shoe = deck.NewShoe(s.rng, s.table.Decks)
	}

	s.roundID = s.ids.New(roundid.PrefixRound)
	s.fairSessionID = fairID
	s.roundBets = slices.Clone(h.Placements)

	for range 2 {
		h.Cards = append(h.Cards, s.draw())
		s.dealer.Cards = append(s.dealer.Cards, s.draw())
	}

	up := s.dealer.Cards[0]
	s.frozen = nil
	for _, kind := range rules.SideBets {
		if h.SideBets.Get(kind) > 0 {
			s.frozen = append(s.frozen, rules.EvaluateSideBet(kind, h.Cards[:2], up))
		}
	}

	s.message = ""
	s.logger.Debug("Dealt", "round", s.roundID, "player", deck.FormatCards(h.Cards), "up", up, "total", h.Value())
	s.bus.Publish(RoundStartedEvent{
		RoundID:       s.roundID,
		FairSessionID: fairID,
		TotalBet:      s.TotalBet(),
		Balance:       s.balance,
		timestamp:     s.clock.Now(),
	})

	switch {
	case up.IsAce():
		s.phase = PhaseInsurance
		s.insuranceOffered = true
	case rules.IsBlackjack(h.Cards):
		s.settle()
	default:
		s.phase = PhasePlaying
		s.current = 0
	}
	return nil
}

// TakeInsurance stakes half the main bet against a dealer blackjack
func (s *Session) TakeInsurance() error {
	const op = "insurance"
	if s.phase != PhaseInsurance {
		return s.reject(op, ErrWrongPhase, "Insurance is not on offer")
	}
	cost := s.insuranceCost()
	if cost <= 0 {
		return s.reject(op, ErrInvalidAmount, "Main bet is too small to insure")
	}
	if cost > s.balance {
		return s.reject(op, ErrInsufficientBalance, "Insufficient balance for %s insurance", cost)
	}
	s.balance -= cost
	s.insuranceBet = cost
	s.logger.Debug("Insurance taken", "amount", cost, "balance", s.balance)
	s.resolveInsurance()
	return nil
}

// DeclineInsurance continues the round without insurance
func (s *Session) DeclineInsurance() error {
	if s.phase != PhaseInsurance {
		return s.reject("decline insurance", ErrWrongPhase, "Insurance is not on offer")
	}
	s.logger.Debug("Insurance declined")
	s.resolveInsurance()
	return nil
}

func (s *Session) resolveInsurance() {
	s.message = ""
	if rules.IsBlackjack(s.dealer.Cards) || rules.IsBlackjack(s.hands[0].Cards) {
		s.settle()
		return
	}
	s.phase = PhasePlaying
	s.current = 0
}

// Hit draws a card to the current hand. A bust or a total of 21 moves play on.
func (s *Session) Hit() error {
	const op = "hit"
	if s.phase != PhasePlaying {
		return s.reject(op, ErrWrongPhase, "Cannot hit during %s", s.phase)
	}
	if !s.CanHit() {
		return s.reject(op, ErrIllegalAction, "Hand %d cannot take another card", s.current+1)
	}
	h := s.hands[s.current]
	c := s.draw()
	h.Cards = append(h.Cards, c)
	v := h.Value()
	s.message = ""
	s.logger.Debug("Hit", "hand", s.current, "card", c, "total", v)
	if v.Total >= 21 {
		s.advance()
	}
	return nil
}

// Stand ends play on the current hand
func (s *Session) Stand() error {
	if s.phase != PhasePlaying {
		return s.reject("stand", ErrWrongPhase, "Cannot stand during %s", s.phase)
	}
	s.message = ""
	s.logger.Debug("Stand", "hand", s.current, "total", s.hands[s.current].Value())
	s.advance()
	return nil
}

// DoubleDown doubles the main bet, draws exactly one card and stands
func (s *Session) DoubleDown() error {
	const op = "double"
	if s.phase != PhasePlaying {
		return s.reject(op, ErrWrongPhase, "Cannot double during %s", s.phase)
	}
	h := s.hands[s.current]
	if h.Doubled || !rules.CanDoubleDown(h.Cards) {
		return s.reject(op, ErrIllegalAction, "Double down needs two cards totalling a hard 9, 10 or 11")
	}
	if s.balance < h.MainBet {
		return s.reject(op, ErrInsufficientBalance, "Insufficient balance to double %s", h.MainBet)
	}
	amount := h.MainBet
	s.balance -= amount
	h.addBet(rules.BetMain, amount)
	h.Doubled = true
	c := s.draw()
	h.Cards = append(h.Cards, c)
	s.message = ""
	s.logger.Debug("Double", "hand", s.current, "card", c, "total", h.Value(), "bet", h.MainBet)
	s.advance()
	return nil
}

// Split turns a pair into two hands with equal main bets. Only one split is
// allowed per round and side bets stay with the first hand.
func (s *Session) Split() error {
	const op = "split"
	if s.phase != PhasePlaying {
		return s.reject(op, ErrWrongPhase, "Cannot split during %s", s.phase)
	}
	if s.split {
		return s.reject(op, ErrIllegalAction, "Only one split per round")
	}
	h := s.hands[s.current]
	if !rules.CanSplit(h.Cards) {
		return s.reject(op, ErrIllegalAction, "Only two cards of the same rank can be split")
	}
	if s.balance < h.MainBet {
		return s.reject(op, ErrInsufficientBalance, "Insufficient balance to split %s", h.MainBet)
	}

	amount := h.MainBet
	s.balance -= amount
	second := newHand()
	second.Cards = []deck.Card{h.Cards[1]}
	second.addBet(rules.BetMain, amount)
	h.Cards = h.Cards[:1]
	s.hands = append(s.hands, second)
	s.split = true

	h.Cards = append(h.Cards, s.draw())
	second.Cards = append(second.Cards, s.draw())
	s.message = ""
	s.logger.Debug("Split", "first", deck.FormatCards(h.Cards), "second", deck.FormatCards(second.Cards), "balance", s.balance)

	s.current = 0
	if h.Value().Total >= 21 {
		s.advance()
	}
	return nil
}

// advance finishes the current hand and moves to the next playable one,
// settling when none remain. Hands dealt to 21 are skipped.
func (s *Session) advance() {
	s.hands[s.current].Done = true
	for i := s.current + 1; i < len(s.hands); i++ {
		h := s.hands[i]
		if h.Value().Total >= 21 {
			h.Done = true
			continue
		}
		s.current = i
		return
	}
	s.settle()
}

// NextRound clears the table after settlement and returns to betting
func (s *Session) NextRound() error {
	if s.phase != PhaseGameOver {
		return s.reject("next round", ErrWrongPhase, "The round is still in progress")
	}
	s.resetRound()
	s.message = ""
	return nil
}

// draw takes a card from the shoe, replacing an exhausted shoe mid-hand
func (s *Session) draw() deck.Card {
	c, ok := s.shoe.Draw()
	if !ok {
		s.logger.Warn("Shoe exhausted mid-round, building a new shoe")
		s.shoe = deck.NewShoe(s.rng, s.table.Decks)
		c, _ = s.shoe.Draw()
	}
	return c
}
