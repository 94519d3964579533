package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/lox/blackjack/internal/rules"
)

// StreakKind is the direction of the current streak
type StreakKind int

const (
	StreakNone StreakKind = iota
	StreakWin
	StreakLoss
)

func (k StreakKind) String() string {
	switch k {
	case StreakWin:
		return "win"
	case StreakLoss:
		return "loss"
	default:
		return "none"
	}
}

// Streak counts consecutive rounds with the same majority outcome
type Streak struct {
	Kind  StreakKind
	Count int
}

func (s Streak) String() string {
	if s.Kind == StreakNone {
		return "-"
	}
	if s.Kind == StreakWin {
		return "W" + strconv.Itoa(s.Count)
	}
	return "L" + strconv.Itoa(s.Count)
}

// Session is a single player's blackjack table. Methods must be called from
// one goroutine at a time.
type Session struct {
	table      TableRules
	rng        *rand.Rand
	shoe       *deck.Shoe
	clock      quartz.Clock
	logger     *log.Logger
	ids        *roundid.Generator
	authorizer Authorizer
	bus        *SimpleEventBus

	balance rules.Amount
	phase   Phase
	hands   []*Hand
	dealer  *Hand
	current int
	split   bool

	betAmount rules.Amount
	betMode   rules.BetKind
	roundBets []BetPlacement // bets as placed before the deal
	lastBets  []BetPlacement // bets of the last settled round, for redo

	insuranceOffered bool
	insuranceBet     rules.Amount

	frozen        []rules.SideBetOutcome // side bet results captured at deal
	roundID       string
	fairSessionID string

	history []RoundResult
	streak  Streak
	message string
}

// NewSession creates a session in the betting phase with the given balance.
func NewSession(balance rules.Amount, opts ...Option) (*Session, error) {
	if balance < 0 {
		return nil, fmt.Errorf("balance must not be negative, got %s", balance)
	}
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}

	s := &Session{
		table:      cfg.table,
		rng:        cfg.rng,
		shoe:       cfg.shoe,
		clock:      cfg.clock,
		logger:     cfg.logger.WithPrefix("session"),
		ids:        cfg.ids,
		authorizer: cfg.authorizer,
		bus:        NewEventBus(),
		balance:    balance,
		betAmount:  cfg.table.MinBet,
		betMode:    rules.BetMain,
	}
	s.resetRound()
	s.logger.Debug("Session created", "balance", balance, "decks", s.table.Decks)
	return s, nil
}

func (s *Session) resetRound() {
	s.phase = PhaseBetting
	s.hands = []*Hand{newHand()}
	s.dealer = newDealerHand()
	s.current = 0
	s.split = false
	s.roundBets = nil
	s.insuranceOffered = false
	s.insuranceBet = 0
	s.frozen = nil
	s.roundID = ""
	s.fairSessionID = ""
}

// Subscribe registers for round events
func (s *Session) Subscribe(sub EventSubscriber) {
	s.bus.Subscribe(sub)
}

// Unsubscribe removes a subscriber
func (s *Session) Unsubscribe(sub EventSubscriber) {
	s.bus.Unsubscribe(sub)
}

func (s *Session) Phase() Phase               { return s.phase }
func (s *Session) Balance() rules.Amount      { return s.balance }
func (s *Session) Table() TableRules          { return s.table }
func (s *Session) Message() string            { return s.message }
func (s *Session) BetAmount() rules.Amount    { return s.betAmount }
func (s *Session) BetMode() rules.BetKind     { return s.betMode }
func (s *Session) CurrentHandIndex() int      { return s.current }
func (s *Session) Streak() Streak             { return s.streak }
func (s *Session) ShoeRemaining() int         { return s.shoe.Remaining() }
func (s *Session) InsuranceOffered() bool     { return s.insuranceOffered }
func (s *Session) InsuranceBet() rules.Amount { return s.insuranceBet }
func (s *Session) RoundID() string            { return s.roundID }
func (s *Session) IsSplit() bool              { return s.split }

// PlayerHands returns copies of the player hands
func (s *Session) PlayerHands() []Hand {
	hands := make([]Hand, len(s.hands))
	for i, h := range s.hands {
		hands[i] = h.clone()
	}
	return hands
}

// CurrentHand returns a copy of the hand being played
func (s *Session) CurrentHand() Hand {
	return s.hands[s.current].clone()
}

// DealerHand returns the dealer's cards as visible to the player. The hole
// card is withheld until the round is settling.
func (s *Session) DealerHand() []deck.Card {
	if s.dealerRevealed() {
		return slices.Clone(s.dealer.Cards)
	}
	if len(s.dealer.Cards) == 0 {
		return nil
	}
	return []deck.Card{s.dealer.Cards[0]}
}

// DealerUpCard returns the face-up dealer card
func (s *Session) DealerUpCard() (deck.Card, bool) {
	if len(s.dealer.Cards) == 0 {
		return deck.Card{}, false
	}
	return s.dealer.Cards[0], true
}

func (s *Session) dealerRevealed() bool {
	return s.phase == PhaseSettling || s.phase == PhaseGameOver
}

// TotalBet returns everything staked on the current round, insurance included
func (s *Session) TotalBet() rules.Amount {
	var total rules.Amount
	for _, h := range s.hands {
		total += h.TotalBet()
	}
	return total + s.insuranceBet
}

// History returns settled rounds, oldest first
func (s *Session) History() []RoundResult {
	return slices.Clone(s.history)
}

// LastResult returns the most recently settled round
func (s *Session) LastResult() (RoundResult, bool) {
	if len(s.history) == 0 {
		return RoundResult{}, false
	}
	return s.history[len(s.history)-1], true
}

// SideBetPreview returns the side bet outcomes frozen at the deal. It is
// empty during betting.
func (s *Session) SideBetPreview() []rules.SideBetOutcome {
	return slices.Clone(s.frozen)
}

func (s *Session) CanHit() bool {
	if s.phase != PhasePlaying {
		return false
	}
	h := s.hands[s.current]
	return !h.Done && h.Value().Total < 21
}

func (s *Session) CanStand() bool {
	return s.phase == PhasePlaying && !s.hands[s.current].Done
}

func (s *Session) CanDouble() bool {
	if !s.CanStand() {
		return false
	}
	h := s.hands[s.current]
	return !h.Doubled && rules.CanDoubleDown(h.Cards) && s.balance >= h.MainBet
}

func (s *Session) CanSplit() bool {
	if !s.CanStand() || s.split {
		return false
	}
	h := s.hands[s.current]
	return rules.CanSplit(h.Cards) && s.balance >= h.MainBet
}

func (s *Session) CanDeal() bool {
	main := s.hands[0].MainBet
	return s.phase == PhaseBetting && main > 0 && main >= s.table.MinBet
}

func (s *Session) CanUndo() bool {
	return s.phase == PhaseBetting && len(s.hands[0].Placements) > 0
}

func (s *Session) CanRedo() bool {
	switch s.phase {
	case PhaseBetting:
		return len(s.hands[0].Placements) == 0 && len(s.lastBets) > 0 && sumBets(s.lastBets) <= s.balance
	case PhaseGameOver:
		return len(s.lastBets) > 0 && sumBets(s.lastBets) <= s.balance
	default:
		return false
	}
}

func (s *Session) CanInsure() bool {
	return s.phase == PhaseInsurance && s.insuranceCost() > 0 && s.balance >= s.insuranceCost()
}

func (s *Session) insuranceCost() rules.Amount {
	return s.hands[0].MainBet / 2
}

func sumBets(bets []BetPlacement) rules.Amount {
	var total rules.Amount
	for _, b := range bets {
		total += b.Amount
	}
	return total
}
