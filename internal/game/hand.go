package game

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/rules"
)

// BetPlacement is one entry of the bet ledger
type BetPlacement struct {
	Kind   rules.BetKind
	Amount rules.Amount
}

// SideBets holds the stake on each side wager
type SideBets struct {
	PerfectPairs       rules.Amount
	TwentyOnePlusThree rules.Amount
	BlazingSevens      rules.Amount
}

// Get returns the stake for a side bet kind
func (sb SideBets) Get(kind rules.BetKind) rules.Amount {
	switch kind {
	case rules.BetPerfectPairs:
		return sb.PerfectPairs
	case rules.BetTwentyOnePlusThree:
		return sb.TwentyOnePlusThree
	case rules.BetBlazingSevens:
		return sb.BlazingSevens
	default:
		return 0
	}
}

func (sb *SideBets) add(kind rules.BetKind, amount rules.Amount) {
	switch kind {
	case rules.BetPerfectPairs:
		sb.PerfectPairs += amount
	case rules.BetTwentyOnePlusThree:
		sb.TwentyOnePlusThree += amount
	case rules.BetBlazingSevens:
		sb.BlazingSevens += amount
	}
}

// Total returns the combined side bet stake
func (sb SideBets) Total() rules.Amount {
	return sb.PerfectPairs + sb.TwentyOnePlusThree + sb.BlazingSevens
}

// Hand is a player or dealer hand together with its wagers
type Hand struct {
	Cards      []deck.Card
	MainBet    rules.Amount
	SideBets   SideBets
	Placements []BetPlacement // append-only while betting, popped by undo
	IsDealer   bool
	Doubled    bool
	Done       bool
}

func newHand() *Hand {
	return &Hand{}
}

func newDealerHand() *Hand {
	return &Hand{IsDealer: true}
}

// Value returns the current hand value
func (h *Hand) Value() rules.HandValue {
	return rules.Value(h.Cards)
}

// Bet returns the stake for kind
func (h *Hand) Bet(kind rules.BetKind) rules.Amount {
	if kind == rules.BetMain {
		return h.MainBet
	}
	return h.SideBets.Get(kind)
}

// TotalBet returns main plus side stakes
func (h *Hand) TotalBet() rules.Amount {
	return h.MainBet + h.SideBets.Total()
}

func (h *Hand) addBet(kind rules.BetKind, amount rules.Amount) {
	if kind == rules.BetMain {
		h.MainBet += amount
	} else {
		h.SideBets.add(kind, amount)
	}
	h.Placements = append(h.Placements, BetPlacement{Kind: kind, Amount: amount})
}

func (h *Hand) popBet() (BetPlacement, bool) {
	if len(h.Placements) == 0 {
		return BetPlacement{}, false
	}
	last := h.Placements[len(h.Placements)-1]
	h.Placements = h.Placements[:len(h.Placements)-1]
	if last.Kind == rules.BetMain {
		h.MainBet -= last.Amount
	} else {
		h.SideBets.add(last.Kind, -last.Amount)
	}
	return last, true
}

func (h *Hand) clone() Hand {
	c := *h
	c.Cards = slices.Clone(h.Cards)
	c.Placements = slices.Clone(h.Placements)
	return c
}
