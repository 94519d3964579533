// Package rules holds the pure blackjack rules: hand valuation, action
// legality, the dealer drawing rule, outcome evaluation and the payout tables
// for the main wager and the Perfect Pairs, 21+3 and Blazing Sevens side
// wagers. Nothing in this package mutates its inputs.
package rules

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// HandValue is the derived total of a hand
type HandValue struct {
	Total int
	Soft  bool // at least one Ace still counts as 11
}

// String renders the value, e.g. "soft 17" or "20"
func (v HandValue) String() string {
	if v.Soft {
		return fmt.Sprintf("soft %d", v.Total)
	}
	return fmt.Sprintf("%d", v.Total)
}

// Value computes the hand total. Aces start at 11 and are demoted to 1 one at
// a time while the total exceeds 21.
func Value(cards []deck.Card) HandValue {
	total, highAces := 0, 0
	for _, c := range cards {
		if c.IsAce() {
			total += 11
			highAces++
			continue
		}
		total += c.Rank.Points()
	}
	for total > 21 && highAces > 0 {
		total -= 10
		highAces--
	}
	return HandValue{Total: total, Soft: highAces > 0}
}

// IsBust reports whether the hand total exceeds 21
func IsBust(cards []deck.Card) bool {
	return Value(cards).Total > 21
}

// IsBlackjack reports a two-card 21
func IsBlackjack(cards []deck.Card) bool {
	return len(cards) == 2 && Value(cards).Total == 21
}

// CanSplit requires exactly two cards of identical rank. Equal value is not
// enough: K and Q do not split.
func CanSplit(cards []deck.Card) bool {
	return len(cards) == 2 && cards[0].Rank == cards[1].Rank
}

// CanDoubleDown allows doubling only on a two-card hard 9, 10 or 11.
func CanDoubleDown(cards []deck.Card) bool {
	if len(cards) != 2 {
		return false
	}
	v := Value(cards)
	return !v.Soft && v.Total >= 9 && v.Total <= 11
}

// DealerShouldHit is true below 17 and on soft 17. The dealer stands on hard
// 17 and every total of 18 or more.
func DealerShouldHit(cards []deck.Card) bool {
	v := Value(cards)
	return v.Total < 17 || (v.Total == 17 && v.Soft)
}
