package rules

import (
	"fmt"
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// BetKind identifies one of the four wagers on a hand
type BetKind int

const (
	BetMain BetKind = iota
	BetPerfectPairs
	BetTwentyOnePlusThree
	BetBlazingSevens
)

// SideBets lists the side wagers in display order
var SideBets = [3]BetKind{BetPerfectPairs, BetTwentyOnePlusThree, BetBlazingSevens}

// String returns the display name of the bet kind
func (k BetKind) String() string {
	switch k {
	case BetMain:
		return "Main"
	case BetPerfectPairs:
		return "Perfect Pairs"
	case BetTwentyOnePlusThree:
		return "21+3"
	case BetBlazingSevens:
		return "Blazing 7s"
	default:
		return "Unknown"
	}
}

// IsSide returns true for the three side wagers
func (k BetKind) IsSide() bool {
	return k == BetPerfectPairs || k == BetTwentyOnePlusThree || k == BetBlazingSevens
}

// ParseBetKind accepts "main", "pp", "perfect-pairs", "21+3", "tpt", "bs",
// "blazing-sevens" and similar short forms.
func ParseBetKind(s string) (BetKind, error) {
	switch s {
	case "main", "m":
		return BetMain, nil
	case "pp", "perfect-pairs", "perfectpairs":
		return BetPerfectPairs, nil
	case "21+3", "tpt", "twenty-plus-three", "twentyplusthree":
		return BetTwentyOnePlusThree, nil
	case "bs", "b7", "blazing-sevens", "blazingsevens", "sevens":
		return BetBlazingSevens, nil
	}
	return 0, fmt.Errorf("unknown bet kind %q", s)
}

// SideBetOutcome is the evaluation of one side wager. Multiplier is the total
// return per unit staked (stake included); zero means the wager lost.
type SideBetOutcome struct {
	Kind       BetKind
	Hand       string
	Multiplier int64
}

// Won returns true if the side wager pays
func (o SideBetOutcome) Won() bool {
	return o.Multiplier > 0
}

// Payout returns the total amount returned for stake
func (o SideBetOutcome) Payout(stake Amount) Amount {
	return stake * Amount(o.Multiplier)
}

// Ratio returns the human-readable odds, e.g. "25:1"
func (o SideBetOutcome) Ratio() string {
	return RatioLabel(o.Multiplier)
}

// RatioLabel converts a total-return multiplier into odds notation
func RatioLabel(multiplier int64) string {
	if multiplier <= 0 {
		return "lose"
	}
	if multiplier == 1 {
		return "push"
	}
	return fmt.Sprintf("%d:1", multiplier-1)
}

// EvaluateSideBet dispatches to the evaluator for kind. Only the first two
// player cards and the dealer up-card are considered.
func EvaluateSideBet(kind BetKind, player []deck.Card, dealerUp deck.Card) SideBetOutcome {
	switch kind {
	case BetPerfectPairs:
		return EvaluatePerfectPairs(player)
	case BetTwentyOnePlusThree:
		return EvaluateTwentyOnePlusThree(player, dealerUp)
	case BetBlazingSevens:
		return EvaluateBlazingSevens(player, dealerUp)
	default:
		return SideBetOutcome{Kind: kind, Hand: "none"}
	}
}

// EvaluatePerfectPairs checks the first two player cards for a pair
func EvaluatePerfectPairs(player []deck.Card) SideBetOutcome {
	out := SideBetOutcome{Kind: BetPerfectPairs, Hand: "No Pair"}
	if len(player) < 2 || player[0].Rank != player[1].Rank {
		return out
	}
	a, b := player[0], player[1]
	switch {
	case a.Suit == b.Suit:
		out.Hand, out.Multiplier = "Perfect Pair", 26
	case a.IsRed() == b.IsRed():
		out.Hand, out.Multiplier = "Coloured Pair", 13
	default:
		out.Hand, out.Multiplier = "Mixed Pair", 6
	}
	return out
}

// EvaluateTwentyOnePlusThree scores the two player cards plus the dealer
// up-card as a three-card poker hand. Categories overlap, so they are checked
// from most to least specific.
func EvaluateTwentyOnePlusThree(player []deck.Card, dealerUp deck.Card) SideBetOutcome {
	out := SideBetOutcome{Kind: BetTwentyOnePlusThree, Hand: "Nothing"}
	if len(player) < 2 {
		return out
	}
	three := []deck.Card{player[0], player[1], dealerUp}
	flush := sameSuit(three)
	trips := sameRank(three)
	straight := isStraight(three)

	switch {
	case trips && flush:
		out.Hand, out.Multiplier = "Suited Trips", 101
	case straight && flush:
		out.Hand, out.Multiplier = "Straight Flush", 41
	case trips:
		out.Hand, out.Multiplier = "Three of a Kind", 31
	case straight:
		out.Hand, out.Multiplier = "Straight", 11
	case flush:
		out.Hand, out.Multiplier = "Flush", 6
	}
	return out
}

// EvaluateBlazingSevens counts sevens among the two player cards and the
// dealer up-card.
func EvaluateBlazingSevens(player []deck.Card, dealerUp deck.Card) SideBetOutcome {
	out := SideBetOutcome{Kind: BetBlazingSevens, Hand: "No Sevens"}
	if len(player) < 2 {
		return out
	}
	a, b := player[0], player[1]
	playerSevens := 0
	for _, c := range []deck.Card{a, b} {
		if c.Rank == deck.Seven {
			playerSevens++
		}
	}
	dealerSeven := dealerUp.Rank == deck.Seven
	playerSuited := a.Suit == b.Suit

	switch {
	case playerSevens == 2 && dealerSeven && playerSuited && dealerUp.Suit == a.Suit:
		out.Hand, out.Multiplier = "Three Suited Sevens", 1001
	case playerSevens == 2 && dealerSeven && playerSuited:
		out.Hand, out.Multiplier = "Three Sevens, Player Suited", 501
	case playerSevens == 2 && dealerSeven:
		out.Hand, out.Multiplier = "Three Sevens", 201
	case playerSevens == 2 && playerSuited:
		out.Hand, out.Multiplier = "Two Suited Sevens", 101
	case playerSevens == 2:
		out.Hand, out.Multiplier = "Two Sevens", 51
	case playerSevens == 1:
		out.Hand, out.Multiplier = "One Seven", 4
	}
	return out
}

func sameSuit(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

func sameRank(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}

// isStraight accepts three consecutive ranks with the ace either low (A-2-3)
// or high (Q-K-A). Wrapping runs such as K-A-2 do not count.
func isStraight(cards []deck.Card) bool {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	slices.Sort(ranks)
	if ranks[0]+1 == ranks[1] && ranks[1]+1 == ranks[2] {
		return true
	}
	return ranks[0] == int(deck.Ace) && ranks[1] == int(deck.Queen) && ranks[2] == int(deck.King)
}
