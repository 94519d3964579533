package rules

import "github.com/lox/blackjack/internal/deck"

// Outcome is the result label of a main wager
type Outcome string

const (
	OutcomePush      Outcome = "push"
	OutcomeBlackjack Outcome = "blackjack"
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeBust      Outcome = "bust"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true for win and blackjack
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// IsLoss returns true for loss and bust
func (o Outcome) IsLoss() bool {
	return o == OutcomeLoss || o == OutcomeBust
}

// EvaluateOutcome compares an unsplit player hand with the dealer hand.
// Callers label busted player hands themselves; a bust passed here is a loss.
func EvaluateOutcome(player, dealer []deck.Card) Outcome {
	playerBJ := IsBlackjack(player)
	dealerBJ := IsBlackjack(dealer)
	switch {
	case playerBJ && dealerBJ:
		return OutcomePush
	case playerBJ:
		return OutcomeBlackjack
	case dealerBJ:
		return OutcomeLoss
	}
	return compareTotals(player, dealer)
}

// EvaluateSplitOutcome compares a hand produced by a split. A two-card 21 on
// such a hand is an ordinary 21, never a blackjack.
func EvaluateSplitOutcome(player, dealer []deck.Card) Outcome {
	if IsBlackjack(dealer) {
		return OutcomeLoss
	}
	return compareTotals(player, dealer)
}

func compareTotals(player, dealer []deck.Card) Outcome {
	p := Value(player).Total
	d := Value(dealer).Total
	switch {
	case p > 21:
		return OutcomeLoss
	case d > 21:
		return OutcomeWin
	case p > d:
		return OutcomeWin
	case p < d:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}

// CalculatePayout returns the total amount returned to the player for a main
// wager, stake included. Blackjack pays 6:5.
func CalculatePayout(outcome Outcome, bet Amount) Amount {
	switch outcome {
	case OutcomeBlackjack:
		return bet.MulRatio(11, 5)
	case OutcomeWin:
		return bet * 2
	case OutcomePush:
		return bet
	default:
		return 0
	}
}

// InsurancePayout pays 2:1 plus the stake when the dealer holds blackjack
func InsurancePayout(insurance Amount, dealer []deck.Card) Amount {
	if insurance > 0 && IsBlackjack(dealer) {
		return insurance * 3
	}
	return 0
}

// MainRatio returns the payout ratio label for a main wager outcome
func MainRatio(outcome Outcome) string {
	switch outcome {
	case OutcomeBlackjack:
		return "6:5"
	case OutcomeWin:
		return "1:1"
	case OutcomePush:
		return "push"
	default:
		return "lose"
	}
}
