package strategy

import (
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// Basic plays a basic strategy chart adjusted for this table: doubling only
// on hard 9 to 11, one split, and no insurance.
type Basic struct {
	logger *log.Logger
}

// NewBasic creates a basic strategy player
func NewBasic(logger *log.Logger) *Basic {
	return &Basic{logger: logger}
}

func (b *Basic) Decide(view game.TableView, valid []game.Action) game.Decision {
	if d, ok := declineInsurance(valid); ok {
		return d
	}

	up := upValue(view.DealerUp)
	d := b.decide(view.Hand, up, valid)
	if b.logger != nil {
		b.logger.Debug("Basic strategy decision",
			"hand", deck.FormatCards(view.Hand),
			"total", rules.Value(view.Hand),
			"up", view.DealerUp,
			"action", d.Action,
			"reasoning", d.Reasoning)
	}
	return d
}

func (b *Basic) decide(hand []deck.Card, up int, valid []game.Action) game.Decision {
	if len(hand) == 2 && hand[0].Rank == hand[1].Rank && shouldSplit(hand[0].Rank, up) {
		if d := findAction(valid, "split pair", game.ActionSplit); d.Action == game.ActionSplit {
			return d
		}
	}

	v := rules.Value(hand)
	if v.Soft {
		return softDecision(v.Total, up, valid)
	}
	return hardDecision(v.Total, up, valid)
}

func hardDecision(total, up int, valid []game.Action) game.Decision {
	switch {
	case total >= 17:
		return findAction(valid, "hard 17+ stands", game.ActionStand)
	case total >= 13:
		if up <= 6 {
			return findAction(valid, "stiff hand against weak dealer", game.ActionStand)
		}
		return findAction(valid, "stiff hand against strong dealer", game.ActionHit, game.ActionStand)
	case total == 12:
		if up >= 4 && up <= 6 {
			return findAction(valid, "12 against dealer bust card", game.ActionStand)
		}
		return findAction(valid, "12 hits", game.ActionHit, game.ActionStand)
	case total == 11:
		if up <= 10 {
			return findAction(valid, "double 11", game.ActionDouble, game.ActionHit)
		}
	case total == 10:
		if up <= 9 {
			return findAction(valid, "double 10", game.ActionDouble, game.ActionHit)
		}
	case total == 9:
		if up >= 3 && up <= 6 {
			return findAction(valid, "double 9", game.ActionDouble, game.ActionHit)
		}
	}
	return findAction(valid, "low total hits", game.ActionHit, game.ActionStand)
}

func softDecision(total, up int, valid []game.Action) game.Decision {
	switch {
	case total >= 19:
		return findAction(valid, "soft 19+ stands", game.ActionStand)
	case total == 18 && up <= 8:
		return findAction(valid, "soft 18 stands", game.ActionStand)
	default:
		return findAction(valid, "soft hand hits", game.ActionHit, game.ActionStand)
	}
}

func shouldSplit(r deck.Rank, up int) bool {
	switch r {
	case deck.Ace, deck.Eight:
		return true
	case deck.Nine:
		return up <= 9 && up != 7
	case deck.Seven, deck.Two, deck.Three:
		return up <= 7
	case deck.Six:
		return up <= 6
	case deck.Four:
		return up == 5 || up == 6
	default:
		return false
	}
}

// upValue counts an Ace as 11
func upValue(c deck.Card) int {
	if c.IsAce() {
		return 11
	}
	return c.Rank.Points()
}
