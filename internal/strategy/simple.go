package strategy

import (
	"math/rand/v2"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
)

// Stand never draws
type Stand struct{}

func NewStand() *Stand { return &Stand{} }

func (Stand) Decide(view game.TableView, valid []game.Action) game.Decision {
	if d, ok := declineInsurance(valid); ok {
		return d
	}
	return findAction(valid, "stand-bot standing", game.ActionStand)
}

// MimicDealer plays the house rule: hit below 17 and on soft 17
type MimicDealer struct{}

func NewMimicDealer() *MimicDealer { return &MimicDealer{} }

func (MimicDealer) Decide(view game.TableView, valid []game.Action) game.Decision {
	if d, ok := declineInsurance(valid); ok {
		return d
	}
	if rules.DealerShouldHit(view.Hand) {
		return findAction(valid, "dealer rule hit", game.ActionHit, game.ActionStand)
	}
	return findAction(valid, "dealer rule stand", game.ActionStand)
}

// Random picks a uniformly random legal action
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random strategy. A nil rng uses a crypto-seeded one.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = randutil.NewSecure()
	}
	return &Random{rng: rng}
}

func (r *Random) Decide(view game.TableView, valid []game.Action) game.Decision {
	if len(valid) == 0 {
		return game.Decision{Action: game.ActionStand, Reasoning: "rand-bot no valid actions"}
	}
	return game.Decision{Action: valid[r.rng.IntN(len(valid))], Reasoning: "rand-bot random action"}
}
