// Package strategy provides agents that play blackjack hands on their own,
// for autoplay and simulation.
package strategy

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// Names lists the registered strategies
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = map[string]func(rng *rand.Rand, logger *log.Logger) game.Agent{
	"basic":  func(_ *rand.Rand, logger *log.Logger) game.Agent { return NewBasic(logger) },
	"dealer": func(_ *rand.Rand, _ *log.Logger) game.Agent { return NewMimicDealer() },
	"stand":  func(_ *rand.Rand, _ *log.Logger) game.Agent { return NewStand() },
	"random": func(rng *rand.Rand, _ *log.Logger) game.Agent { return NewRandom(rng) },
}

// New returns the named strategy. rng is only used by "random".
func New(name string, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, Names())
	}
	return factory(rng, logger), nil
}

// findAction returns preferred if it is legal, otherwise the first fallback
// that is.
func findAction(valid []game.Action, reasoning string, preferred game.Action, fallbacks ...game.Action) game.Decision {
	for _, a := range append([]game.Action{preferred}, fallbacks...) {
		if slices.Contains(valid, a) {
			if a != preferred {
				return game.Decision{Action: a, Reasoning: "fallback: " + reasoning}
			}
			return game.Decision{Action: a, Reasoning: reasoning}
		}
	}
	if len(valid) > 0 {
		return game.Decision{Action: valid[0], Reasoning: "fallback: " + reasoning}
	}
	return game.Decision{Action: game.ActionStand, Reasoning: "no valid actions"}
}

// declineInsurance handles the insurance decision common to every strategy
func declineInsurance(valid []game.Action) (game.Decision, bool) {
	if slices.Contains(valid, game.ActionDeclineInsurance) {
		return game.Decision{Action: game.ActionDeclineInsurance, Reasoning: "never insure"}, true
	}
	return game.Decision{}, false
}
