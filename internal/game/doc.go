// Package game implements the blackjack round state machine.
//
// The main type is Session, which owns the shoe, the player and dealer hands,
// the bet ledger, the balance, the round history and the win/loss streak. It
// is the only mutator of that state; card values and payouts come from the
// pure functions in package rules.
//
// # Basic Usage
//
//	s, err := game.NewSession(rules.Dollars(1000))
//	s.Bet(rules.BetMain, rules.Dollars(25))
//	s.Bet(rules.BetPerfectPairs, rules.Dollars(5))
//	s.Deal(ctx)
//	for s.Phase() == game.PhasePlaying {
//	    s.Hit() // or Stand, DoubleDown, Split
//	}
//	result := s.History()[len(s.History())-1]
//	s.NextRound()
//
// # Phases
//
// A round moves betting → playing → settling → gameOver. When the dealer
// shows an Ace the deal lands in insurance first. A player blackjack against
// a non-Ace up-card goes straight to settling.
//
// # Rejections
//
// Commands that are illegal in the current state return a *RejectedError and
// leave every field untouched. The same human-readable reason is available
// from Message for display.
//
// # Deterministic Testing
//
// Inject a stacked shoe and a fixed RNG:
//
//	shoe := deck.NewShoeFromCards(deck.MustParseCards("As 9h Kd 7c")...)
//	s, _ := game.NewSession(balance, game.WithShoe(shoe), game.WithRNG(randutil.New(42)))
//
// Sessions are independent values; nothing in this package is global.
// A Session is not safe for concurrent use.
package game
