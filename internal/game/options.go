package game

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/lox/blackjack/internal/rules"
)

// TableRules are the house parameters of a session
type TableRules struct {
	Decks       int
	ReshuffleAt int // reshuffle before a deal when fewer cards remain
	HistorySize int
	MinBet      rules.Amount
	MaxBet      rules.Amount // limit on the main bet total
	MaxSideBet  rules.Amount // limit on each side bet total
}

// DefaultTableRules returns a six deck shoe reshuffled below 50 cards with the
// last 10 rounds kept.
func DefaultTableRules() TableRules {
	return TableRules{
		Decks:       deck.DefaultDecks,
		ReshuffleAt: 50,
		HistorySize: 10,
		MinBet:      rules.Dollars(1),
		MaxBet:      rules.Dollars(500),
		MaxSideBet:  rules.Dollars(100),
	}
}

// Validate checks the rules are playable
func (t TableRules) Validate() error {
	if t.Decks < 1 {
		return fmt.Errorf("decks must be at least 1, got %d", t.Decks)
	}
	if t.ReshuffleAt < 0 || t.ReshuffleAt >= t.Decks*deck.CardsPerDeck {
		return fmt.Errorf("reshuffle point %d must be within a %d card shoe", t.ReshuffleAt, t.Decks*deck.CardsPerDeck)
	}
	if t.HistorySize < 1 {
		return fmt.Errorf("history size must be at least 1, got %d", t.HistorySize)
	}
	if t.MinBet <= 0 || t.MinBet > t.MaxBet {
		return fmt.Errorf("invalid bet limits %s-%s", t.MinBet, t.MaxBet)
	}
	if t.MaxSideBet < 0 {
		return fmt.Errorf("max side bet must not be negative")
	}
	return nil
}

// Option configures a Session during creation.
type Option func(*sessionConfig)

type sessionConfig struct {
	table      TableRules
	rng        *rand.Rand
	shoe       *deck.Shoe
	clock      quartz.Clock
	logger     *log.Logger
	authorizer Authorizer
	ids        *roundid.Generator
}

func defaultSessionConfig() *sessionConfig {
	return &sessionConfig{
		table:  DefaultTableRules(),
		clock:  quartz.NewReal(),
		logger: log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
	}
}

// WithTable replaces the default table rules
func WithTable(t TableRules) Option {
	return func(c *sessionConfig) {
		c.table = t
	}
}

// WithRNG sets the random source used to shuffle every shoe. Defaults to a
// crypto/rand backed generator.
func WithRNG(rng *rand.Rand) Option {
	return func(c *sessionConfig) {
		c.rng = rng
	}
}

// WithShoe sets the first shoe. Later shoes are built and shuffled with the
// session RNG.
func WithShoe(shoe *deck.Shoe) Option {
	return func(c *sessionConfig) {
		c.shoe = shoe
	}
}

// WithClock sets the clock used for round timestamps
func WithClock(clock quartz.Clock) Option {
	return func(c *sessionConfig) {
		c.clock = clock
	}
}

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(logger *log.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithAuthorizer requires a fair-play session to be started before each deal
func WithAuthorizer(a Authorizer) Option {
	return func(c *sessionConfig) {
		c.authorizer = a
	}
}

// WithIDs sets the generator used for round identifiers
func WithIDs(ids *roundid.Generator) Option {
	return func(c *sessionConfig) {
		c.ids = ids
	}
}

func (c *sessionConfig) finish() error {
	if err := c.table.Validate(); err != nil {
		return err
	}
	if c.rng == nil {
		c.rng = randutil.NewSecure()
	}
	if c.clock == nil {
		c.clock = quartz.NewReal()
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if c.ids == nil {
		c.ids = roundid.NewGenerator(nil, c.clock)
	}
	if c.shoe == nil {
		c.shoe = deck.NewShoe(c.rng, c.table.Decks)
	}
	return nil
}
