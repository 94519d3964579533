package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lox/blackjack/internal/autoplay"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/strategy"
)

type AutoplayCmd struct {
	BetFlags `embed:""`

	Rounds   int    `default:"100" help:"Rounds to play (0 plays until the reserve runs out)"`
	Reserve  string `help:"Most the run may lose in dollars (default: whole balance)"`
	Strategy string `default:"basic" help:"Strategy: basic, dealer, random, stand"`
}

func (c *AutoplayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel())

	bets, err := c.Placements()
	if err != nil {
		return err
	}
	var reserve rules.Amount
	if c.Reserve != "" {
		if reserve, err = rules.ParseAmount(c.Reserve); err != nil {
			return fmt.Errorf("reserve: %w", err)
		}
	}
	agent, err := strategy.New(c.Strategy, nil, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	auth, err := newAuthorizer(cfg, logger)
	if err != nil {
		return err
	}
	store := newStore(cfg)
	session, err := game.StartSession(ctx, store,
		game.WithTable(cfg.TableRules()),
		game.WithLogger(logger.WithPrefix("session")),
		game.WithAuthorizer(auth),
	)
	if err != nil {
		return err
	}

	reconciler := ledger.NewReconciler(store, logger, 0)
	session.Subscribe(reconciler)
	defer reconciler.Close()

	summary, err := autoplay.Run(ctx, session, autoplay.Plan{
		Bets:    bets,
		Rounds:  c.Rounds,
		Reserve: reserve,
		Logger:  logger,
	}, agent)
	if summary.Rounds > 0 {
		simulator.PrintSummary(os.Stdout, summary.Stats, c.Strategy)
	}
	fmt.Printf("\nStopped after %d rounds: %s. Net %s, balance %s\n", summary.Rounds, summary.Reason, summary.Net, session.Balance())
	return err
}
