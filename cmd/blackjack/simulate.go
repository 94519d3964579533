package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	BetFlags `embed:""`

	Sessions int           `default:"100" help:"Independent sessions to run"`
	Rounds   int           `default:"1000" help:"Rounds per session"`
	Seed     int64         `default:"0" help:"RNG seed (0 for random)"`
	Balance  string        `default:"100000" help:"Starting balance of each session in dollars"`
	Strategy string        `default:"basic" help:"Strategy: basic, dealer, random, stand"`
	Workers  int           `default:"0" help:"Concurrent sessions (0 uses all CPUs)"`
	Timeout  time.Duration `default:"0s" help:"Per-session timeout (0 disables)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel())

	bets, err := c.Placements()
	if err != nil {
		return err
	}
	balance, err := rules.ParseAmount(c.Balance)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("Starting simulation",
		"sessions", c.Sessions,
		"rounds", c.Rounds,
		"strategy", c.Strategy,
		"seed", seed)

	start := time.Now()
	stats, err := simulator.New(simulator.Config{
		Sessions: c.Sessions,
		Rounds:   c.Rounds,
		Seed:     seed,
		Balance:  balance,
		Bets:     bets,
		Strategy: c.Strategy,
		Table:    cfg.TableRules(),
		Timeout:  c.Timeout,
		Workers:  c.Workers,
		Logger:   logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats, c.Strategy)
	fmt.Printf("\nSeed %d, completed in %s\n", seed, time.Since(start).Round(time.Millisecond))
	return nil
}
