package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/tui"
	"github.com/muesli/termenv"
)

type PlayCmd struct {
	NoColor bool `help:"Disable colours"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the table, so logs go to a file
	logFile, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg.LogLevel())

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
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
	logger.Info("Starting blackjack", "config", g.Config, "ledger", store.Path(), "balance", session.Balance())

	reconciler := ledger.NewReconciler(store, logger, 0)
	session.Subscribe(reconciler)

	model := tui.New(ctx, session, cfg.Chips(), logger)
	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	model.Close()

	reconciler.Close()
	if dropped, failed := reconciler.Stats(); dropped+failed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d rounds were not saved to %s\n", dropped+failed, store.Path())
	}
	fmt.Printf("Final balance: %s\n", session.Balance())
	return runErr
}
