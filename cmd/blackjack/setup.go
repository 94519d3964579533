package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/fairness"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/rules"
)

// loadConfig reads and validates the config, applying flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// openLogFile opens the configured log file for appending
func openLogFile(cfg *config.Config) (*os.File, error) {
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// newAuthorizer returns the remote fair-play client when a URL is
// configured and a local issuer otherwise.
func newAuthorizer(cfg *config.Config, logger *log.Logger) (game.Authorizer, error) {
	if cfg.Fairness.URL == "" {
		return fairness.NewLocal(nil), nil
	}
	return fairness.NewClient(cfg.Fairness.URL, cfg.FairnessTimeout(), nil, logger)
}

func newStore(cfg *config.Config) *ledger.FileStore {
	return ledger.NewFileStore(cfg.Ledger.Path, cfg.StartingBalance(), nil)
}

// BetFlags describe the wagers placed each automated round
type BetFlags struct {
	Bet string `default:"10" help:"Main bet in dollars"`
	PP  string `name:"pp" help:"Perfect Pairs side bet in dollars"`
	TPT string `name:"tpt" help:"21+3 side bet in dollars"`
	BS  string `name:"bs" help:"Blazing 7s side bet in dollars"`
}

// Placements converts the flags into bets, main bet first
func (f BetFlags) Placements() ([]game.BetPlacement, error) {
	fields := []struct {
		kind  rules.BetKind
		value string
	}{
		{rules.BetMain, f.Bet},
		{rules.BetPerfectPairs, f.PP},
		{rules.BetTwentyOnePlusThree, f.TPT},
		{rules.BetBlazingSevens, f.BS},
	}

	var bets []game.BetPlacement
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		amount, err := rules.ParseAmount(field.value)
		if err != nil {
			return nil, fmt.Errorf("%s bet: %w", field.kind, err)
		}
		if amount == 0 {
			continue
		}
		bets = append(bets, game.BetPlacement{Kind: field.kind, Amount: amount})
	}
	if len(bets) == 0 || bets[0].Kind != rules.BetMain {
		return nil, fmt.Errorf("a main bet is required")
	}
	return bets, nil
}
