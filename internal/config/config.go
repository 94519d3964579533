// Package config loads the HCL configuration for the blackjack CLI.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// DefaultFile is the config file used when none is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	Table    *TableSettings    `hcl:"table,block"`
	Logging  *LoggingSettings  `hcl:"logging,block"`
	Fairness *FairnessSettings `hcl:"fairness,block"`
	Ledger   *LedgerSettings   `hcl:"ledger,block"`
}

// TableSettings are the house rules. Money values are in dollars.
type TableSettings struct {
	StartingBalance float64   `hcl:"starting_balance,optional"`
	MinBet          float64   `hcl:"min_bet,optional"`
	MaxBet          float64   `hcl:"max_bet,optional"`
	MaxSideBet      float64   `hcl:"max_side_bet,optional"`
	Decks           int       `hcl:"decks,optional"`
	ReshuffleAt     int       `hcl:"reshuffle_at,optional"`
	HistorySize     int       `hcl:"history_size,optional"`
	Chips           []float64 `hcl:"chips,optional"`
}

// LoggingSettings control where logs go
type LoggingSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// FairnessSettings point at the fair-play service. An empty URL issues
// sessions locally.
type FairnessSettings struct {
	URL     string `hcl:"url,optional"`
	Timeout string `hcl:"timeout,optional"`
}

// LedgerSettings locate the balance file
type LedgerSettings struct {
	Path string `hcl:"path,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: &TableSettings{
			StartingBalance: 1000,
			MinBet:          1,
			MaxBet:          500,
			MaxSideBet:      100,
			Decks:           deck.DefaultDecks,
			ReshuffleAt:     50,
			HistorySize:     10,
			Chips:           []float64{1, 5, 25, 100, 500},
		},
		Logging: &LoggingSettings{
			Level: "info",
			File:  "blackjack.log",
		},
		Fairness: &FairnessSettings{
			Timeout: "5s",
		},
		Ledger: &LedgerSettings{
			Path: "blackjack-ledger.json",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Table == nil {
		c.Table = defaults.Table
	}
	if c.Table.StartingBalance == 0 {
		c.Table.StartingBalance = defaults.Table.StartingBalance
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = defaults.Table.MinBet
	}
	if c.Table.MaxBet == 0 {
		c.Table.MaxBet = defaults.Table.MaxBet
	}
	if c.Table.MaxSideBet == 0 {
		c.Table.MaxSideBet = defaults.Table.MaxSideBet
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = defaults.Table.Decks
	}
	if c.Table.ReshuffleAt == 0 {
		c.Table.ReshuffleAt = defaults.Table.ReshuffleAt
	}
	if c.Table.HistorySize == 0 {
		c.Table.HistorySize = defaults.Table.HistorySize
	}
	if len(c.Table.Chips) == 0 {
		c.Table.Chips = defaults.Table.Chips
	}

	if c.Logging == nil {
		c.Logging = defaults.Logging
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.File == "" {
		c.Logging.File = defaults.Logging.File
	}

	if c.Fairness == nil {
		c.Fairness = defaults.Fairness
	}
	if c.Fairness.Timeout == "" {
		c.Fairness.Timeout = defaults.Fairness.Timeout
	}

	if c.Ledger == nil {
		c.Ledger = defaults.Ledger
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = defaults.Ledger.Path
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.StartingBalance < 0 {
		return fmt.Errorf("starting balance cannot be negative")
	}
	if err := c.TableRules().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	for _, chip := range c.Table.Chips {
		if chip <= 0 {
			return fmt.Errorf("table: chip values must be positive, got %v", chip)
		}
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	timeout, err := time.ParseDuration(c.Fairness.Timeout)
	if err != nil {
		return fmt.Errorf("fairness: invalid timeout %q: %w", c.Fairness.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("fairness: timeout must be positive")
	}

	return nil
}

// TableRules converts the table block into engine rules
func (c *Config) TableRules() game.TableRules {
	return game.TableRules{
		Decks:       c.Table.Decks,
		ReshuffleAt: c.Table.ReshuffleAt,
		HistorySize: c.Table.HistorySize,
		MinBet:      dollars(c.Table.MinBet),
		MaxBet:      dollars(c.Table.MaxBet),
		MaxSideBet:  dollars(c.Table.MaxSideBet),
	}
}

// StartingBalance returns the balance for a new ledger
func (c *Config) StartingBalance() rules.Amount {
	return dollars(c.Table.StartingBalance)
}

// Chips returns the chip denominations in ascending order
func (c *Config) Chips() []rules.Amount {
	chips := make([]rules.Amount, 0, len(c.Table.Chips))
	for _, v := range c.Table.Chips {
		chips = append(chips, dollars(v))
	}
	slices.Sort(chips)
	return slices.Compact(chips)
}

// FairnessTimeout returns the parsed fair-play timeout. Call Validate first.
func (c *Config) FairnessTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Fairness.Timeout)
	return d
}

// LogLevel returns the parsed log level, defaulting to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func dollars(v float64) rules.Amount {
	return rules.Amount(math.Round(v * 100))
}
