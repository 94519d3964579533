package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are shared by every command
type Globals struct {
	Config   string `short:"c" default:"blackjack.hcl" env:"BLACKJACK_CONFIG" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" env:"BLACKJACK_LOG_LEVEL" help:"Log level: debug, info, warn, error (overrides config)"`
}

type CLI struct {
	Globals

	Play     PlayCmd     `cmd:"" default:"1" help:"Play at the table"`
	Autoplay AutoplayCmd `cmd:"" help:"Let a strategy play rounds against your ledger balance"`
	Simulate SimulateCmd `cmd:"" help:"Simulate many sessions and report statistics"`
	History  HistoryCmd  `cmd:"" help:"Show recently settled rounds"`
	Version  VersionCmd  `cmd:"" help:"Print the version"`
}

func main() {
	// A missing .env is normal
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack with Perfect Pairs, 21+3 and Blazing 7s side bets"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("blackjack", version)
	return nil
}
