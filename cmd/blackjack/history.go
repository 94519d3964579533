package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/rules"
)

type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Rounds to show (0 for all kept)"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	store := newStore(cfg)
	balance, err := store.Balance(context.Background())
	if err != nil {
		return err
	}
	records, err := store.Rounds(c.Limit)
	if err != nil {
		return err
	}
	printHistory(os.Stdout, records, balance)
	return nil
}

func printHistory(w io.Writer, records []ledger.Record, balance rules.Amount) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No rounds recorded. Balance %s\n", balance)
		return
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		hands := make([]string, len(r.Hands))
		for j, h := range r.Hands {
			hands[j] = fmt.Sprintf("%s (%d) %s", h.Cards, h.Total, h.Outcome)
		}
		net := r.Net.String()
		if r.Net > 0 {
			net = "+" + net
		}
		fmt.Fprintf(w, "%s  %s  dealer %s (%d)  %s  bet %s  net %s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.ID,
			r.Dealer, r.DealerTotal,
			strings.Join(hands, " | "),
			r.TotalBet, net)
		for _, sb := range r.SideBets {
			fmt.Fprintf(w, "    %s %s: %s pays %s\n", sb.Kind, sb.Bet, sb.Hand, sb.Payout)
		}
	}
	fmt.Fprintf(w, "Balance %s\n", balance)
}
