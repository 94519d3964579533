package tui

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

const helpText = `Betting:  bet [main|pp|21+3|bs] [amount]   chip <amount>   mode <kind>
          undo   redo   clear   deal (or Enter)
Playing:  hit (h)   stand (s)   double (d)   split (p)
Insurance: insurance (i)   no (n)
Round over: next (or Enter)   redo
Other:    history   help   quit`

// Execute runs one typed command against the session. It returns false when
// the player asked to quit.
func (m *Model) Execute(input string) bool {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		m.runDefault()
		return true
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		for _, line := range strings.Split(helpText, "\n") {
			m.AddLogEntry(mutedStyle.Render(line))
		}
	case "bet", "b":
		m.runBet(args)
	case "chip", "amount":
		if len(args) != 1 {
			m.AddLogEntry(lossStyle.Render("Usage: chip <amount>"))
			return true
		}
		amount, err := rules.ParseAmount(args[0])
		if err != nil {
			m.AddLogEntry(lossStyle.Render(err.Error()))
			return true
		}
		m.report(m.session.SetBetAmount(amount), fmt.Sprintf("Chip set to %s", amount))
	case "mode":
		if len(args) != 1 {
			m.AddLogEntry(lossStyle.Render("Usage: mode <main|pp|21+3|bs>"))
			return true
		}
		kind, err := rules.ParseBetKind(args[0])
		if err != nil {
			m.AddLogEntry(lossStyle.Render(err.Error()))
			return true
		}
		m.report(m.session.SelectBetMode(kind), fmt.Sprintf("Betting on %s", kind))
	case "undo", "u":
		m.report(m.session.UndoBet(), "Last bet removed")
	case "redo", "r":
		m.report(m.session.RedoBet(), fmt.Sprintf("Previous bets restored (%s)", m.session.TotalBet()))
	case "clear":
		m.report(m.session.ClearBets(), "Bets cleared")
	case "deal":
		m.deal()
	case "next":
		m.report(m.session.NextRound(), "Place your bets")
	case "history":
		m.showHistory()
	default:
		action, err := game.ParseAction(cmd)
		if err != nil {
			m.AddLogEntry(lossStyle.Render(fmt.Sprintf("Unknown command %q, type help", cmd)))
			return true
		}
		m.report(m.session.Apply(action), "")
	}
	return true
}

// runDefault handles a bare Enter: deal when bets are down, start the next
// round after a settlement.
func (m *Model) runDefault() {
	switch m.session.Phase() {
	case game.PhaseBetting:
		if m.session.CanDeal() {
			m.deal()
		}
	case game.PhaseGameOver:
		m.report(m.session.NextRound(), "Place your bets")
	}
}

func (m *Model) deal() {
	m.report(m.session.Deal(m.ctx), "")
	if m.session.Phase() == game.PhaseInsurance {
		m.AddLogEntry(alertStyle.Render("Dealer shows an Ace. Insurance? (i/n)"))
	}
}

func (m *Model) runBet(args []string) {
	if len(args) == 0 {
		m.report(m.session.PlaceBet(), "")
		return
	}

	kind := m.session.BetMode()
	if k, err := rules.ParseBetKind(args[0]); err == nil {
		kind = k
		args = args[1:]
	}

	amount := m.session.BetAmount()
	if len(args) > 0 {
		a, err := rules.ParseAmount(args[0])
		if err != nil {
			m.AddLogEntry(lossStyle.Render(err.Error()))
			return
		}
		amount = a
	}
	m.report(m.session.Bet(kind, amount), "")
}

// report logs the session's rejection message, or ok when the command was
// accepted.
func (m *Model) report(err error, ok string) {
	if err != nil {
		m.logger.Debug("Command rejected", "error", err)
		m.AddLogEntry(lossStyle.Render(m.session.Message()))
		return
	}
	if ok != "" {
		m.AddLogEntry(ok)
	}
}

func (m *Model) showHistory() {
	history := m.session.History()
	if len(history) == 0 {
		m.AddLogEntry(mutedStyle.Render("No rounds played yet"))
		return
	}
	for i := len(history) - 1; i >= 0; i-- {
		r := history[i]
		m.AddLogEntry(fmt.Sprintf("%s  bet %s  paid %s  net %s  %s",
			r.Timestamp.Format("15:04:05"), r.TotalBet, r.TotalPayout, signed(r.Net()), r.Streak))
	}
}

func signed(a rules.Amount) string {
	if a > 0 {
		return "+" + a.String()
	}
	return a.String()
}
