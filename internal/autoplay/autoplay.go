// Package autoplay plays rounds on a session without a human at the table.
package autoplay

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/statistics"
)

// maxActions bounds the decisions in one round; a legal round needs far fewer
const maxActions = 32

// StopReason says why a run ended
type StopReason string

const (
	StopRounds    StopReason = "rounds complete"
	StopReserve   StopReason = "reserve exhausted"
	StopBalance   StopReason = "insufficient balance"
	StopCancelled StopReason = "cancelled"
)

// Plan describes a batch of rounds
type Plan struct {
	Bets    []game.BetPlacement // placed in order every round
	Rounds  int                 // 0 plays until the reserve or balance runs out
	Reserve rules.Amount        // most the run may lose; 0 means the whole balance
	Logger  *log.Logger
}

// Stake returns the total placed each round before any double or split
func (p Plan) Stake() rules.Amount {
	var total rules.Amount
	for _, b := range p.Bets {
		total += b.Amount
	}
	return total
}

// Summary reports a finished run
type Summary struct {
	Rounds int
	Net    rules.Amount
	Reason StopReason
	Stats  *statistics.Statistics
}

// Run plays rounds until the plan is complete, the reserve cannot cover the
// next stake or ctx is cancelled. Running out of reserve or balance is a
// normal stop; errors are only returned for cancellation or when the session
// refuses a command.
func Run(ctx context.Context, s *game.Session, plan Plan, agent game.Agent) (Summary, error) {
	logger := plan.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	logger = logger.WithPrefix("autoplay")

	summary := Summary{Stats: &statistics.Statistics{}}
	if len(plan.Bets) == 0 || plan.Bets[0].Kind != rules.BetMain {
		return summary, fmt.Errorf("plan must start with a main bet")
	}
	stake := plan.Stake()
	start := s.Balance()

	for {
		if err := ctx.Err(); err != nil {
			summary.Reason = StopCancelled
			return summary, err
		}
		if plan.Rounds > 0 && summary.Rounds >= plan.Rounds {
			summary.Reason = StopRounds
			break
		}
		if plan.Reserve > 0 && plan.Reserve+summary.Net < stake {
			summary.Reason = StopReserve
			break
		}
		if s.Balance() < stake {
			summary.Reason = StopBalance
			break
		}

		if err := placeBets(s, plan.Bets); err != nil {
			return summary, err
		}
		headroom := noLimit
		if plan.Reserve > 0 {
			headroom = plan.Reserve + summary.Net
		}
		result, err := playRound(ctx, s, agent, headroom)
		if err != nil {
			return summary, err
		}

		summary.Rounds++
		summary.Net = s.Balance() - start
		summary.Stats.Add(statistics.FromGame(result))
		logger.Debug("Round complete", "round", summary.Rounds, "net", result.Net(), "balance", s.Balance())
	}

	logger.Info("Autoplay finished", "rounds", summary.Rounds, "net", summary.Net, "reason", summary.Reason)
	return summary, nil
}

// placeBets repeats the previous round when it matches the plan, otherwise
// places each bet afresh.
func placeBets(s *game.Session, bets []game.BetPlacement) error {
	if s.Phase() == game.PhaseGameOver {
		if slices.Equal(s.LastBets(), bets) && s.CanRedo() {
			return s.RedoBet()
		}
		if err := s.NextRound(); err != nil {
			return err
		}
	}
	if s.TotalBet() > 0 {
		if err := s.ClearBets(); err != nil {
			return err
		}
	}
	for _, b := range bets {
		if err := s.Bet(b.Kind, b.Amount); err != nil {
			return err
		}
	}
	return nil
}

// noLimit disables the reserve check inside a round
const noLimit rules.Amount = -1

// playRound deals and lets the agent act until the round settles. reserve is
// the most the round may put at risk; doubles, splits and insurance that would
// exceed it are withheld from the agent.
func playRound(ctx context.Context, s *game.Session, agent game.Agent, reserve rules.Amount) (game.RoundResult, error) {
	if err := s.Deal(ctx); err != nil {
		return game.RoundResult{}, err
	}
	for range maxActions {
		valid := s.LegalActions()
		if len(valid) == 0 {
			break
		}
		view := s.View()
		if reserve != noLimit {
			valid = withinReserve(valid, reserve-s.TotalBet(), view.MainBet)
		}
		d := agent.Decide(view, valid)
		if err := s.Apply(d.Action); err != nil {
			return game.RoundResult{}, fmt.Errorf("agent chose %s: %w", d.Action, err)
		}
	}
	result, ok := s.LastResult()
	if !ok || s.Phase() != game.PhaseGameOver {
		return game.RoundResult{}, fmt.Errorf("round did not settle, phase %s", s.Phase())
	}
	return result, nil
}

// withinReserve drops the actions whose extra stake exceeds headroom
func withinReserve(valid []game.Action, headroom, mainBet rules.Amount) []game.Action {
	return slices.DeleteFunc(slices.Clone(valid), func(a game.Action) bool {
		switch a {
		case game.ActionDouble, game.ActionSplit:
			return headroom < mainBet
		case game.ActionInsurance:
			return headroom < mainBet/2
		}
		return false
	})
}
