package game

import (
	"slices"

	"github.com/lox/blackjack/internal/rules"
)

// settle plays out the dealer, pays every wager and records the round
func (s *Session) settle() {
	s.phase = PhaseSettling

	if slices.ContainsFunc(s.hands, func(h *Hand) bool { return !rules.IsBust(h.Cards) }) {
		for rules.DealerShouldHit(s.dealer.Cards) {
			s.dealer.Cards = append(s.dealer.Cards, s.draw())
		}
	}

	result := RoundResult{
		ID:            s.roundID,
		FairSessionID: s.fairSessionID,
		Timestamp:     s.clock.Now(),
		DealerCards:   slices.Clone(s.dealer.Cards),
		DealerValue:   s.dealer.Value(),
		TotalBet:      s.TotalBet(),
		Split:         s.split,
	}

	for _, h := range s.hands {
		var outcome rules.Outcome
		switch {
		case rules.IsBust(h.Cards):
			outcome = rules.OutcomeBust
		case s.split:
			outcome = rules.EvaluateSplitOutcome(h.Cards, s.dealer.Cards)
		default:
			outcome = rules.EvaluateOutcome(h.Cards, s.dealer.Cards)
		}
		payout := rules.CalculatePayout(outcome, h.MainBet)
		result.Hands = append(result.Hands, HandResult{
			Cards:   slices.Clone(h.Cards),
			Value:   h.Value(),
			Bet:     h.MainBet,
			Doubled: h.Doubled,
			Outcome: outcome,
			Payout:  payout,
			Ratio:   rules.MainRatio(outcome),
		})
		result.TotalPayout += payout
	}

	for _, frozen := range s.frozen {
		stake := s.hands[0].SideBets.Get(frozen.Kind)
		payout := frozen.Payout(stake)
		result.SideBets = append(result.SideBets, SideBetResult{
			Kind:   frozen.Kind,
			Bet:    stake,
			Hand:   frozen.Hand,
			Payout: payout,
			Ratio:  frozen.Ratio(),
		})
		result.TotalPayout += payout
	}

	if s.insuranceBet > 0 {
		payout := rules.InsurancePayout(s.insuranceBet, s.dealer.Cards)
		result.Insurance = &InsuranceResult{Bet: s.insuranceBet, Payout: payout}
		result.TotalPayout += payout
	}

	s.balance += result.TotalPayout
	s.updateStreak(result.Wins(), result.Losses(), len(result.Hands))
	result.Balance = s.balance
	result.Streak = s.streak

	s.history = append(s.history, result)
	if over := len(s.history) - s.table.HistorySize; over > 0 {
		s.history = slices.Delete(s.history, 0, over)
	}
	s.lastBets = s.roundBets
	s.phase = PhaseGameOver

	s.logger.Info("Round settled",
		"round", result.ID,
		"bet", result.TotalBet,
		"payout", result.TotalPayout,
		"balance", s.balance,
		"dealer", result.DealerValue)
	s.bus.Publish(RoundSettledEvent{Result: result, timestamp: result.Timestamp})
}

// updateStreak extends or restarts the streak from the round's majority
// outcome. A single pushed hand leaves it alone; a split round with as many
// wins as losses, pushes on both hands included, clears it.
func (s *Session) updateStreak(wins, losses, hands int) {
	var kind StreakKind
	switch {
	case wins > losses:
		kind = StreakWin
	case losses > wins:
		kind = StreakLoss
	case hands == 1:
		return
	default:
		s.streak = Streak{}
		return
	}
	if s.streak.Kind == kind {
		s.streak.Count++
	} else {
		s.streak = Streak{Kind: kind, Count: 1}
	}
}
