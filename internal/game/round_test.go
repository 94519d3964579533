package game

import (
	"context"
	"errors"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCards(t *testing.T, want string, got []deck.Card, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, deck.FormatCards(deck.MustParseCards(want)), deck.FormatCards(got), msgAndArgs...)
}

func lastResult(t *testing.T, s *Session) RoundResult {
	t.Helper()
	r, ok := s.LastResult()
	require.True(t, ok, "expected a settled round")
	return r
}

func TestDealRequiresMainBet(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "Ts 9c 7d 8h")
	remaining := s.ShoeRemaining()

	err := s.Deal(context.Background())
	require.ErrorIs(t, err, ErrNoMainBet)
	assert.Equal(t, PhaseBetting, s.Phase())
	assert.Equal(t, remaining, s.ShoeRemaining())
	assert.Equal(t, "Place a main bet before dealing", s.Message())
}

func TestDealBelowMinimumRejected(t *testing.T) {
	table := DefaultTableRules()
	table.MinBet = rules.Dollars(5)
	s := newTestSession(t, rules.Dollars(1000), "Ts 9c 7d 8h", WithTable(table))
	require.NoError(t, s.Bet(rules.BetMain, rules.Dollars(2)))

	assert.False(t, s.CanDeal())
	assert.ErrorIs(t, s.Deal(context.Background()), ErrBetLimit)
	assert.Equal(t, PhaseBetting, s.Phase())
}

func TestDealAlternatesPlayerAndDealer(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "Ts 9c 7d 8h")
	dealWith(t, s, mainBet(10))

	assert.Equal(t, PhasePlaying, s.Phase())
	assertCards(t, "Ts 7d", s.PlayerHands()[0].Cards)
	up, ok := s.DealerUpCard()
	require.True(t, ok)
	assert.True(t, up.Same(deck.MustParseCard("9c")))
	assert.Len(t, s.DealerHand(), 1, "hole card hidden while playing")
	assert.NotEmpty(t, s.RoundID())
	assert.Equal(t, []Action{ActionHit, ActionStand}, s.LegalActions())
}

func TestStandOnEqualSeventeenPushes(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "Ts 9c 7d 8h")
	dealWith(t, s, mainBet(10))
	require.NoError(t, s.Stand())

	r := lastResult(t, s)
	require.Len(t, r.Hands, 1)
	assert.Equal(t, rules.OutcomePush, r.Hands[0].Outcome)
	assert.Equal(t, rules.Dollars(10), r.Hands[0].Payout)
	assert.Len(t, r.DealerCards, 2, "dealer stands on hard 17")
	assert.Equal(t, rules.Dollars(1000), s.Balance())
}

func TestStandingEighteenBeatsDealerSeventeen(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "Ts 9c 8d 8h")
	dealWith(t, s, mainBet(10))
	require.NoError(t, s.Stand())

	r := lastResult(t, s)
	assert.Equal(t, rules.OutcomeWin, r.Hands[0].Outcome)
	assert.Equal(t, rules.Dollars(20), r.Hands[0].Payout)
	assert.Equal(t, "1:1", r.Hands[0].Ratio)
	assert.Equal(t, rules.Dollars(1010), s.Balance())
	assert.Equal(t, PhaseGameOver, s.Phase())
	assert.Len(t, s.DealerHand(), 2, "hole card shown after settlement")
}

func TestPlayerBlackjackSettlesImmediately(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "As Tc Kd 6h 4s")
	dealWith(t, s, mainBet(25))

	assert.Equal(t, PhaseGameOver, s.Phase())
	r := lastResult(t, s)
	assert.Equal(t, rules.OutcomeBlackjack, r.Hands[0].Outcome)
	assert.Equal(t, rules.Amount(5500), r.Hands[0].Payout)
	assert.Equal(t, "6:5", r.Hands[0].Ratio)
	assertCards(t, "Tc 6h 4s", r.DealerCards)
	assert.Equal(t, rules.Dollars(1030), s.Balance())
}

func TestBustSettlesSideBetsFromDeal(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "Ts 8h 9d 6c 5c")
	dealWith(t, s,
		mainBet(10),
		sideBet(rules.BetPerfectPairs, 5),
		sideBet(rules.BetTwentyOnePlusThree, 5))

	require.NoError(t, s.Hit())

	assert.Equal(t, PhaseGameOver, s.Phase())
	r := lastResult(t, s)
	assert.Equal(t, rules.OutcomeBust, r.Hands[0].Outcome)
	assert.Equal(t, 24, r.Hands[0].Value.Total)
	assert.Zero(t, r.Hands[0].Payout)
	assert.Len(t, r.DealerCards, 2, "dealer does not draw when every hand busted")

	require.Len(t, r.SideBets, 2)
	assert.Equal(t, rules.BetPerfectPairs, r.SideBets[0].Kind)
	assert.Zero(t, r.SideBets[0].Payout)
	assert.Equal(t, "loss", r.SideBets[0].Outcome())
	assert.Equal(t, rules.BetTwentyOnePlusThree, r.SideBets[1].Kind)
	assert.Equal(t, rules.Dollars(55), r.SideBets[1].Payout)
	assert.Equal(t, "10:1", r.SideBets[1].Ratio)
	assert.Equal(t, rules.Dollars(1035), s.Balance())
}

func TestSideBetsFrozenAtDeal(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "7h 9c 7h 8d 2s")
	dealWith(t, s, mainBet(10), sideBet(rules.BetPerfectPairs, 10))

	preview := s.SideBetPreview()
	require.Len(t, preview, 1)
	assert.Equal(t, int64(26), preview[0].Multiplier)

	require.NoError(t, s.Hit())
	assert.Equal(t, preview, s.SideBetPreview())
	require.NoError(t, s.Stand())

	r := lastResult(t, s)
	assert.Equal(t, rules.OutcomeLoss, r.Hands[0].Outcome)
	require.Len(t, r.SideBets, 1)
	assert.Equal(t, rules.Dollars(260), r.SideBets[0].Payout)
	assert.Equal(t, rules.Dollars(1240), s.Balance())
}

func TestHitToTwentyOneAdvances(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "Ts 9c 5d 8h 6h")
	dealWith(t, s, mainBet(10))

	require.NoError(t, s.Hit())
	assert.Equal(t, PhaseGameOver, s.Phase())
	r := lastResult(t, s)
	assert.Equal(t, 21, r.Hands[0].Value.Total)
	assert.Equal(t, rules.OutcomeWin, r.Hands[0].Outcome)
}

func TestDoubleDown(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "5h 9c 6d 7s Ts 9h")
	dealWith(t, s, mainBet(10))
	require.True(t, s.CanDouble())

	require.NoError(t, s.DoubleDown())

	assert.Equal(t, PhaseGameOver, s.Phase())
	h := s.PlayerHands()[0]
	assert.True(t, h.Doubled)
	assert.Equal(t, rules.Dollars(20), h.MainBet)
	assert.Len(t, h.Cards, 3)
	ledgerMatches(t, h)

	r := lastResult(t, s)
	assert.Equal(t, rules.OutcomeWin, r.Hands[0].Outcome)
	assert.Equal(t, rules.Dollars(40), r.Hands[0].Payout)
	assert.Equal(t, rules.Dollars(20), r.TotalBet)
	assertCards(t, "9c 7s 9h", r.DealerCards)
	assert.Equal(t, rules.Dollars(1020), s.Balance())
}

func TestDoubleDownRejections(t *testing.T) {
	tests := []struct {
		name    string
		balance rules.Amount
		cards   string
		want    error
	}{
		{"soft total", rules.Dollars(1000), "Ah 9c 8d 8h", ErrIllegalAction},
		{"hard twelve", rules.Dollars(1000), "Th 9c 2d 8h", ErrIllegalAction},
		{"hard eight", rules.Dollars(1000), "5h 9c 3d 8h", ErrIllegalAction},
		{"insufficient balance", rules.Dollars(10), "5h 9c 6d 8h", ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.balance, tt.cards)
			dealWith(t, s, mainBet(10))
			require.Equal(t, PhasePlaying, s.Phase())
			before := s.PlayerHands()
			balance := s.Balance()
			remaining := s.ShoeRemaining()

			assert.False(t, s.CanDouble())
			require.ErrorIs(t, s.DoubleDown(), tt.want)
			assert.Equal(t, before, s.PlayerHands())
			assert.Equal(t, balance, s.Balance())
			assert.Equal(t, remaining, s.ShoeRemaining())
			assert.Equal(t, PhasePlaying, s.Phase())
		})
	}
}

func TestSplit(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "8s Tc 8h 7d Ts Kd")
	dealWith(t, s, mainBet(10), sideBet(rules.BetPerfectPairs, 5))
	require.True(t, s.CanSplit())

	require.NoError(t, s.Split())
	assert.True(t, s.IsSplit())
	assert.Equal(t, rules.Dollars(975), s.Balance())

	hands := s.PlayerHands()
	require.Len(t, hands, 2)
	assertCards(t, "8s Ts", hands[0].Cards)
	assertCards(t, "8h Kd", hands[1].Cards)
	assert.Equal(t, rules.Dollars(5), hands[0].SideBets.PerfectPairs)
	assert.Zero(t, hands[1].SideBets.Total())
	assert.Equal(t, rules.Dollars(10), hands[1].MainBet)
	ledgerMatches(t, hands[0])
	ledgerMatches(t, hands[1])
	assert.False(t, s.CanSplit(), "only one split per round")

	require.NoError(t, s.Stand())
	assert.Equal(t, 1, s.CurrentHandIndex())
	require.NoError(t, s.Stand())

	r := lastResult(t, s)
	require.Len(t, r.Hands, 2)
	assert.True(t, r.Split)
	for _, h := range r.Hands {
		assert.Equal(t, rules.OutcomeWin, h.Outcome)
		assert.Equal(t, rules.Dollars(20), h.Payout)
	}
	require.Len(t, r.SideBets, 1)
	assert.Equal(t, rules.Dollars(30), r.SideBets[0].Payout, "mixed pair pays 5:1")
	assert.Equal(t, rules.Dollars(25), r.TotalBet)
	assert.Equal(t, rules.Dollars(1045), s.Balance())
	assert.Equal(t, Streak{Kind: StreakWin, Count: 1}, s.Streak())
}

func TestSplitTwentyOneIsNotBlackjack(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "As Tc Ad 7d Ks Qh")
	dealWith(t, s, mainBet(10))

	require.NoError(t, s.Split())

	assert.Equal(t, PhaseGameOver, s.Phase(), "both split hands reached 21")
	r := lastResult(t, s)
	require.Len(t, r.Hands, 2)
	for _, h := range r.Hands {
		assert.Equal(t, 21, h.Value.Total)
		assert.Equal(t, rules.OutcomeWin, h.Outcome)
		assert.Equal(t, rules.Dollars(20), h.Payout)
	}
}

func TestSplitRejections(t *testing.T) {
	t.Run("equal value different rank", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "Ks 9c Qh 8d")
		dealWith(t, s, mainBet(10))
		assert.False(t, s.CanSplit())
		assert.ErrorIs(t, s.Split(), ErrIllegalAction)
		assert.Len(t, s.PlayerHands(), 1)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(15), "8s 9c 8h 8d")
		dealWith(t, s, mainBet(10))
		assert.False(t, s.CanSplit())
		assert.ErrorIs(t, s.Split(), ErrInsufficientBalance)
		assert.Equal(t, rules.Dollars(5), s.Balance())
	})

	t.Run("second split", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "8s 9c 8h 8d 8c 3h")
		dealWith(t, s, mainBet(10))
		require.NoError(t, s.Split())
		assertCards(t, "8s 8c", s.CurrentHand().Cards)

		assert.ErrorIs(t, s.Split(), ErrIllegalAction)
		assert.Len(t, s.PlayerHands(), 2)
		assert.Equal(t, "Only one split per round", s.Message())
	})
}

func TestInsurance(t *testing.T) {
	t.Run("pays when dealer has blackjack", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "Ts Ac 9d Kh")
		dealWith(t, s, mainBet(20))
		require.Equal(t, PhaseInsurance, s.Phase())
		assert.True(t, s.InsuranceOffered())
		assert.Equal(t, []Action{ActionInsurance, ActionDeclineInsurance}, s.LegalActions())

		require.NoError(t, s.TakeInsurance())

		assert.Equal(t, PhaseGameOver, s.Phase())
		r := lastResult(t, s)
		assert.Equal(t, rules.OutcomeLoss, r.Hands[0].Outcome)
		require.NotNil(t, r.Insurance)
		assert.Equal(t, rules.Dollars(10), r.Insurance.Bet)
		assert.Equal(t, rules.Dollars(30), r.Insurance.Payout)
		assert.Equal(t, rules.Dollars(30), r.TotalBet)
		assert.Equal(t, rules.Dollars(1000), s.Balance())
	})

	t.Run("declined without dealer blackjack", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "Ts Ac 9d 6h 2c")
		dealWith(t, s, mainBet(20))
		require.NoError(t, s.DeclineInsurance())
		require.Equal(t, PhasePlaying, s.Phase())
		assert.Zero(t, s.InsuranceBet())

		require.NoError(t, s.Stand())
		r := lastResult(t, s)
		assertCards(t, "Ac 6h 2c", r.DealerCards, "dealer hits soft 17")
		assert.Equal(t, rules.OutcomePush, r.Hands[0].Outcome)
		assert.Nil(t, r.Insurance)
	})

	t.Run("lost insurance continues the round", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "Ts Ac 9d 7h")
		dealWith(t, s, mainBet(20))
		require.NoError(t, s.TakeInsurance())
		assert.Equal(t, PhasePlaying, s.Phase())
		assert.Equal(t, rules.Dollars(970), s.Balance())

		require.NoError(t, s.Stand())
		r := lastResult(t, s)
		assert.Equal(t, rules.OutcomeWin, r.Hands[0].Outcome)
		assert.Zero(t, r.Insurance.Payout)
		assert.Equal(t, rules.Dollars(1010), s.Balance())
	})

	t.Run("player blackjack settles after decision", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "As Ac Kd 9h")
		dealWith(t, s, mainBet(10))
		require.Equal(t, PhaseInsurance, s.Phase())
		require.NoError(t, s.DeclineInsurance())

		assert.Equal(t, PhaseGameOver, s.Phase())
		assert.Equal(t, rules.OutcomeBlackjack, lastResult(t, s).Hands[0].Outcome)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(20), "Ts Ac 9d 7h")
		dealWith(t, s, mainBet(20))
		assert.False(t, s.CanInsure())
		assert.Equal(t, []Action{ActionDeclineInsurance}, s.LegalActions())
		assert.ErrorIs(t, s.TakeInsurance(), ErrInsufficientBalance)
		assert.Equal(t, PhaseInsurance, s.Phase())
		assert.Zero(t, s.Balance())
	})

	t.Run("not offered", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "Ts 9c 7d 8h")
		dealWith(t, s, mainBet(10))
		assert.ErrorIs(t, s.TakeInsurance(), ErrWrongPhase)
		assert.ErrorIs(t, s.DeclineInsurance(), ErrWrongPhase)
	})
}

func TestActionsOutsidePlayRejected(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "")
	for name, fn := range map[string]func() error{
		"hit":    s.Hit,
		"stand":  s.Stand,
		"double": s.DoubleDown,
		"split":  s.Split,
		"next":   s.NextRound,
	} {
		err := fn()
		assert.ErrorIs(t, err, ErrWrongPhase, name)
	}
	assert.Equal(t, PhaseBetting, s.Phase())
	assert.Equal(t, rules.Dollars(1000), s.Balance())
}

func TestReshuffleBeforeDeal(t *testing.T) {
	tests := []struct {
		name  string
		cards int
		shoe  int
	}{
		{"below threshold", 48, 6 * deck.CardsPerDeck},
		{"at threshold", 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(rules.Dollars(100),
				WithShoe(deck.NewShoeFromCards(deck.Build(1)[:tt.cards]...)),
				WithRNG(randutil.New(7)),
				WithLogger(quietLogger()))
			require.NoError(t, err)

			dealWith(t, s, mainBet(10))
			onTable := len(s.dealer.Cards)
			for _, h := range s.hands {
				onTable += len(h.Cards)
			}
			assert.Equal(t, tt.shoe, s.ShoeRemaining()+onTable)
		})
	}
}

func TestAuthorizerGatesDeal(t *testing.T) {
	t.Run("failure leaves state untouched", func(t *testing.T) {
		unavailable := errors.New("connection refused")
		s := newTestSession(t, rules.Dollars(1000), "Ts 9c 7d 8h",
			WithAuthorizer(AuthorizerFunc(func(context.Context) (string, error) {
				return "", unavailable
			})))
		require.NoError(t, s.Bet(rules.BetMain, rules.Dollars(10)))
		remaining := s.ShoeRemaining()

		err := s.Deal(context.Background())
		require.ErrorIs(t, err, ErrAuthorization)
		require.ErrorIs(t, err, unavailable)
		assert.Equal(t, PhaseBetting, s.Phase())
		assert.Equal(t, remaining, s.ShoeRemaining())
		assert.Equal(t, rules.Dollars(990), s.Balance())
		assert.NotEmpty(t, s.Message())
	})

	t.Run("session id recorded on result", func(t *testing.T) {
		s := newTestSession(t, rules.Dollars(1000), "Ts 9c 7d 8h",
			WithAuthorizer(AuthorizerFunc(func(context.Context) (string, error) {
				return "ses_test", nil
			})))
		dealWith(t, s, mainBet(10))
		require.NoError(t, s.Stand())
		assert.Equal(t, "ses_test", lastResult(t, s).FairSessionID)
	})
}

func TestNextRoundResetsTable(t *testing.T) {
	s := newTestSession(t, rules.Dollars(1000), "Ts 9c 8d 8h")
	dealWith(t, s, mainBet(10))
	require.NoError(t, s.Stand())
	require.NoError(t, s.NextRound())

	assert.Equal(t, PhaseBetting, s.Phase())
	assert.Empty(t, s.PlayerHands()[0].Cards)
	assert.Empty(t, s.DealerHand())
	assert.Empty(t, s.SideBetPreview())
	assert.Zero(t, s.TotalBet())
	assert.Len(t, s.History(), 1)
}
