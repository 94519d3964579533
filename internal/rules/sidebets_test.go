package rules

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestEvaluatePerfectPairs(t *testing.T) {
	tests := []struct {
		hand  string
		name  string
		mult  int64
		ratio string
	}{
		{"7h 7h", "Perfect Pair", 26, "25:1"},
		{"7h 7d", "Coloured Pair", 13, "12:1"},
		{"7h 7s", "Mixed Pair", 6, "5:1"},
		{"Kh Qh", "No Pair", 0, "lose"},
	}
	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			out := EvaluatePerfectPairs(cards(tt.hand))
			assert.Equal(t, tt.name, out.Hand)
			assert.Equal(t, tt.mult, out.Multiplier)
			assert.Equal(t, tt.ratio, out.Ratio())
		})
	}
}

func TestPerfectPairPayoutAcrossDecks(t *testing.T) {
	out := EvaluatePerfectPairs(cards("7h 7h"))
	assert.Equal(t, Dollars(260), out.Payout(Dollars(10)))
}

func TestEvaluateTwentyOnePlusThree(t *testing.T) {
	tests := []struct {
		player string
		up     string
		name   string
		mult   int64
	}{
		{"9h 9h", "9h", "Suited Trips", 101},
		{"9h 10h", "Jh", "Straight Flush", 41},
		{"Ah 2h", "3h", "Straight Flush", 41},
		{"9h 9d", "9s", "Three of a Kind", 31},
		{"9h 10d", "Js", "Straight", 11},
		{"Qh Kd", "As", "Straight", 11},
		{"Kh Ad", "2s", "Nothing", 0},
		{"2h 9h", "Kh", "Flush", 6},
		{"2h 9d", "Kh", "Nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.player+" "+tt.up, func(t *testing.T) {
			out := EvaluateTwentyOnePlusThree(cards(tt.player), deck.MustParseCard(tt.up))
			assert.Equal(t, tt.name, out.Hand)
			assert.Equal(t, tt.mult, out.Multiplier)
		})
	}
}

func TestEvaluateBlazingSevens(t *testing.T) {
	tests := []struct {
		player string
		up     string
		mult   int64
	}{
		{"7h 7h", "7h", 1001},
		{"7h 7h", "7s", 501},
		{"7h 7d", "7h", 201},
		{"7h 7h", "Ks", 101},
		{"7h 7c", "Ks", 51},
		{"7h Kc", "7s", 4},
		{"7h Kc", "2s", 4},
		{"Kh Kc", "7s", 0},
		{"Kh Kc", "2s", 0},
	}
	for _, tt := range tests {
		t.Run(tt.player+" "+tt.up, func(t *testing.T) {
			out := EvaluateBlazingSevens(cards(tt.player), deck.MustParseCard(tt.up))
			assert.Equal(t, tt.mult, out.Multiplier, out.Hand)
		})
	}
}

func TestSideBetsIgnoreLaterCards(t *testing.T) {
	// Only the first two player cards count, no matter what was drawn after.
	hand := cards("7h 7h 7h")
	assert.Equal(t, int64(101), EvaluateBlazingSevens(hand, deck.MustParseCard("Ks")).Multiplier)
	assert.Equal(t, int64(26), EvaluatePerfectPairs(hand).Multiplier)
}

func TestEvaluateSideBetDispatch(t *testing.T) {
	player := cards("7h 7h")
	up := deck.MustParseCard("7h")
	assert.Equal(t, BetPerfectPairs, EvaluateSideBet(BetPerfectPairs, player, up).Kind)
	assert.Equal(t, int64(101), EvaluateSideBet(BetTwentyOnePlusThree, player, up).Multiplier)
	assert.Equal(t, int64(1001), EvaluateSideBet(BetBlazingSevens, player, up).Multiplier)
	assert.False(t, EvaluateSideBet(BetMain, player, up).Won())
}

func TestParseBetKind(t *testing.T) {
	for in, want := range map[string]BetKind{
		"main": BetMain, "pp": BetPerfectPairs, "21+3": BetTwentyOnePlusThree, "bs": BetBlazingSevens,
	} {
		got, err := ParseBetKind(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseBetKind("keno")
	assert.Error(t, err)
}
