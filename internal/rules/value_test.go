package rules

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
)

func cards(s string) []deck.Card {
	return deck.MustParseCards(s)
}

func TestValue(t *testing.T) {
	tests := []struct {
		hand  string
		total int
		soft  bool
	}{
		{"10s 7d", 17, false},
		{"As 6h", 17, true},
		{"As Kd", 21, true},
		{"As Ad", 12, true},
		{"As Ad Ac Ah", 14, true},
		{"As 5h 8c", 14, false},
		{"10s 9d 5c", 24, false},
		{"As Ad 9c", 21, true},
		{"As Ad 9c Kh", 21, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			v := Value(cards(tt.hand))
			assert.Equal(t, tt.total, v.Total)
			assert.Equal(t, tt.soft, v.Soft)
		})
	}
}

func TestValueSoftnessProperty(t *testing.T) {
	rng := randutil.New(99)
	shoe := deck.NewShoe(rng, 1)
	all := shoe.Cards()
	for i := 0; i < 500; i++ {
		n := 1 + rng.IntN(6)
		hand := make([]deck.Card, n)
		for j := range hand {
			hand[j] = all[rng.IntN(len(all))]
		}
		v := Value(hand)

		hard := 0
		aces := 0
		for _, c := range hand {
			hard += c.Rank.Points()
			if c.IsAce() {
				aces++
			}
		}
		// A soft total is exactly ten above the all-aces-low total.
		if v.Soft {
			assert.Equal(t, hard+10, v.Total, deck.FormatCards(hand))
			assert.LessOrEqual(t, v.Total, 21)
		} else {
			assert.Equal(t, hard, v.Total, deck.FormatCards(hand))
		}
		assert.False(t, v.Soft && aces == 0)
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsBust(cards("10s 9d 5c")))
	assert.False(t, IsBust(cards("10s As Kc")))

	assert.True(t, IsBlackjack(cards("As Kd")))
	assert.True(t, IsBlackjack(cards("10h Ac")))
	assert.False(t, IsBlackjack(cards("7s 7d 7c")), "three-card 21 is not blackjack")

	assert.True(t, CanSplit(cards("8s 8d")))
	assert.True(t, CanSplit(cards("Ks Kd")))
	assert.False(t, CanSplit(cards("Ks Qd")), "equal value but different rank")
	assert.False(t, CanSplit(cards("8s 8d 8c")))
}

func TestCanDoubleDown(t *testing.T) {
	tests := []struct {
		hand string
		want bool
	}{
		{"5s 4d", true},
		{"6s 4d", true},
		{"6s 5d", true},
		{"4s 4d", false},
		{"10s 2d", false},
		{"As 8d", false},
		{"As Ad", false},
		{"3s 3d 3c", false},
	}
	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDoubleDown(cards(tt.hand)))
		})
	}
}

func TestDealerShouldHit(t *testing.T) {
	tests := []struct {
		hand string
		want bool
	}{
		{"10s 6d", true},
		{"10s 7d", false},
		{"As 6d", true},
		{"As 7d", false},
		{"As 6d 10c", false},
		{"9c 8h", false},
		{"2c 3h", true},
	}
	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			assert.Equal(t, tt.want, DealerShouldHit(cards(tt.hand)))
		})
	}
}
