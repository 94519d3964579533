package deck

import (
	rand "math/rand/v2"
	"slices"
)

const (
	// CardsPerDeck is the size of a standard deck
	CardsPerDeck = 52
	// DefaultDecks is the number of decks in a blackjack shoe
	DefaultDecks = 6
)

// Shoe is the pool of cards dealt from. Cards are drawn from the end of the
// underlying slice.
type Shoe struct {
	cards []Card
}

// NewShoe builds a shoe of the given number of standard decks and shuffles it
// with rng.
func NewShoe(rng *rand.Rand, decks int) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	cards := Build(decks)
	Shuffle(rng, cards)
	return &Shoe{cards: cards}
}

// NewShoeFromCards creates an unshuffled shoe that deals the given cards in
// order: cards[0] is drawn first. Identities are assigned by position.
func NewShoeFromCards(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	for i, c := range cards {
		c.ID = i
		stacked[len(cards)-1-i] = c
	}
	return &Shoe{cards: stacked}
}

// Build returns decks concatenated standard 52-card decks in a fixed order.
// Every card receives a unique ID within the result.
func Build(decks int) []Card {
	cards := make([]Card, 0, decks*CardsPerDeck)
	for d := 0; d < decks; d++ {
		for _, suit := range Suits {
			for rank := Ace; rank <= King; rank++ {
				cards = append(cards, Card{Suit: suit, Rank: rank, ID: len(cards)})
			}
		}
	}
	return cards
}

// Shuffle permutes cards in place with a Fisher-Yates pass. rng.IntN is
// unbiased, so every permutation is equally likely given a uniform source.
func Shuffle(rng *rand.Rand, cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Draw removes and returns the next card from the shoe
func (s *Shoe) Draw() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, true
}

// Peek returns the next card without removing it
func (s *Shoe) Peek() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	return s.cards[len(s.cards)-1], true
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// IsEmpty returns true if the shoe has no cards left
func (s *Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

// Cards returns the remaining cards in draw order
func (s *Shoe) Cards() []Card {
	out := slices.Clone(s.cards)
	slices.Reverse(out)
	return out
}
