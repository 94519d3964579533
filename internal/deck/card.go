package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in shoe construction order
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the lowercase suit name
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ace is low (1); blackjack valuation decides
// whether it counts as 1 or 11.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Points returns the blackjack value of the rank with aces counted as 1
func (r Rank) Points() int {
	if r >= Ten {
		return 10
	}
	return int(r)
}

// Card represents a playing card. ID distinguishes physical copies of the
// same suit and rank inside a multi-deck shoe.
type Card struct {
	Suit Suit
	Rank Rank
	ID   int
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠", "10♥")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// Same reports whether two cards share suit and rank, ignoring shoe identity.
func (c Card) Same(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// FormatCards renders cards separated by spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseCards parses a card list such as "As Kd 10h" or "AsKdTh". Ranks are
// A,2-9,T or 10,J,Q,K (case insensitive); suits are s,h,d,c or ♠♥♦♣.
func ParseCards(s string) ([]Card, error) {
	runes := []rune(strings.Join(strings.Fields(s), ""))
	cards := []Card{}
	for i := 0; i < len(runes); {
		var rank Rank
		switch r := runes[i]; {
		case r == '1' && i+1 < len(runes) && runes[i+1] == '0':
			rank = Ten
			i += 2
		default:
			var ok bool
			rank, ok = parseRank(r)
			if !ok {
				return nil, fmt.Errorf("invalid rank %q at position %d", string(r), i)
			}
			i++
		}
		if i >= len(runes) {
			return nil, fmt.Errorf("missing suit for rank %s", rank)
		}
		suit, ok := parseSuit(runes[i])
		if !ok {
			return nil, fmt.Errorf("invalid suit %q at position %d", string(runes[i]), i)
		}
		i++
		cards = append(cards, NewCard(suit, rank))
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// MustParseCard parses a single card and panics on error
func MustParseCard(s string) Card {
	cards := MustParseCards(s)
	if len(cards) != 1 {
		panic(fmt.Sprintf("expected exactly one card in %q", s))
	}
	return cards[0]
}

func parseRank(r rune) (Rank, bool) {
	switch r {
	case 'A', 'a':
		return Ace, true
	case 'T', 't':
		return Ten, true
	case 'J', 'j':
		return Jack, true
	case 'Q', 'q':
		return Queen, true
	case 'K', 'k':
		return King, true
	}
	if r >= '2' && r <= '9' {
		return Rank(r - '0'), true
	}
	return 0, false
}

func parseSuit(r rune) (Suit, bool) {
	switch r {
	case 'h', 'H', '♥':
		return Hearts, true
	case 'd', 'D', '♦':
		return Diamonds, true
	case 'c', 'C', '♣':
		return Clubs, true
	case 's', 'S', '♠':
		return Spades, true
	}
	return 0, false
}
