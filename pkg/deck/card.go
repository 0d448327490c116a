package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit int

// suit constants
const (
	Clubs Suit = iota + 1
	Diamonds
	Hearts
	Spades
)

// Suits is every suit in code order
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Card is an individual playing card encoded as 1..52
// The zero value is a face-down placeholder.
type Card uint8

// FaceDown is a card that has not been revealed to the recipient
const FaceDown Card = 0

// face cards
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// NewCard returns the card for the rank (2..14) and suit
func NewCard(rank int, suit Suit) Card {
	if rank < 2 || rank > Ace || suit < Clubs || suit > Spades {
		panic(fmt.Sprintf("invalid card: rank=%d suit=%d", rank, suit))
	}

	return Card(int(suit-1)*13 + (rank - 2) + 1)
}

// Rank returns the rank of the card, 2 through 14
func (c Card) Rank() int {
	if c == FaceDown {
		return 0
	}

	return int(c-1)%13 + 2
}

// Suit returns the suit of the card
func (c Card) Suit() Suit {
	if c == FaceDown {
		return 0
	}

	return Suit(int(c-1)/13 + 1)
}

// IsFaceDown returns true for the face-down placeholder
func (c Card) IsFaceDown() bool {
	return c == FaceDown
}

// Valid returns true if the card is one of the 52 real cards
func (c Card) Valid() bool {
	return c >= 1 && c <= 52
}

// AceLowRank return the rank where Ace is considered low instead of high
func (c Card) AceLowRank() int {
	if c.Rank() == Ace {
		return 1
	}

	return c.Rank()
}

// String returns the two character form, i.e., "Ah" or "Tc"
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}

	return string([]byte{rankChars[c.Rank()-2], suitChars[c.Suit()-1]})
}

// MarshalJSON encodes the card as its integer code
// Without it a Hand would be encoded as a base64 byte string.
func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON decodes the integer code of a card
func (c *Card) UnmarshalJSON(data []byte) error {
	code, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}

	if code < 0 || code > 52 {
		return fmt.Errorf("invalid card code: %d", code)
	}

	*c = Card(code)
	return nil
}

// ParseCard parses the two character form of a card
func ParseCard(s string) (Card, error) {
	if s == "??" {
		return FaceDown, nil
	}

	if len(s) != 2 {
		return FaceDown, fmt.Errorf("could not parse card: %q", s)
	}

	rank := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	suit := strings.IndexByte(suitChars, strings.ToLower(s[1:])[0])
	if rank < 0 || suit < 0 {
		return FaceDown, fmt.Errorf("could not parse card: %q", s)
	}

	return NewCard(rank+2, Suit(suit+1)), nil
}

// CardFromString returns a Card from the string and panics if it is malformed
// Used mostly by tests.
func CardFromString(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}

	return c
}

// CardsFromString will return a hand from a comma separated list of cards
func CardsFromString(s string) Hand {
	if s == "" {
		return Hand{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make(Hand, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(strings.TrimSpace(card))
	}

	return cards
}
