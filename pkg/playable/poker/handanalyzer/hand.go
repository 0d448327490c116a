package handanalyzer

import (
	"encoding/json"
	"fmt"

	"pokertable-server/pkg/deck"
)

// Category is a poker hand category, i.e., full house
type Category int

// Constants for category
const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the string representation of a category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	default:
		panic(fmt.Sprintf("unknown category: %d", c))
	}
}

// Rules changes how hands are ranked
type Rules struct {
	Deck deck.Kind
	// FlushBeatsFullHouse is the usual short-deck ranking
	FlushBeatsFullHouse bool
}

// StandardRules are the rules for a 52-card deck
var StandardRules = Rules{Deck: deck.Standard}

// weight returns the value of a category under the rules
func (r Rules) weight(c Category) int {
	if r.FlushBeatsFullHouse {
		switch c {
		case Flush:
			return int(FullHouse)
		case FullHouse:
			return int(Flush)
		}
	}

	return int(c)
}

// Hand is the best five-card hand found in a set of cards
type Hand struct {
	Category Category
	// Ranks are the tie-breaking ranks, category ranks first then kickers
	Ranks []int
	Cards deck.Hand
	// Strength gives a total order over hands evaluated with the same rules
	Strength int
}

// Compare returns 1 if h beats other, -1 if other beats h, and 0 on a tie
func (h Hand) Compare(other Hand) int {
	switch {
	case h.Strength > other.Strength:
		return 1
	case h.Strength < other.Strength:
		return -1
	default:
		return 0
	}
}

func (h Hand) String() string {
	return fmt.Sprintf("%s (%s)", h.Category, h.Cards)
}

// MarshalJSON encodes the hand for clients
func (h Hand) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"category": int(h.Category),
		"name":     h.Category.String(),
		"cards":    h.Cards,
		"strength": h.Strength,
	})
}

func calculateStrength(weight int, ranks []int) int {
	strength := weight
	for i := 0; i < 5; i++ {
		strength *= 15
		if i < len(ranks) {
			strength += ranks[i]
		}
	}

	return strength
}
