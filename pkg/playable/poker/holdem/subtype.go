package holdem

import (
	"encoding/json"
	"fmt"
	"strings"

	"pokertable-server/pkg/deck"
	"pokertable-server/pkg/playable/poker/handanalyzer"
)

// Subtype specifies the flavour of community card poker
type Subtype string

// Subtype constants
const (
	Holdem           Subtype = "holdem"
	Omaha            Subtype = "omaha"
	ShortDeck        Subtype = "short-deck"
	ShortDeckClassic Subtype = "short-deck-classic"
)

var validSubtypes = map[Subtype]bool{
	Holdem:           true,
	Omaha:            true,
	ShortDeck:        true,
	ShortDeckClassic: true,
}

// HoleCards returns the number of hole cards for the game
func (s Subtype) HoleCards() int {
	if s == Omaha {
		return 4
	}

	return 2
}

// PotLimit returns true if raises are capped by the pot
func (s Subtype) PotLimit() bool {
	return s == Omaha
}

// DeckKind returns the deck the subtype is dealt from
func (s Subtype) DeckKind() deck.Kind {
	if s == ShortDeck || s == ShortDeckClassic {
		return deck.Short
	}

	return deck.Standard
}

// Rules returns the hand ranking rules
func (s Subtype) Rules() handanalyzer.Rules {
	return handanalyzer.Rules{
		Deck:                s.DeckKind(),
		FlushBeatsFullHouse: s == ShortDeck,
	}
}

func (s Subtype) String() string {
	switch s {
	case Holdem:
		return "Texas Hold'em"
	case Omaha:
		return "Pot-Limit Omaha"
	case ShortDeck:
		return "Short Deck"
	case ShortDeckClassic:
		return "Short Deck (Classic)"
	}

	panic(fmt.Sprintf("unknown subtype: %s", string(s)))
}

// MarshalJSON encodes to JSON
func (s Subtype) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		HoleCards int    `json:"holeCards"`
	}{
		ID:        string(s),
		Name:      s.String(),
		HoleCards: s.HoleCards(),
	})
}

// SubtypeFromString returns the subtype from a string
func SubtypeFromString(s string) (Subtype, error) {
	subtype := Subtype(strings.ToLower(s))
	if _, ok := validSubtypes[subtype]; ok {
		return subtype, nil
	}

	return "", fmt.Errorf("invalid subtype: %s", s)
}
