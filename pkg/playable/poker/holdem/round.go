package holdem

import "encoding/json"

// Round is a stage of the hand
type Round int

// constants for Round
const (
	Preflop Round = iota
	Flop
	Turn
	River
	Showdown
)

func (r Round) String() string {
	switch r {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	}

	return ""
}

// MarshalJSON encodes JSON
func (r Round) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(r),
		Name: r.String(),
	})
}

// boardCards returns how many cards are dealt to each board at the start of the round
func (r Round) boardCards() int {
	switch r {
	case Flop:
		return 3
	case Turn, River:
		return 1
	}

	return 0
}
