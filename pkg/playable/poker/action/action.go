package action

import (
	"encoding/json"
	"fmt"
)

// Action represents an action a player can take
type Action string

// action constants
const (
	Fold  Action = "fold"
	Check Action = "check"
	Call  Action = "call"
	Raise Action = "raise"
	AllIn Action = "allin"

	// forced bets are recorded as the player's last action but are never offered
	SmallBlind Action = "small_blind"
	BigBlind   Action = "big_blind"
	Ante       Action = "ante"
	BombPot    Action = "bomb_pot"
)

// decisions are the actions a player may choose when solicited
var decisions = map[Action]bool{
	Fold:  true,
	Check: true,
	Call:  true,
	Raise: true,
	AllIn: true,
}

// FromString returns an action for the given string
func FromString(s string) (Action, error) {
	if _, ok := decisions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Raise:
		return "Raise"
	case AllIn:
		return "All-in"
	case SmallBlind:
		return "Small blind"
	case BigBlind:
		return "Big blind"
	case Ante:
		return "Ante"
	case BombPot:
		return "Bomb pot"
	}

	panic("unknown action")
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// UnmarshalJSON accepts either the identifier or the encoded {id,name} form
func (a *Action) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var obj struct {
			ID string `json:"id"`
		}

		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}

		id = obj.ID
	}

	act, err := FromString(id)
	if err != nil {
		return err
	}

	*a = act
	return nil
}

// IsValid returns true if the action can be chosen by a player
func (a Action) IsValid() bool {
	_, ok := decisions[a]
	return ok
}

// LogMessage returns a message formatted for the log
func (a Action) LogMessage(amount int) string {
	switch a {
	case Fold:
		return "folded"
	case Check:
		return "checked"
	case Call:
		return fmt.Sprintf("called ${%d}", amount)
	case Raise:
		return fmt.Sprintf("raised ${%d}", amount)
	case AllIn:
		return fmt.Sprintf("went all-in with ${%d}", amount)
	case SmallBlind:
		return fmt.Sprintf("posted the small blind of ${%d}", amount)
	case BigBlind:
		return fmt.Sprintf("posted the big blind of ${%d}", amount)
	case Ante:
		return fmt.Sprintf("paid an ante of ${%d}", amount)
	case BombPot:
		return fmt.Sprintf("posted ${%d} to the bomb pot", amount)
	}

	return ""
}
