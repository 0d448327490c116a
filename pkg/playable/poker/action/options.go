package action

import "github.com/thoas/go-funk"

// BetOptions are the legal decisions of the player on the clock
// Amounts are the chips the player adds to the table with the action.
type BetOptions struct {
	Actions  []Action `json:"actions"`
	Call     int      `json:"call"`
	RaiseMin int      `json:"raiseMin"`
	RaiseMax int      `json:"raiseMax"`
	Balance  int      `json:"balance"`
}

// Has returns true if the action is one of the options
func (b BetOptions) Has(a Action) bool {
	return funk.Contains(b.Actions, a)
}

// Default is the action taken when the player does not decide in time
func (b BetOptions) Default() Action {
	if b.Has(Check) {
		return Check
	}

	return Fold
}
