package holdem

import (
	"errors"

	"pokertable-server/pkg/playable"
)

// errors returned to the player on the clock
var (
	ErrWrongPlayer      error = playable.UserError("wrong current player")
	ErrIllegalAction    error = playable.UserError("action is not allowed")
	ErrAmountOutOfRange error = playable.UserError("amount is out of range")
)

// ErrGameStarted is returned when Run is called twice
var ErrGameStarted = errors.New("game already started")

// ErrTooManyPlayers is returned when the deck cannot deal the hand
var ErrTooManyPlayers = errors.New("not enough cards for the number of players")
