package room

import (
	"errors"

	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/holdem"
)

// errors returned to the client that sent the command
var (
	ErrSeatTaken           error = playable.UserError("seat is taken")
	ErrNoFreeSeat          error = playable.UserError("no free seat")
	ErrInvalidSeat         error = playable.UserError("no such seat")
	ErrNotSeated           error = playable.UserError("not seated")
	ErrAlreadySeated       error = playable.UserError("already seated")
	ErrNotJoined           error = playable.UserError("join the table first")
	ErrNoGame              error = playable.UserError("no hand in progress")
	ErrTableClosed         error = playable.UserError("table is closed")
	ErrInsufficientBalance error = playable.UserError("insufficient balance")
	ErrInvalidAmount       error = playable.UserError("amount must be > 0")
)

// error codes sent in ERROR messages
const (
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeSeatTaken           = "SEAT_TAKEN"
	CodeNoFreeSeat          = "NO_FREE_SEAT"
	CodeInvalidSeat         = "INVALID_SEAT"
	CodeNotSeated           = "NOT_SEATED"
	CodeAlreadySeated       = "ALREADY_SEATED"
	CodeNotJoined           = "NOT_JOINED"
	CodeWrongPlayer         = "WRONG_PLAYER"
	CodeIllegalAction       = "ILLEGAL_ACTION"
	CodeAmountOutOfRange    = "AMOUNT_OUT_OF_RANGE"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeNoGame              = "NO_GAME"
	CodeTableClosed         = "TABLE_CLOSED"
	CodeBadCommand          = "BAD_COMMAND"
	CodeInternal            = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrInsufficientBalance, CodeInsufficientBalance},
	{ErrSeatTaken, CodeSeatTaken},
	{ErrNoFreeSeat, CodeNoFreeSeat},
	{ErrInvalidSeat, CodeInvalidSeat},
	{ErrNotSeated, CodeNotSeated},
	{ErrAlreadySeated, CodeAlreadySeated},
	{ErrNotJoined, CodeNotJoined},
	{holdem.ErrWrongPlayer, CodeWrongPlayer},
	{holdem.ErrIllegalAction, CodeIllegalAction},
	{holdem.ErrAmountOutOfRange, CodeAmountOutOfRange},
	{ErrInvalidAmount, CodeInvalidAmount},
	{ErrNoGame, CodeNoGame},
	{ErrTableClosed, CodeTableClosed},
}

// newErrorProps returns the props of the ERROR message for err
// Only the text of a UserError reaches the client.
func newErrorProps(err error) *playable.ErrorProps {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return &playable.ErrorProps{Code: ec.code, Message: ec.err.Error()}
		}
	}

	var ue playable.UserError
	if errors.As(err, &ue) {
		return &playable.ErrorProps{Code: CodeBadCommand, Message: ue.Error()}
	}

	return &playable.ErrorProps{Code: CodeInternal, Message: "internal error"}
}
