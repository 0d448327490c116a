package table

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqDuplicateKeyErrorCode pq.ErrorCode = "23505"
	pqCheckViolationCode    pq.ErrorCode = "23514"
)

// ErrInsufficientBalance is returned when a bankroll cannot cover a buy-in
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrDuplicateKey is returned when a record already exists
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// translateError maps constraint violations to the package errors
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqDuplicateKeyErrorCode:
			return ErrDuplicateKey
		case pqCheckViolationCode:
			return ErrInsufficientBalance
		}
	}

	return err
}
