package table

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ledger reasons
const (
	ReasonBuyIn   = "buy-in"
	ReasonCashOut = "cash-out"
)

// Entry is a record in the `ledger` table
type Entry struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"userId"`
	TableID string    `json:"tableId"`
	Amount  int       `json:"amount"`
	Reason  string    `json:"reason"`
	Created time.Time `json:"created"`
}

// Ledger moves chips between a user's bankroll and the tables
type Ledger struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

// NewLedger returns a ledger backed by the database
func NewLedger(database *sql.DB, logger logrus.FieldLogger) *Ledger {
	return &Ledger{
		db:     database,
		logger: logger,
	}
}

// BuyIn takes chips from the user's bankroll for a seat at the table
func (l *Ledger) BuyIn(ctx context.Context, tableID string, userID int64, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("buy-in must be > 0: %d", amount)
	}

	const debit = `
UPDATE bankrolls
SET balance = balance - $2, updated = (NOW() AT TIME ZONE 'UTC')
WHERE user_id = $1`

	return withTx(ctx, l.db, l.logger, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, debit, userID, amount)
		if err != nil {
			return translateError(err)
		}

		// no bankroll at all
		if err := expectOneRow(res); err != nil {
			return ErrInsufficientBalance
		}

		return insertEntry(ctx, tx, tableID, userID, -amount, ReasonBuyIn)
	})
}

// CashOut returns the chips of a seat to the user's bankroll
func (l *Ledger) CashOut(ctx context.Context, tableID string, userID int64, amount int) error {
	if amount < 0 {
		return fmt.Errorf("cash-out must be >= 0: %d", amount)
	}

	if amount == 0 {
		return nil
	}

	const credit = `
INSERT INTO bankrolls (user_id, balance)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET balance = bankrolls.balance + EXCLUDED.balance, updated = (NOW() AT TIME ZONE 'UTC')`

	return withTx(ctx, l.db, l.logger, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, credit, userID, amount); err != nil {
			return err
		}

		return insertEntry(ctx, tx, tableID, userID, amount, ReasonCashOut)
	})
}

// Bankroll returns the chips the user holds away from the tables
func (l *Ledger) Bankroll(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT balance FROM bankrolls WHERE user_id = $1`

	var balance int
	if err := l.db.QueryRowContext(ctx, query, userID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}

		return 0, err
	}

	return balance, nil
}

// Entries returns the ledger entries of the user, oldest first
func (l *Ledger) Entries(ctx context.Context, userID int64) ([]*Entry, error) {
	const query = `
SELECT id, user_id, table_uuid, amount, reason, created
FROM ledger
WHERE user_id = $1
ORDER BY id`

	rows, err := l.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.TableID, &e.Amount, &e.Reason, &e.Created); err != nil {
			return nil, err
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func insertEntry(ctx context.Context, tx *sql.Tx, tableID string, userID int64, amount int, reason string) error {
	const query = `
INSERT INTO ledger (user_id, table_uuid, amount, reason)
VALUES ($1, $2, $3, $4)`

	_, err := tx.ExecContext(ctx, query, userID, tableID, amount, reason)
	return err
}
