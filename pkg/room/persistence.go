package room

import "context"

// Persistence records tables, hands and the messages of a table
type Persistence interface {
	CreateTable(ctx context.Context, tableID, name string, options interface{}) error
	CloseTable(ctx context.Context, tableID string) error
	CreateGame(ctx context.Context, tableID, gameType, subtype string, props interface{}, players []int64) (string, error)
	CloseGame(ctx context.Context, gameID string, deltas map[int64]int) error
	CreateTableMsg(ctx context.Context, tableID, gameID, msgType string, props interface{}, cmdID, clientID string) error
}

// Ledger moves chips between a user's bankroll and a seat
// Each call is atomic.
type Ledger interface {
	BuyIn(ctx context.Context, tableID string, userID int64, amount int) error
	CashOut(ctx context.Context, tableID string, userID int64, amount int) error
}
