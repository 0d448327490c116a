package table

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"pokertable-server/pkg/db"
)

// Store persists tables, games and the messages of a table in PostgreSQL
type Store struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

// NewStore returns a store backed by the database
func NewStore(database *sql.DB, logger logrus.FieldLogger) *Store {
	return &Store{
		db:     database,
		logger: logger,
	}
}

// Table is a record in the `tables` table
type Table struct {
	UUID    string          `json:"uuid"`
	Name    string          `json:"name"`
	Options json.RawMessage `json:"options"`
	Created time.Time       `json:"created"`
	Closed  time.Time       `json:"closed"`
}

// Message is a record in the `table_messages` table
type Message struct {
	ID       int64           `json:"id"`
	TableID  string          `json:"tableId"`
	GameID   string          `json:"gameId,omitempty"`
	MsgType  string          `json:"msgType"`
	Props    json.RawMessage `json:"props"`
	CmdID    string          `json:"cmdId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Created  time.Time       `json:"created"`
}

const tablesColumns = `uuid, name, options, created, closed`

// CreateTable records a newly opened table
func (s *Store) CreateTable(ctx context.Context, tableID, name string, options interface{}) error {
	const query = `
INSERT INTO tables (uuid, name, options)
VALUES ($1, $2, $3)`

	b, err := json.Marshal(options)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, tableID, name, b); err != nil {
		return translateError(err)
	}

	return nil
}

// CloseTable marks the table as closed
func (s *Store) CloseTable(ctx context.Context, tableID string) error {
	const query = `
UPDATE tables
SET closed = (NOW() AT TIME ZONE 'UTC')
WHERE uuid = $1 AND closed IS NULL`

	res, err := s.db.ExecContext(ctx, query, tableID)
	if err != nil {
		return err
	}

	return expectOneRow(res)
}

// GetTable returns a table by its UUID
func (s *Store) GetTable(ctx context.Context, tableID string) (*Table, error) {
	const query = `
SELECT ` + tablesColumns + `
FROM tables
WHERE uuid = $1`

	t, err := tableByRow(s.db.QueryRowContext(ctx, query, tableID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return t, err
}

func tableByRow(row db.Scanner) (*Table, error) {
	var t Table
	var closed sql.NullTime
	if err := row.Scan(&t.UUID, &t.Name, &t.Options, &t.Created, &closed); err != nil {
		return nil, err
	}

	t.Closed = closed.Time
	return &t, nil
}

// CreateTableMsg appends a message to the table's history
func (s *Store) CreateTableMsg(ctx context.Context, tableID, gameID, msgType string, props interface{}, cmdID, clientID string) error {
	const query = `
INSERT INTO table_messages (table_uuid, game_uuid, msg_type, props, cmd_id, client_id)
VALUES ($1, $2, $3, $4, $5, $6)`

	b, err := json.Marshal(props)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, tableID, nullString(gameID), msgType, b, nullString(cmdID), nullString(clientID))
	return err
}

// Messages returns the messages of a table with an id greater than afterID, oldest first
func (s *Store) Messages(ctx context.Context, tableID string, afterID int64, limit int) ([]*Message, error) {
	const query = `
SELECT id, table_uuid, game_uuid, msg_type, props, cmd_id, client_id, created
FROM table_messages
WHERE table_uuid = $1 AND id > $2
ORDER BY id
LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, tableID, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*Message, 0, limit)
	for rows.Next() {
		var m Message
		var gameID, cmdID, clientID sql.NullString
		if err := rows.Scan(&m.ID, &m.TableID, &gameID, &m.MsgType, &m.Props, &cmdID, &clientID, &m.Created); err != nil {
			return nil, err
		}

		m.GameID = gameID.String
		m.CmdID = cmdID.String
		m.ClientID = clientID.String
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}

// withTx runs fn in a transaction, committing only when fn succeeds
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return withTx(ctx, s.db, s.logger, fn)
}

func withTx(ctx context.Context, database *sql.DB, logger logrus.FieldLogger, fn func(tx *sql.Tx) error) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.WithError(rbErr).Error("could not rollback transaction")
		}

		return err
	}

	return tx.Commit()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
