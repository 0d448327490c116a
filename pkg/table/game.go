package table

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"pokertable-server/pkg/db"
)

// Game is a record in the `games` table
type Game struct {
	UUID      string          `json:"uuid"`
	TableUUID string          `json:"tableUuid"`
	GameType  string          `json:"gameType"`
	Subtype   string          `json:"subtype"`
	Props     json.RawMessage `json:"props"`
	Players   []int64         `json:"players"`
	Deltas    map[int64]int   `json:"deltas,omitempty"`
	Created   time.Time       `json:"created"`
	Ended     time.Time       `json:"ended"`
}

const gamesColumns = `uuid, table_uuid, game_type, subtype, props, players, deltas, created, ended`

// CreateGame records the start of a hand and returns its id
func (s *Store) CreateGame(ctx context.Context, tableID, gameType, subtype string, props interface{}, players []int64) (string, error) {
	const query = `
INSERT INTO games (uuid, table_uuid, game_type, subtype, props, players)
VALUES ($1, $2, $3, $4, $5, $6)`

	b, err := json.Marshal(props)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	if _, err := s.db.ExecContext(ctx, query, id, tableID, gameType, subtype, b, pq.Array(players)); err != nil {
		return "", translateError(err)
	}

	return id, nil
}

// CloseGame records the end of a hand with the balance change of every player
func (s *Store) CloseGame(ctx context.Context, gameID string, deltas map[int64]int) error {
	const query = `
UPDATE games
SET deltas = $1, ended = (NOW() AT TIME ZONE 'UTC')
WHERE uuid = $2 AND ended IS NULL`

	b, err := json.Marshal(deltas)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, b, gameID)
		if err != nil {
			return err
		}

		return expectOneRow(res)
	})
}

// GameByID returns a game by its UUID
func (s *Store) GameByID(ctx context.Context, gameID string) (*Game, error) {
	const query = `
SELECT ` + gamesColumns + `
FROM games
WHERE uuid = $1`

	g, err := gameByRow(s.db.QueryRowContext(ctx, query, gameID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return g, err
}

func gameByRow(row db.Scanner) (*Game, error) {
	var g Game
	var deltas []byte
	var ended sql.NullTime
	var players pq.Int64Array

	if err := row.Scan(&g.UUID, &g.TableUUID, &g.GameType, &g.Subtype, &g.Props, &players, &deltas, &g.Created, &ended); err != nil {
		return nil, err
	}

	g.Players = players
	g.Ended = ended.Time
	if deltas != nil {
		if err := json.Unmarshal(deltas, &g.Deltas); err != nil {
			return nil, err
		}
	}

	return &g, nil
}
