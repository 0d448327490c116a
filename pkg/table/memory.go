package table

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps tables, games and messages in memory
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string]*Table
	games    map[string]*Game
	order    []string
	messages []*Message
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]*Table),
		games:  make(map[string]*Game),
	}
}

// CreateTable records a newly opened table
func (m *MemoryStore) CreateTable(_ context.Context, tableID, name string, options interface{}) error {
	b, err := json.Marshal(options)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[tableID]; ok {
		return ErrDuplicateKey
	}

	m.tables[tableID] = &Table{
		UUID:    tableID,
		Name:    name,
		Options: b,
		Created: time.Now(),
	}

	return nil
}

// CloseTable marks the table as closed
func (m *MemoryStore) CloseTable(_ context.Context, tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[tableID]
	if !ok || !t.Closed.IsZero() {
		return ErrNotFound
	}

	t.Closed = time.Now()
	return nil
}

// GetTable returns a copy of the table
func (m *MemoryStore) GetTable(_ context.Context, tableID string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[tableID]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *t
	return &copied, nil
}

// CreateGame records the start of a hand and returns its id
func (m *MemoryStore) CreateGame(_ context.Context, tableID, gameType, subtype string, props interface{}, players []int64) (string, error) {
	b, err := json.Marshal(props)
	if err != nil {
		return "", err
	}

	g := &Game{
		UUID:      uuid.New().String(),
		TableUUID: tableID,
		GameType:  gameType,
		Subtype:   subtype,
		Props:     b,
		Players:   append([]int64(nil), players...),
		Created:   time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.UUID] = g
	m.order = append(m.order, g.UUID)

	return g.UUID, nil
}

// CloseGame records the end of a hand
func (m *MemoryStore) CloseGame(_ context.Context, gameID string, deltas map[int64]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[gameID]
	if !ok || !g.Ended.IsZero() {
		return ErrNotFound
	}

	g.Deltas = make(map[int64]int, len(deltas))
	for k, v := range deltas {
		g.Deltas[k] = v
	}

	g.Ended = time.Now()
	return nil
}

// GameByID returns a copy of the game
func (m *MemoryStore) GameByID(_ context.Context, gameID string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *g
	return &copied, nil
}

// Games returns the games of the table, oldest first
func (m *MemoryStore) Games(tableID string) []*Game {
	m.mu.Lock()
	defer m.mu.Unlock()

	games := make([]*Game, 0)
	for _, id := range m.order {
		if g := m.games[id]; g.TableUUID == tableID {
			copied := *g
			games = append(games, &copied)
		}
	}

	return games
}

// CreateTableMsg appends a message to the table's history
func (m *MemoryStore) CreateTableMsg(_ context.Context, tableID, gameID, msgType string, props interface{}, cmdID, clientID string) error {
	b, err := json.Marshal(props)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, &Message{
		ID:       int64(len(m.messages) + 1),
		TableID:  tableID,
		GameID:   gameID,
		MsgType:  msgType,
		Props:    b,
		CmdID:    cmdID,
		ClientID: clientID,
		Created:  time.Now(),
	})

	return nil
}

// Messages returns the messages of a table with an id greater than afterID, oldest first
func (m *MemoryStore) Messages(_ context.Context, tableID string, afterID int64, limit int) ([]*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := make([]*Message, 0, limit)
	for _, msg := range m.messages {
		if len(messages) == limit {
			break
		}

		if msg.TableID == tableID && msg.ID > afterID {
			messages = append(messages, msg)
		}
	}

	return messages, nil
}

// MemoryLedger keeps bankrolls in memory
type MemoryLedger struct {
	mu        sync.Mutex
	bankrolls map[int64]int
	entries   []*Entry
}

// NewMemoryLedger returns a ledger with the bankrolls
func NewMemoryLedger(bankrolls map[int64]int) *MemoryLedger {
	l := &MemoryLedger{bankrolls: make(map[int64]int, len(bankrolls))}
	for userID, balance := range bankrolls {
		l.bankrolls[userID] = balance
	}

	return l
}

// BuyIn takes chips from the user's bankroll
func (m *MemoryLedger) BuyIn(_ context.Context, tableID string, userID int64, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("buy-in must be > 0: %d", amount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bankrolls[userID] < amount {
		return ErrInsufficientBalance
	}

	m.bankrolls[userID] -= amount
	m.record(tableID, userID, -amount, ReasonBuyIn)
	return nil
}

// CashOut returns chips to the user's bankroll
func (m *MemoryLedger) CashOut(_ context.Context, tableID string, userID int64, amount int) error {
	if amount < 0 {
		return fmt.Errorf("cash-out must be >= 0: %d", amount)
	}

	if amount == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.bankrolls[userID] += amount
	m.record(tableID, userID, amount, ReasonCashOut)
	return nil
}

// Bankroll returns the chips the user holds away from the tables
func (m *MemoryLedger) Bankroll(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.bankrolls[userID], nil
}

// Entries returns the entries of the user, oldest first
func (m *MemoryLedger) Entries(_ context.Context, userID int64) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]*Entry, 0)
	for _, e := range m.entries {
		if e.UserID == userID {
			copied := *e
			entries = append(entries, &copied)
		}
	}

	return entries, nil
}

func (m *MemoryLedger) record(tableID string, userID int64, amount int, reason string) {
	m.entries = append(m.entries, &Entry{
		ID:      int64(len(m.entries) + 1),
		UserID:  userID,
		TableID: tableID,
		Amount:  amount,
		Reason:  reason,
		Created: time.Now(),
	})
}
