package room

import "sync"

const unseated = -1

// User is a person connected to or seated at a table
// The balance is the stack in front of the seat. The running hand changes it from its own goroutine.
type User struct {
	id   int64
	name string

	mu      sync.Mutex
	balance int
	// pending are chips bought during a hand, added once it ends
	pending int
	clients int
	exiting bool

	// guarded by the dealer's lock
	seat   int
	buying bool
}

func newUser(id int64, name string) *User {
	return &User{
		id:   id,
		name: name,
		seat: unseated,
	}
}

// ID returns the id of the user
func (u *User) ID() int64 {
	return u.id
}

// Name returns the display name
func (u *User) Name() string {
	return u.name
}

// Balance returns the stack at the table
func (u *User) Balance() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.balance
}

// AdjustBalance adds amount to the stack
func (u *User) AdjustBalance(amount int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.balance += amount
}

// IsConnected returns false when nobody is there to act for the user
// A user that asked to leave mid-hand is treated as disconnected.
func (u *User) IsConnected() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.clients > 0 && !u.exiting
}

// connect adds a client and returns the number of clients
func (u *User) connect(delta int) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.clients += delta
	return u.clients
}

func (u *User) setExiting(exiting bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.exiting = exiting
}

func (u *User) isExiting() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.exiting
}

func (u *User) addPending(amount int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.pending += amount
}

// applyPending moves the pending chips onto the stack
func (u *User) applyPending() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.pending == 0 {
		return false
	}

	u.balance += u.pending
	u.pending = 0
	return true
}

// takeAll empties the stack and the pending chips, returning the total
func (u *User) takeAll() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	total := u.balance + u.pending
	u.balance = 0
	u.pending = 0
	return total
}

func (u *User) hasPending() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.pending > 0
}
