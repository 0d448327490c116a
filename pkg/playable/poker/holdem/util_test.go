package holdem

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pokertable-server/pkg/deck"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/action"
)

type testUser struct {
	id           int64
	balance      int
	disconnected bool
}

func (u *testUser) ID() int64 {
	return u.id
}

func (u *testUser) Name() string {
	return "player"
}

func (u *testUser) Balance() int {
	return u.balance
}

func (u *testUser) AdjustBalance(amount int) {
	u.balance += amount
}

func (u *testUser) IsConnected() bool {
	return !u.disconnected
}

// setupUsers returns users with ids 1..n, the first one is the dealer
func setupUsers(balances ...int) []*testUser {
	users := make([]*testUser, len(balances))
	for i, balance := range balances {
		users[i] = &testUser{id: int64(i + 1), balance: balance}
	}

	return users
}

func asUsers(users []*testUser) []User {
	u := make([]User, len(users))
	for i, user := range users {
		u[i] = user
	}

	return u
}

type scriptedBet struct {
	id     int64
	action action.Action
	amount int
}

func bet(id int64, act action.Action, amount ...int) scriptedBet {
	b := scriptedBet{id: id, action: act}
	if len(amount) == 1 {
		b.amount = amount[0]
	}

	return b
}

// recorder answers turns from a script on the goroutine running the hand
// When the script is exhausted the default action is taken.
type recorder struct {
	t        *testing.T
	game     *Game
	script   []scriptedBet
	silent   map[int64]bool
	messages []playable.Props
}

func (r *recorder) Emit(_ string, props playable.Props) {
	r.messages = append(r.messages, props)

	turn, ok := props.(*playable.PlayerTurnProps)
	if !ok || r.silent[turn.UserID] {
		return
	}

	if len(r.script) == 0 {
		assert.NoError(r.t, r.game.Bet(turn.UserID, turn.Options.Default(), 0))
		return
	}

	next := r.script[0]
	r.script = r.script[1:]
	assert.Equal(r.t, next.id, turn.UserID, "unexpected player on the clock")
	if err := r.game.Bet(turn.UserID, next.action, next.amount); err != nil {
		assert.NoError(r.t, err)
		assert.NoError(r.t, r.game.Bet(turn.UserID, turn.Options.Default(), 0))
	}
}

func (r *recorder) bets() []*playable.PlayerBetProps {
	bets := make([]*playable.PlayerBetProps, 0)
	for _, m := range r.messages {
		if b, ok := m.(*playable.PlayerBetProps); ok {
			bets = append(bets, b)
		}
	}

	return bets
}

func (r *recorder) turns() []*playable.PlayerTurnProps {
	turns := make([]*playable.PlayerTurnProps, 0)
	for _, m := range r.messages {
		if t, ok := m.(*playable.PlayerTurnProps); ok {
			turns = append(turns, t)
		}
	}

	return turns
}

func (r *recorder) msgTypes() []playable.MsgType {
	types := make([]playable.MsgType, len(r.messages))
	for i, m := range r.messages {
		types[i] = m.MsgType()
	}

	return types
}

func testOptions(modifiers ...Modifier) Options {
	opts := DefaultOptions()
	opts.BetTimeout = NoBetTimeout
	opts.RevealDelay = 0
	opts.Modifiers = modifiers
	return opts
}

// stackDeck orders the deck so the players get the hole cards and the boards come out as given
// holes are in turn order with the dealer first. Cards are dealt one at a time starting left of the dealer.
func stackDeck(kind deck.Kind, holes []string, boards ...string) *deck.Deck {
	n := len(holes)
	hole := make([]deck.Hand, n)
	for i, h := range holes {
		hole[i] = deck.CardsFromString(h)
	}

	top := make([]deck.Card, 0)
	for c := 0; c < len(hole[0]); c++ {
		for i := 1; i <= n; i++ {
			top = append(top, hole[i%n][c])
		}
	}

	cards := make([]deck.Hand, len(boards))
	for i, b := range boards {
		cards[i] = deck.CardsFromString(b)
	}

	offset := 0
	for _, count := range []int{3, 1, 1} {
		for _, board := range cards {
			top = append(top, board[offset:offset+count]...)
		}

		offset += count
	}

	return deck.NewStacked(kind, top...)
}

// playHand runs a hand to completion with a scripted recorder
func playHand(t *testing.T, users []*testUser, opts Options, d *deck.Deck, script ...scriptedBet) (*Result, *recorder) {
	t.Helper()

	rec := &recorder{t: t, script: script, silent: map[int64]bool{}}
	g, err := NewGame(logrus.StandardLogger(), asUsers(users), opts, WithDeck(d), WithEmitter(rec))
	require.NoError(t, err)
	rec.game = g

	result, err := g.Run(testContext(t))
	require.NoError(t, err)
	assert.Empty(t, rec.script, "unused script")

	return result, rec
}

func assertBalances(t *testing.T, users []*testUser, balances ...int) {
	t.Helper()

	actual := make([]int, len(users))
	for i, u := range users {
		actual[i] = u.balance
	}

	assert.Equal(t, balances, actual)
}

func hands(s ...string) []string {
	return s
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
