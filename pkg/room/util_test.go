package room

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/action"
	"pokertable-server/pkg/playable/poker/holdem"
	"pokertable-server/pkg/table"
)

var cbg = context.Background()

const msgTimeout = 5 * time.Second

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.BuyIn = 1000
	opts.InterHandDelay = 0
	opts.Game.BetTimeout = holdem.NoBetTimeout
	opts.Game.RevealDelay = 0
	return opts
}

type fixture struct {
	dealer *Dealer
	store  *table.MemoryStore
	ledger *table.MemoryLedger
}

// newFixture returns a dealer whose users 1..4 have a bankroll of 10000, user 9 has 500
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	store := table.NewMemoryStore()
	ledger := table.NewMemoryLedger(map[int64]int{1: 10000, 2: 10000, 3: 10000, 4: 10000, 9: 500})
	d, err := NewDealer(testLogger(), uuid.New().String(), opts, store, ledger, quartz.NewReal())
	require.NoError(t, err)
	require.NoError(t, store.CreateTable(cbg, d.ID(), opts.Name, opts))

	t.Cleanup(func() {
		_ = d.EndShift(cbg)
	})

	return &fixture{dealer: d, store: store, ledger: ledger}
}

func (f *fixture) client(userID int64) *Client {
	return NewClient(nil, userID, fmt.Sprintf("user %d", userID), f.dealer)
}

// seat joins a new client for the user and seats it
func (f *fixture) seat(t *testing.T, userID int64, seat int) *Client {
	t.Helper()

	c := f.client(userID)
	require.NoError(t, f.dealer.Join(cbg, c, &seat))
	return c
}

func (f *fixture) bankroll(userID int64) int {
	return bankroll(f.ledger, userID)
}

// nextMsg reads messages of the client until one of the type arrives
func nextMsg(t *testing.T, c *Client, msgType playable.MsgType) *playable.Envelope {
	t.Helper()

	timeout := time.After(msgTimeout)
	for {
		select {
		case env := <-c.SendChan():
			if env.MsgType == msgType {
				return env
			}
		case <-timeout:
			require.FailNow(t, "timed out", "waiting for %s", msgType)
			return nil
		}
	}
}

// drain discards the pending messages of the client
func drain(c *Client) {
	for {
		select {
		case <-c.SendChan():
		default:
			return
		}
	}
}

// playUntil answers every turn seen by the client until a message of the type arrives
func playUntil(t *testing.T, d *Dealer, c *Client, msgType playable.MsgType, choose func(*playable.PlayerTurnProps) action.Action) *playable.Envelope {
	t.Helper()

	timeout := time.After(msgTimeout)
	for {
		select {
		case env := <-c.SendChan():
			if env.MsgType == msgType {
				return env
			}

			if turn, ok := env.Props.(*playable.PlayerTurnProps); ok {
				act := choose(turn)
				require.NoError(t, d.Bet(turn.UserID, act, turn.Options.RaiseMin))
			}
		case <-timeout:
			require.FailNow(t, "timed out", "waiting for %s", msgType)
			return nil
		}
	}
}

func fold(*playable.PlayerTurnProps) action.Action {
	return action.Fold
}

func callDown(turn *playable.PlayerTurnProps) action.Action {
	switch {
	case turn.Options.Has(action.Check):
		return action.Check
	case turn.Options.Has(action.Call):
		return action.Call
	}

	return action.AllIn
}

func shove(turn *playable.PlayerTurnProps) action.Action {
	if turn.Options.Has(action.AllIn) {
		return action.AllIn
	}

	return callDown(turn)
}
