package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/action"
	"pokertable-server/pkg/playable/poker/holdem"
)

func TestNewDealer(t *testing.T) {
	opts := testOptions()
	opts.Seats = 1
	_, err := NewDealer(testLogger(), "id", opts, nil, nil, nil)
	assert.EqualError(t, err, "seats must be between 2 and 10")

	opts = testOptions()
	opts.Game.SmallBlind = 0
	_, err = NewDealer(testLogger(), "id", opts, nil, nil, nil)
	assert.EqualError(t, err, "small blind must be > 0")
}

func TestDealer_JoinAndTakeSeat(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c1 := f.client(1)
	require.NoError(t, d.Join(cbg, c1, nil))
	info := nextMsg(t, c1, playable.TableInfo).Props.(*playable.TableInfoProps)
	a.Equal("Main", info.Name)
	a.Equal(9, info.Seats)
	a.Empty(info.Occupied)
	a.Empty(info.GameID)

	require.NoError(t, d.TakeSeat(cbg, 1, 3))
	seat := nextMsg(t, c1, playable.PlayerSeat).Props.(*playable.PlayerSeatProps)
	a.Equal(&playable.PlayerSeatProps{UserID: 1, Name: "user 1", Seat: 3, Balance: 1000, Connected: true}, seat)
	a.Equal(9000, f.bankroll(1))

	a.Equal(ErrAlreadySeated, d.TakeSeat(cbg, 1, 4))
	a.Equal(ErrNotJoined, d.TakeSeat(cbg, 5, 4))

	c2 := f.client(2)
	require.NoError(t, d.Join(cbg, c2, nil))
	a.Equal(ErrSeatTaken, d.TakeSeat(cbg, 2, 3))
	a.Equal(ErrInvalidSeat, d.TakeSeat(cbg, 2, 9))
	require.NoError(t, d.TakeSeat(cbg, 2, -1))

	c9 := f.client(9)
	wantSeat := 5
	a.Equal(ErrInsufficientBalance, d.Join(cbg, c9, &wantSeat))
	a.Equal(500, f.bankroll(9))

	seats := d.Seats()
	if a.Len(seats, 2) {
		a.Equal(0, seats[0].Seat)
		a.Equal(int64(2), seats[0].UserID)
		a.Equal(3, seats[1].Seat)
		a.Equal(int64(1), seats[1].UserID)
	}
}

func TestDealer_NoFreeSeat(t *testing.T) {
	opts := testOptions()
	opts.Seats = 2
	f := newFixture(t, opts)

	f.seat(t, 1, -1)
	f.seat(t, 2, -1)

	c := f.client(3)
	seat := -1
	assert.Equal(t, ErrNoFreeSeat, f.dealer.Join(cbg, c, &seat))
	assert.Equal(t, 10000, f.bankroll(3))
}

func TestDealer_HandleCommand(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	c := f.client(1)

	c.ReceivedMessage(cbg, []byte(`{"cmdId":"c1","cmdType":"TAKE_SEAT","props":{"seat":0}}`))
	env := nextMsg(t, c, playable.Error)
	a.Equal("c1", env.CmdID)
	a.Equal(CodeNotJoined, env.Props.(*playable.ErrorProps).Code)

	c.ReceivedMessage(cbg, []byte(`{"cmdId":"c2","cmdType":"JOIN","props":{"seat":4}}`))
	env = nextMsg(t, c, playable.TableInfo)
	a.Equal("c2", env.CmdID)
	a.Equal(c.ID, env.ClientID)
	env = nextMsg(t, c, playable.PlayerSeat)
	a.Equal("c2", env.CmdID)
	a.Equal(4, env.Props.(*playable.PlayerSeatProps).Seat)

	tests := []struct {
		name string
		data string
		code string
	}{
		{"no game", `{"cmdType":"BET","props":{"action":"check"}}`, CodeNoGame},
		{"bad rebuy", `{"cmdType":"REBUY","props":{"amount":0}}`, CodeInvalidAmount},
		{"seated twice", `{"cmdType":"TAKE_SEAT","props":{"seat":1}}`, CodeAlreadySeated},
		{"unknown command", `{"cmdType":"DANCE"}`, CodeBadCommand},
		{"malformed", `{`, CodeBadCommand},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c.ReceivedMessage(cbg, []byte(test.data))
			env := nextMsg(t, c, playable.Error)
			assert.Equal(t, test.code, env.Props.(*playable.ErrorProps).Code)
		})
	}

	c.ReceivedMessage(cbg, []byte(`{"cmdId":"c3","cmdType":"EXIT"}`))
	env = nextMsg(t, c, playable.PlayerExit)
	a.Equal("c3", env.CmdID)
	a.Equal(&playable.PlayerExitProps{UserID: 1, Seat: 4, CashOut: 1000}, env.Props)
	a.Equal(10000, f.bankroll(1))
}

func TestDealer_ExitAndRebuy(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer
	c := f.seat(t, 1, 0)

	a.Equal(ErrInvalidAmount, d.Rebuy(cbg, 1, -5))
	require.NoError(t, d.Rebuy(cbg, 1, 500))
	a.Equal(8500, f.bankroll(1))
	a.Equal(1500, d.Seats()[0].Balance)

	require.NoError(t, d.Exit(cbg, 1))
	exit := nextMsg(t, c, playable.PlayerExit).Props.(*playable.PlayerExitProps)
	a.Equal(1500, exit.CashOut)
	a.Equal(10000, f.bankroll(1))
	a.Empty(d.Seats())

	a.Equal(ErrNotSeated, d.Exit(cbg, 1))
	a.Equal(ErrNotSeated, d.Rebuy(cbg, 1, 100))
	a.Equal(ErrNotJoined, d.Exit(cbg, 2))
}

func TestDealer_Disconnect(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	observer := f.client(2)
	require.NoError(t, d.Join(cbg, observer, nil))

	c1 := f.seat(t, 1, 0)
	c1b := f.client(1)
	require.NoError(t, d.Join(cbg, c1b, nil))
	drain(observer)

	d.Disconnect(c1)
	a.True(d.Seats()[0].Connected, "the user still has a client")

	d.Disconnect(c1b)
	seat := nextMsg(t, observer, playable.PlayerSeat).Props.(*playable.PlayerSeatProps)
	a.False(seat.Connected)
	a.Len(d.Seats(), 1, "a seated user stays seated")

	// disconnecting twice is harmless
	d.Disconnect(c1b)

	c3 := f.client(3)
	require.NoError(t, d.Join(cbg, c3, nil))
	d.Disconnect(c3)
	exit := nextMsg(t, observer, playable.PlayerExit).Props.(*playable.PlayerExitProps)
	a.Equal(&playable.PlayerExitProps{UserID: 3, Seat: unseated}, exit)
}

func TestDealer_PlaysHands(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c := f.seat(t, 1, 2)
	f.seat(t, 2, 5)
	d.StartShift(cbg)

	dealers := make([]int64, 0, 3)
	for i := 0; i < 3; i++ {
		begin := nextMsg(t, c, playable.GameBegin).Props.(*playable.GameBeginProps)
		if a.Len(begin.Players, 2) {
			a.True(holdem.Role(begin.Players[0].Role).Has(holdem.RoleDealer))
			dealers = append(dealers, begin.Players[0].UserID)
		}

		end := playUntil(t, d, c, playable.GameEnd, fold).Props.(*playable.GameEndProps)
		a.False(end.Aborted)
		a.Equal(2000, end.Balances[1]+end.Balances[2])
	}

	a.Equal([]int64{1, 2, 1}, dealers, "the button moves every hand")

	require.NoError(t, d.EndShift(cbg))
	a.Equal(20000, f.bankroll(1)+f.bankroll(2))

	games := f.store.Games(d.ID())
	require.True(t, len(games) >= 3)
	for _, g := range games[:3] {
		a.False(g.Ended.IsZero())
		a.Equal(0, g.Deltas[1]+g.Deltas[2])
		a.Equal(25, abs(g.Deltas[1]), "the small blind folds")
	}

	tbl, err := f.store.GetTable(cbg, d.ID())
	require.NoError(t, err)
	a.False(tbl.Closed.IsZero())

	msgs, err := f.store.Messages(cbg, d.ID(), 0, 1000)
	require.NoError(t, err)
	a.NotEmpty(msgs)
	a.Equal(string(playable.TableClosed), msgs[len(msgs)-1].MsgType)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

func TestDealer_WaitsForPlayers(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c := f.seat(t, 1, 0)
	d.StartShift(cbg)
	a.Empty(f.store.Games(d.ID()))

	f.seat(t, 2, 1)
	nextMsg(t, c, playable.GameBegin)
}

func TestDealer_ExitDuringHand(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c := f.seat(t, 1, 0)
	f.seat(t, 2, 1)
	d.StartShift(cbg)

	turn := nextMsg(t, c, playable.PlayerTurn).Props.(*playable.PlayerTurnProps)
	a.Equal(int64(1), turn.UserID, "the button acts first heads-up")
	require.NoError(t, d.Exit(cbg, 1))

	bet := nextMsg(t, c, playable.PlayerBet).Props.(*playable.PlayerBetProps)
	a.Equal(int64(1), bet.UserID)
	a.Equal(action.Fold, bet.Action)

	exit := nextMsg(t, c, playable.PlayerExit).Props.(*playable.PlayerExitProps)
	a.Equal(int64(1), exit.UserID)
	a.Equal(975, exit.CashOut, "the small blind is lost")
	a.Equal(9975, f.bankroll(1))

	seats := d.Seats()
	if a.Len(seats, 1) {
		a.Equal(1025, seats[0].Balance)
	}
}

func TestDealer_RebuyDuringHand(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c := f.seat(t, 1, 0)
	f.seat(t, 2, 1)
	d.StartShift(cbg)

	turn := nextMsg(t, c, playable.PlayerTurn).Props.(*playable.PlayerTurnProps)
	require.NoError(t, d.Rebuy(cbg, 1, 500))
	a.Equal(8500, f.bankroll(1), "the ledger is charged right away")
	require.NoError(t, d.Bet(turn.UserID, action.Fold, 0))

	end := playUntil(t, d, c, playable.GameEnd, fold).Props.(*playable.GameEndProps)
	afterHand := end.Balances[1]

	for {
		seat := nextMsg(t, c, playable.PlayerSeat).Props.(*playable.PlayerSeatProps)
		if seat.UserID == 1 {
			a.Equal(afterHand+500, seat.Balance)
			break
		}
	}
}

func TestDealer_DisconnectedPlayerAutoActs(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c1 := f.seat(t, 1, 0)
	c2 := f.seat(t, 2, 1)
	d.Disconnect(c1)
	d.StartShift(cbg)

	// the button is first to act and folds for the disconnected user
	for {
		bet := playUntil(t, d, c2, playable.PlayerBet, callDown).Props.(*playable.PlayerBetProps)
		if !bet.Timeout {
			continue
		}

		a.Equal(int64(1), bet.UserID)
		a.Equal(action.Fold, bet.Action)
		break
	}

	end := nextMsg(t, c2, playable.GameEnd).Props.(*playable.GameEndProps)
	a.Equal(975, end.Balances[1])
}

func TestDealer_BrokePlayerIsRemoved(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c := f.seat(t, 1, 0)
	f.seat(t, 2, 1)
	d.StartShift(cbg)

	exit := playUntil(t, d, c, playable.PlayerExit, shove).Props.(*playable.PlayerExitProps)
	a.Equal(0, exit.CashOut)

	seats := d.Seats()
	if a.Len(seats, 1) {
		a.NotEqual(exit.UserID, seats[0].UserID)
		a.Equal(2000, seats[0].Balance)
	}
}

func TestDealer_JoinReplaysHand(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c := f.seat(t, 1, 0)
	f.seat(t, 2, 1)
	d.StartShift(cbg)
	nextMsg(t, c, playable.PlayerTurn)

	late := f.client(3)
	require.NoError(t, d.Join(cbg, late, nil))

	info := nextMsg(t, late, playable.TableInfo).Props.(*playable.TableInfoProps)
	a.NotEmpty(info.GameID)
	a.Len(info.Occupied, 2)

	nextMsg(t, late, playable.GameBegin)
	cards := nextMsg(t, late, playable.PlayerCards).Props.(*playable.PlayerCardsProps)
	a.Equal("??,??", cards.Cards.String())
	nextMsg(t, late, playable.PlayerTurn)
}

func TestDealer_EndShiftRefundsRunningHand(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, testOptions())
	d := f.dealer

	c := f.seat(t, 1, 0)
	f.seat(t, 2, 1)
	d.StartShift(cbg)
	nextMsg(t, c, playable.PlayerTurn)

	require.NoError(t, d.EndShift(cbg))

	end := nextMsg(t, c, playable.GameEnd).Props.(*playable.GameEndProps)
	a.True(end.Aborted)
	nextMsg(t, c, playable.TableClosed)

	a.Equal(10000, f.bankroll(1))
	a.Equal(10000, f.bankroll(2))
	a.Empty(d.Seats())

	a.Equal(ErrTableClosed, d.Join(cbg, f.client(3), nil))
	a.NoError(d.EndShift(cbg), "ending twice is a no-op")

	games := f.store.Games(d.ID())
	if a.Len(games, 1) {
		a.Equal(map[int64]int{1: 0, 2: 0}, games[0].Deltas)
	}
}

func TestNewErrorProps(t *testing.T) {
	tests := []struct {
		err  error
		code string
		msg  string
	}{
		{ErrSeatTaken, CodeSeatTaken, "seat is taken"},
		{holdem.ErrWrongPlayer, CodeWrongPlayer, "wrong current player"},
		{holdem.ErrAmountOutOfRange, CodeAmountOutOfRange, "amount is out of range"},
		{playable.UserError("unknown command type: X"), CodeBadCommand, "unknown command type: X"},
		{assert.AnError, CodeInternal, "internal error"},
	}

	for _, test := range tests {
		props := newErrorProps(test.err)
		assert.Equal(t, test.code, props.Code)
		assert.Equal(t, test.msg, props.Message)
	}
}

func TestUser(t *testing.T) {
	a := assert.New(t)
	u := newUser(1, "name")
	a.False(u.IsConnected())

	u.connect(1)
	a.True(u.IsConnected())

	u.setExiting(true)
	a.False(u.IsConnected())

	u.AdjustBalance(100)
	u.addPending(50)
	a.True(u.applyPending())
	a.False(u.applyPending())
	a.Equal(150, u.Balance())

	u.addPending(10)
	a.Equal(160, u.takeAll())
	a.Equal(0, u.Balance())
	a.False(u.hasPending())
}
