package holdem

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pokertable-server/pkg/playable/poker/action"
)

// setupBlinds returns a game with the blinds posted and no cards dealt
func setupBlinds(t *testing.T, opts Options, balances ...int) *Game {
	t.Helper()

	g, err := NewGame(logrus.StandardLogger(), asUsers(setupUsers(balances...)), opts, WithSeed(1))
	require.NoError(t, err)

	g.plan = HandPlan{Boards: 1, PostBlinds: true}
	g.assignRoles()
	g.postBlinds()

	return g
}

func TestGame_firstToAct(t *testing.T) {
	a := assert.New(t)

	for n, want := range map[int]int{2: 0, 3: 0, 4: 3, 6: 3} {
		balances := make([]int, n)
		for i := range balances {
			balances[i] = 1000
		}

		g := setupBlinds(t, testOptions(), balances...)
		a.Equal(want, g.firstToAct(), "%d players preflop", n)

		g.round = Flop
		a.Equal(1, g.firstToAct(), "%d players postflop", n)

		g.round = Preflop
		g.plan.PostBlinds = false
		a.Equal(1, g.firstToAct(), "%d players bomb pot", n)
	}
}

func TestGame_betOptions(t *testing.T) {
	a := assert.New(t)

	g := setupBlinds(t, testOptions(), 1000, 1000, 1000)
	a.Equal(50, g.level)

	dealer, sb, bb := g.players[0], g.players[1], g.players[2]
	a.True(sb.Role().Has(RoleSmallBlind))
	a.True(bb.Role().Has(RoleBigBlind))
	a.Equal(action.SmallBlind, sb.betType)

	opts := g.betOptions(dealer)
	a.Equal(action.BetOptions{
		Actions:  []action.Action{action.Fold, action.Call, action.Raise, action.AllIn},
		Call:     50,
		RaiseMin: 100,
		RaiseMax: 1000,
		Balance:  1000,
	}, opts)
	a.Equal(action.Fold, opts.Default())

	opts = g.betOptions(bb)
	a.Equal([]action.Action{action.Fold, action.Check, action.Raise, action.AllIn}, opts.Actions)
	a.Equal(action.Check, opts.Default())
	a.Equal(50, opts.RaiseMin)

	// a raise sets the minimum re-raise
	g.handleBet(dealer, action.Raise, 200, false)
	a.Equal(200, g.level)
	a.Equal(150, g.lastRaise)
	a.Same(dealer, g.aggressor)

	opts = g.betOptions(sb)
	a.Equal(175, opts.Call)
	a.Equal(175+150, opts.RaiseMin)
	a.Equal(975, opts.RaiseMax)

	// the big blind gets to act again
	bb.acted = true
	g.handleBet(sb, action.Raise, 475, false)
	a.False(bb.acted)
	a.False(dealer.acted)
	a.True(g.needsToAct(bb))
}

func TestGame_betOptions_exactStack(t *testing.T) {
	a := assert.New(t)

	g := setupBlinds(t, testOptions(), 1000, 1000, 1000)
	g.handleBet(g.players[0], action.Raise, 1000-50, false)
	a.Equal(950, g.level)

	// the small blind has exactly the call left
	sb := g.players[1]
	sb.user.AdjustBalance(-(sb.Balance() - 925))
	opts := g.betOptions(sb)
	a.Equal([]action.Action{action.Fold, action.AllIn}, opts.Actions)
	a.Equal(0, opts.RaiseMin)
	a.Equal(0, opts.Call)

	// one chip more and the call is back
	sb.user.AdjustBalance(1)
	opts = g.betOptions(sb)
	a.Equal([]action.Action{action.Fold, action.Call, action.AllIn}, opts.Actions)
}

func TestGame_betOptions_noRaiseWithoutOpponents(t *testing.T) {
	a := assert.New(t)

	g := setupBlinds(t, testOptions(), 300, 1000)
	dealer, bb := g.players[0], g.players[1]

	g.handleBet(dealer, action.AllIn, 0, false)
	a.True(dealer.AllIn())
	a.Equal(300, g.level)

	opts := g.betOptions(bb)
	a.False(opts.Has(action.Raise))
	a.True(opts.Has(action.Call))
	a.Equal(250, opts.Call)

	g.handleBet(bb, action.Call, 0, false)
	a.Nil(g.nextToAct(0))
}

func TestGame_betOptions_shortAllIn(t *testing.T) {
	t.Run("incomplete raise", func(t *testing.T) {
		a := assert.New(t)

		g := setupBlinds(t, testOptions(), 1000, 230, 1000)
		dealer, sb, bb := g.players[0], g.players[1], g.players[2]

		g.handleBet(dealer, action.Raise, 200, false)
		g.handleBet(sb, action.AllIn, 0, false)
		a.Equal(230, g.level)
		a.Equal(150, g.lastRaise)
		a.True(dealer.acted)

		// the big blind has not acted yet and may still raise
		opts := g.betOptions(bb)
		a.Equal([]action.Action{action.Fold, action.Call, action.Raise, action.AllIn}, opts.Actions)
		a.Equal(180+150, opts.RaiseMin)
		g.handleBet(bb, action.Call, 0, false)

		// the raiser may only call the difference
		a.True(g.needsToAct(dealer))
		opts = g.betOptions(dealer)
		a.Equal([]action.Action{action.Fold, action.Call}, opts.Actions)
		a.Equal(30, opts.Call)
		a.Zero(opts.RaiseMin)

		g.handleBet(dealer, action.Call, 0, false)
		a.Nil(g.nextToAct(0))
	})

	t.Run("full raise", func(t *testing.T) {
		a := assert.New(t)

		g := setupBlinds(t, testOptions(), 1000, 500, 1000)
		dealer, sb := g.players[0], g.players[1]

		g.handleBet(dealer, action.Raise, 200, false)
		g.handleBet(sb, action.AllIn, 0, false)
		a.Equal(500, g.level)
		a.Equal(300, g.lastRaise)
		a.False(dealer.acted)

		opts := g.betOptions(dealer)
		a.True(opts.Has(action.Raise))
		a.Equal(300+300, opts.RaiseMin)
	})
}

func TestGame_betOptions_potLimit(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.Subtype = Omaha
	g := setupBlinds(t, opts, 1000, 1000)

	// call 25 into 75, then the pot of 100 on top
	betOpts := g.betOptions(g.players[0])
	a.Equal([]action.Action{action.Fold, action.Call, action.Raise}, betOpts.Actions)
	a.Equal(75, betOpts.RaiseMin)
	a.Equal(125, betOpts.RaiseMax)

	// short stacks may shove within the pot
	g = setupBlinds(t, opts, 100, 1000)
	betOpts = g.betOptions(g.players[0])
	a.Equal([]action.Action{action.Fold, action.Call, action.AllIn}, betOpts.Actions)
}

func TestGame_handleBet_panics(t *testing.T) {
	g := setupBlinds(t, testOptions(), 1000, 1000, 1000)

	assert.Panics(t, func() {
		g.handleBet(g.players[0], action.Check, 0, false)
	})

	assert.Panics(t, func() {
		g.handleBet(g.players[0], action.Raise, 10, false)
	})

	assert.Panics(t, func() {
		g.handleBet(g.players[0], action.Ante, 10, false)
	})
}

func TestPlayer_commit(t *testing.T) {
	a := assert.New(t)

	p := newPlayer(&testUser{id: 1, balance: 100}, 0)
	a.Equal(40, p.commit(40, true))
	a.Equal(40, p.BetAmount())
	a.Equal(40, p.BetTotal())
	a.Equal(60, p.Balance())

	a.Equal(20, p.commit(20, false))
	a.Equal(40, p.BetAmount())
	a.Equal(60, p.BetTotal())
	a.False(p.AllIn())

	a.Equal(40, p.commit(500, true))
	a.True(p.AllIn())
	a.Equal(0, p.Balance())
	a.Equal(100, p.BetTotal())

	a.Panics(func() { p.commit(-1, true) })

	p.newRound()
	a.Equal(0, p.BetAmount())
	a.True(p.AllIn())
}
