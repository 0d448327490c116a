package holdem

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/action"
)

// firstToAct returns the index of the player who opens the round
func (g *Game) firstToAct() int {
	n := len(g.players)
	if g.round != Preflop || !g.plan.PostBlinds {
		return 1 % n
	}

	if n == 2 {
		return 0
	}

	return 3 % n
}

// othersWithOptions returns true if another player can still bet
func (g *Game) othersWithOptions(p *Player) bool {
	for _, other := range g.players {
		if other != p && other.hasOptions() {
			return true
		}
	}

	return false
}

// needsToAct returns true if the player still owes a decision this round
func (g *Game) needsToAct(p *Player) bool {
	if !p.hasOptions() {
		return false
	}

	return p.betAmount < g.level || (!p.acted && g.othersWithOptions(p))
}

func (g *Game) nextToAct(from int) *Player {
	for _, p := range g.rotation(from) {
		if g.needsToAct(p) {
			return p
		}
	}

	return nil
}

func (g *Game) bettingRound(ctx context.Context) error {
	next := g.firstToAct()
	for len(g.inGamePlayers()) > 1 {
		p := g.nextToAct(next)
		if p == nil {
			return nil
		}

		d, err := g.solicit(ctx, p)
		if err != nil {
			return err
		}

		g.handleBet(p, d.action, d.amount, d.timeout)
		next = (p.index + 1) % len(g.players)
	}

	return nil
}

// betOptions computes the legal actions of the player
func (g *Game) betOptions(p *Player) action.BetOptions {
	balance := p.Balance()
	callDelta := g.level - p.betAmount
	if callDelta < 0 {
		callDelta = 0
	}

	opts := action.BetOptions{
		Actions: []action.Action{action.Fold},
		Balance: balance,
	}

	if callDelta == 0 {
		opts.Actions = append(opts.Actions, action.Check)
	} else if callDelta < balance {
		opts.Actions = append(opts.Actions, action.Call)
		opts.Call = callDelta
	}

	// a player who acted and only faces an incomplete raise may not raise again
	if p.acted && callDelta > 0 {
		if balance <= callDelta {
			opts.Actions = append(opts.Actions, action.AllIn)
		}

		return opts
	}

	raiseMin := callDelta + g.minRaise()
	limit := balance
	if g.options.Subtype.PotLimit() {
		if potLimit := callDelta + g.pot() + callDelta; potLimit < limit {
			limit = potLimit
		}
	}

	if raiseMin < balance && raiseMin <= limit && g.othersWithOptions(p) {
		opts.Actions = append(opts.Actions, action.Raise)
		opts.RaiseMin = raiseMin
		opts.RaiseMax = limit
	}

	if balance <= limit || balance <= callDelta {
		opts.Actions = append(opts.Actions, action.AllIn)
	}

	return opts
}

// minRaise is the smallest increase over the bet level that reopens the action
func (g *Game) minRaise() int {
	if g.lastRaise < g.options.BigBlind {
		return g.options.BigBlind
	}

	return g.lastRaise
}

// solicit waits for the player's decision
func (g *Game) solicit(ctx context.Context, p *Player) (decision, error) {
	opts := g.betOptions(p)
	logger := g.logger.WithField("player", p.ID())

	if !p.user.IsConnected() {
		logger.Warn("player is disconnected, taking the default action")
		return decision{player: p, action: opts.Default(), timeout: true}, nil
	}

	var deadline time.Time
	var expired chan struct{}
	switch timeout := g.options.BetTimeout; {
	case timeout == 0:
		deadline = g.clock.Now()
		expired = make(chan struct{})
		close(expired)
	case timeout > 0:
		deadline = g.clock.Now().Add(timeout)
		expired = make(chan struct{})
		timer := g.clock.AfterFunc(timeout, func() { close(expired) })
		defer timer.Stop()
	}

	g.mu.Lock()
	g.pending = &solicitation{player: p, options: opts}
	g.mu.Unlock()

	logger.WithField("options", opts.Actions).Debug("waiting for decision")
	g.emit(&playable.PlayerTurnProps{UserID: p.ID(), Options: opts, Deadline: deadline})

	select {
	case d := <-g.decisions:
		return d, nil
	case <-expired:
		g.mu.Lock()
		if g.pending == nil {
			// the decision won the race with the timer
			g.mu.Unlock()
			return <-g.decisions, nil
		}

		g.pending = nil
		g.mu.Unlock()

		logger.Warn("player timed out, taking the default action")
		return decision{player: p, action: opts.Default(), timeout: true}, nil
	case <-ctx.Done():
		g.mu.Lock()
		g.pending = nil
		select {
		case <-g.decisions:
		default:
		}
		g.mu.Unlock()

		return decision{}, ctx.Err()
	}
}

// handleBet applies a validated decision
func (g *Game) handleBet(p *Player, act action.Action, amount int, timeout bool) {
	opts := g.betOptions(p)
	if !opts.Has(act) {
		panic(fmt.Sprintf("player %d cannot %s", p.ID(), act))
	}

	added := 0
	switch act {
	case action.Fold:
		p.folded = true
	case action.Check:
	case action.Call:
		added = p.commit(opts.Call, true)
	case action.Raise:
		if amount < opts.RaiseMin || amount > opts.RaiseMax {
			panic(fmt.Sprintf("raise of %d is out of range [%d, %d]", amount, opts.RaiseMin, opts.RaiseMax))
		}

		added = p.commit(amount, true)
	case action.AllIn:
		added = p.commit(p.Balance(), true)
	default:
		panic(fmt.Sprintf("unhandled action: %s", act))
	}

	p.acted = true
	p.betType = act

	if p.betAmount > g.level {
		raise := p.betAmount - g.level
		g.level = p.betAmount
		g.aggressor = p

		// a short all-in raises the level without reopening the action
		if raise >= g.minRaise() {
			g.lastRaise = raise
			for _, other := range g.players {
				if other != p {
					other.acted = false
				}
			}
		}
	}

	g.logger.WithFields(logrus.Fields{
		"player": p.ID(),
		"action": act,
		"amount": added,
		"level":  g.level,
	}).Debug(act.LogMessage(added))

	g.emitBet(p, act, added, timeout)
}
