package holdem

import "pokertable-server/pkg/playable/poker/action"

// BombPot makes every n-th hand a bomb pot
// Everyone posts a multiple of the big blind, no blinds are posted and the flop comes without preflop betting.
type BombPot struct {
	BaseModifier
	Every    int
	Multiple int
	hands    int
	active   bool
}

// NewBombPot returns a bomb pot modifier
func NewBombPot(every, multiple int) *BombPot {
	if multiple < 1 {
		multiple = 1
	}

	return &BombPot{Every: every, Multiple: multiple}
}

// Name returns the name of the modifier
func (b *BombPot) Name() string {
	return "bomb-pot"
}

// Active returns true if the current hand is a bomb pot
func (b *BombPot) Active() bool {
	return b.active
}

// StartHand counts the hand and turns on the bomb pot when it is due
func (b *BombPot) StartHand(g *Game, plan *HandPlan) {
	b.hands++
	b.active = b.Every > 0 && b.hands%b.Every == 0
	if !b.active {
		return
	}

	plan.PostBlinds = false
	plan.SkipPreflopBetting = true
	g.logger.Info("bomb pot")
}

// BeforePreflop collects the bomb pot from every player
func (b *BombPot) BeforePreflop(g *Game) {
	if !b.active {
		return
	}

	for _, p := range g.players {
		g.postForced(p, action.BombPot, b.Multiple*g.options.BigBlind, false)
	}
}
