package holdem

import "pokertable-server/pkg/playable/poker/action"

// AnteEscalation collects an ante that grows after every hand won without a showdown
type AnteEscalation struct {
	BaseModifier
	// Levels are multiples of the small blind
	Levels []int
	level  int
}

// NewAnteEscalation returns an ante escalation modifier
// The default levels are one through five small blinds.
func NewAnteEscalation(levels ...int) *AnteEscalation {
	if len(levels) == 0 {
		levels = []int{1, 2, 3, 4, 5}
	}

	return &AnteEscalation{Levels: levels}
}

// Name returns the name of the modifier
func (a *AnteEscalation) Name() string {
	return "ante-escalation"
}

// CurrentAnte returns the ante of the next hand
func (a *AnteEscalation) CurrentAnte(smallBlind int) int {
	return a.Levels[a.level] * smallBlind
}

// BeforePreflop collects the ante from every player
func (a *AnteEscalation) BeforePreflop(g *Game) {
	ante := a.CurrentAnte(g.options.SmallBlind)
	if ante <= 0 {
		return
	}

	for _, p := range g.players {
		g.postForced(p, action.Ante, ante, false)
	}
}

// EndHand moves to the next level, or back to the first after a showdown
func (a *AnteEscalation) EndHand(g *Game, result *Result) {
	if result.Showdown {
		a.level = 0
	} else if a.level < len(a.Levels)-1 {
		a.level++
	}

	g.logger.WithField("anteLevel", a.level).Debug("ante level updated")
}
