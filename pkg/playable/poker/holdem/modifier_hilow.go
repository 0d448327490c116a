package holdem

// HiLow splits every bank between the best high hand and the best qualifying low
type HiLow struct {
	BaseModifier
}

// Name returns the name of the modifier
func (h *HiLow) Name() string {
	return "hi-low"
}

// StartHand turns on low hand evaluation
func (h *HiLow) StartHand(_ *Game, plan *HandPlan) {
	plan.HiLow = true
}

// SplitPortions splits a portion 50/50 when anyone eligible holds a low on its board
func (h *HiLow) SplitPortions(g *Game, portions []Portion) []Portion {
	return splitHalves(g, portions, func(p Portion) (Portion, Portion, bool) {
		if p.Kind != PortionHigh || !g.anyLow(p.Group, p.Board) {
			return p, p, false
		}

		high, low := p, p
		low.Kind = PortionLow
		return high, low, true
	})
}
