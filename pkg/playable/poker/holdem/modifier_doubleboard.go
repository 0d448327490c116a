package holdem

// DoubleBoard deals two boards and splits every bank between them
type DoubleBoard struct {
	BaseModifier
}

// Name returns the name of the modifier
func (d *DoubleBoard) Name() string {
	return "double-board"
}

// StartHand asks for a second board
func (d *DoubleBoard) StartHand(_ *Game, plan *HandPlan) {
	plan.Boards = 2
}

// SplitPortions splits every portion 50/50 between the boards
func (d *DoubleBoard) SplitPortions(g *Game, portions []Portion) []Portion {
	return splitHalves(g, portions, func(p Portion) (Portion, Portion, bool) {
		first, second := p, p
		first.Board = 0
		second.Board = 1
		return first, second, true
	})
}
