package holdem

import "pokertable-server/pkg/playable/poker/potmanager"

// HandPlan is what the modifiers decided before the hand starts
type HandPlan struct {
	Boards             int
	PostBlinds         bool
	SkipPreflopBetting bool
	HiLow              bool
}

// PortionKind says which hand wins a portion
type PortionKind string

// portion kinds
const (
	PortionHigh  PortionKind = "high"
	PortionLow   PortionKind = "low"
	PortionBonus PortionKind = "bonus"
)

// Portion is a part of a bank awarded on its own
type Portion struct {
	Bank   int
	Board  int
	Kind   PortionKind
	Amount int
	Group  []int64
}

// Modifier alters how a hand is played
// The game calls every hook of every modifier in order. State kept in the modifier value survives
// between hands as long as the table reuses the same value.
type Modifier interface {
	Name() string
	// StartHand is called before any chips move
	StartHand(g *Game, plan *HandPlan)
	// BeforePreflop is called before the blinds are posted
	BeforePreflop(g *Game)
	// SplitPortions divides the portions of a bank at showdown
	SplitPortions(g *Game, portions []Portion) []Portion
	// AfterShowdown is called once the banks are paid, only after a showdown
	AfterShowdown(g *Game, result *Result)
	// EndHand is called when the hand is over
	EndHand(g *Game, result *Result)
}

// BaseModifier implements every hook as a no-op
type BaseModifier struct{}

// StartHand is a no-op
func (BaseModifier) StartHand(*Game, *HandPlan) {}

// BeforePreflop is a no-op
func (BaseModifier) BeforePreflop(*Game) {}

// SplitPortions returns the portions unchanged
func (BaseModifier) SplitPortions(_ *Game, portions []Portion) []Portion {
	return portions
}

// AfterShowdown is a no-op
func (BaseModifier) AfterShowdown(*Game, *Result) {}

// EndHand is a no-op
func (BaseModifier) EndHand(*Game, *Result) {}

// ModifierConfig selects the modifiers of a table
type ModifierConfig struct {
	// AnteLevels are multiples of the small blind, empty disables ante escalation
	AnteLevels      []int
	BombPotEvery    int
	BombPotMultiple int
	DoubleBoard     bool
	HiLow           bool
	// SevenDeuce is the bonus each player pays, zero disables it
	SevenDeuce int
}

// NewModifiers returns the configured modifiers in the order they must run
func NewModifiers(cfg ModifierConfig) []Modifier {
	modifiers := make([]Modifier, 0, 5)
	if len(cfg.AnteLevels) > 0 {
		modifiers = append(modifiers, NewAnteEscalation(cfg.AnteLevels...))
	}

	if cfg.BombPotEvery > 0 {
		modifiers = append(modifiers, NewBombPot(cfg.BombPotEvery, cfg.BombPotMultiple))
	}

	if cfg.DoubleBoard {
		modifiers = append(modifiers, &DoubleBoard{})
	}

	if cfg.HiLow {
		modifiers = append(modifiers, &HiLow{})
	}

	if cfg.SevenDeuce > 0 {
		modifiers = append(modifiers, &SevenDeuce{Amount: cfg.SevenDeuce})
	}

	return modifiers
}

// ModifierNames returns the names of the modifiers
func ModifierNames(modifiers []Modifier) []string {
	names := make([]string, len(modifiers))
	for i, m := range modifiers {
		names[i] = m.Name()
	}

	return names
}

// splitHalves divides every portion in two, the odd unit going to the first half
func splitHalves(g *Game, portions []Portion, split func(p Portion) (Portion, Portion, bool)) []Portion {
	result := make([]Portion, 0, len(portions)*2)
	for _, p := range portions {
		first, second, ok := split(p)
		if !ok {
			result = append(result, p)
			continue
		}

		shares := potmanager.Split(p.Amount, 2, g.options.ChipUnit)
		first.Amount = shares[0]
		second.Amount = shares[1]
		result = append(result, first, second)
	}

	return result
}
