package simulate

import (
	"fmt"
	"sort"

	"pokertable-server/internal/rng"
	"pokertable-server/pkg/playable/poker/action"
)

// Strategy picks a bot's action and the amount for a raise
type Strategy func(gen rng.Generator, opts action.BetOptions) (action.Action, int)

var strategies = map[string]Strategy{
	"call":       CallDown,
	"random":     Random,
	"aggressive": Aggressive,
}

// StrategyNames returns the names of the known strategies
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// StrategyFromString returns the strategy with the name
func StrategyFromString(name string) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}

	return s, nil
}

// CallDown never raises and never folds
func CallDown(_ rng.Generator, opts action.BetOptions) (action.Action, int) {
	switch {
	case opts.Has(action.Check):
		return action.Check, 0
	case opts.Has(action.Call):
		return action.Call, 0
	case opts.Has(action.AllIn):
		return action.AllIn, 0
	}

	return action.Fold, 0
}

// Random picks any legal action but never folds when it can check
func Random(gen rng.Generator, opts action.BetOptions) (action.Action, int) {
	act := opts.Actions[gen.Intn(len(opts.Actions))]
	switch act {
	case action.Fold:
		if opts.Has(action.Check) {
			return action.Check, 0
		}
	case action.Raise:
		return act, raiseAmount(gen, opts)
	}

	return act, 0
}

// Aggressive raises a third of the time and calls otherwise
func Aggressive(gen rng.Generator, opts action.BetOptions) (action.Action, int) {
	if opts.Has(action.Raise) && gen.Intn(3) == 0 {
		return action.Raise, raiseAmount(gen, opts)
	}

	return CallDown(gen, opts)
}

func raiseAmount(gen rng.Generator, opts action.BetOptions) int {
	return opts.RaiseMin + gen.Intn(opts.RaiseMax-opts.RaiseMin+1)
}
