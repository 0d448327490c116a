package room

import (
	"errors"
	"time"

	"pokertable-server/internal/config"
	"pokertable-server/pkg/playable/poker/holdem"
)

// Options configures a table
type Options struct {
	Name           string        `json:"name"`
	Seats          int           `json:"seats"`
	BuyIn          int           `json:"buyIn"`
	MinPlayers     int           `json:"minPlayers"`
	InterHandDelay time.Duration `json:"interHandDelay"`
	// Game is the template of every hand, its Modifiers are built from Modifiers
	Game      holdem.Options        `json:"-"`
	Modifiers holdem.ModifierConfig `json:"modifiers"`
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Name:           "Main",
		Seats:          9,
		BuyIn:          5000,
		MinPlayers:     2,
		InterHandDelay: 5 * time.Second,
		Game:           holdem.DefaultOptions(),
	}
}

// OptionsFromConfig returns the options of a table opened with the configured defaults
func OptionsFromConfig(name string, cfg config.Table) (Options, error) {
	subtype, err := holdem.SubtypeFromString(cfg.Subtype)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Name:           name,
		Seats:          cfg.Seats,
		BuyIn:          cfg.BuyIn,
		MinPlayers:     cfg.MinPlayers,
		InterHandDelay: cfg.InterHandDelay,
		Game: holdem.Options{
			Subtype:     subtype,
			SmallBlind:  cfg.SmallBlind,
			BigBlind:    cfg.BigBlind,
			Ante:        cfg.Ante,
			BetTimeout:  cfg.BetTimeout,
			RevealDelay: cfg.RevealDelay,
			ChipUnit:    cfg.ChipUnit,
		},
		Modifiers: holdem.ModifierConfig{
			AnteLevels:      cfg.Modifiers.AnteLevels,
			BombPotEvery:    cfg.Modifiers.BombPotEvery,
			BombPotMultiple: cfg.Modifiers.BombPotMultiple,
			DoubleBoard:     cfg.Modifiers.DoubleBoard,
			HiLow:           cfg.Modifiers.HiLow,
			SevenDeuce:      cfg.Modifiers.SevenDeuce,
		},
	}

	return opts, opts.Validate()
}

// Validate returns an error if a table cannot be run with the options
func (o Options) Validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}

	if o.Seats < 2 || o.Seats > 10 {
		return errors.New("seats must be between 2 and 10")
	}

	if o.MinPlayers < 2 || o.MinPlayers > o.Seats {
		return errors.New("min players must be between 2 and the number of seats")
	}

	if o.BuyIn < o.Game.BigBlind {
		return errors.New("buy-in must be at least the big blind")
	}

	if o.InterHandDelay < 0 {
		return errors.New("inter-hand delay must be >= 0")
	}

	if o.Modifiers.SevenDeuce < 0 || o.Modifiers.BombPotEvery < 0 {
		return errors.New("modifier amounts must be >= 0")
	}

	return o.Game.Validate()
}
