package holdem

import (
	"errors"
	"time"

	"github.com/coder/quartz"
	"pokertable-server/pkg/deck"
)

// NoBetTimeout makes the hand wait for every decision as long as it takes
// Any negative BetTimeout has the same effect.
const NoBetTimeout time.Duration = -1

// Options configures how a hand is played
type Options struct {
	Subtype    Subtype
	SmallBlind int
	BigBlind   int
	// Ante is collected from every player before the blinds
	Ante int
	// BetTimeout is how long a player has to decide
	// Zero takes the default action at once, see NoBetTimeout to wait forever.
	BetTimeout  time.Duration
	RevealDelay time.Duration
	// ChipUnit is the smallest chip; odd amounts are split in these units
	ChipUnit  int
	Modifiers []Modifier
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Subtype:     Holdem,
		SmallBlind:  25,
		BigBlind:    50,
		BetTimeout:  30 * time.Second,
		RevealDelay: time.Second,
		ChipUnit:    25,
	}
}

// Validate returns an error if the options cannot be played
func (opts Options) Validate() error {
	if _, err := SubtypeFromString(string(opts.Subtype)); err != nil {
		return err
	}

	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be >= small blind")
	}

	if opts.Ante < 0 {
		return errors.New("ante must be >= 0")
	}

	if opts.ChipUnit < 1 {
		return errors.New("chip unit must be >= 1")
	}

	if opts.SmallBlind%opts.ChipUnit > 0 || opts.BigBlind%opts.ChipUnit > 0 || opts.Ante%opts.ChipUnit > 0 {
		return errors.New("blinds and ante must be divisible by the chip unit")
	}

	if opts.RevealDelay < 0 {
		return errors.New("reveal delay must be >= 0")
	}

	return nil
}

// GameOption customizes a game
type GameOption func(g *Game)

// WithDeck deals the hand from the provided deck
func WithDeck(d *deck.Deck) GameOption {
	return func(g *Game) {
		g.deck = d
	}
}

// WithSeed shuffles the deck with the seed
func WithSeed(seed int64) GameOption {
	return func(g *Game) {
		g.seed = seed
	}
}

// WithClock sets the clock used for timeouts and delays
func WithClock(clock quartz.Clock) GameOption {
	return func(g *Game) {
		g.clock = clock
	}
}

// WithEmitter sets where the game sends its messages
func WithEmitter(emitter Emitter) GameOption {
	return func(g *Game) {
		g.emitter = emitter
	}
}

// WithGameID sets the id of the game
func WithGameID(id string) GameOption {
	return func(g *Game) {
		g.id = id
	}
}
