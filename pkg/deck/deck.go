package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"pokertable-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Kind is the composition of a deck
type Kind int

// deck kinds
const (
	// Standard is the 52-card deck
	Standard Kind = iota
	// Short is the 36-card deck, six through ace
	Short
)

// MinRank returns the lowest rank in the deck
func (k Kind) MinRank() int {
	if k == Short {
		return 6
	}

	return 2
}

// Size returns the number of cards in a full deck
func (k Kind) Size() int {
	return (Ace - k.MinRank() + 1) * 4
}

// Deck represents a playing deck
type Deck struct {
	Cards []Card `json:"cards"`
	kind  Kind
	seed  int64
	rng   rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New(kind Kind) *Deck {
	d := &Deck{
		kind: kind,
		seed: -1,
	}

	d.buildDeck()
	return d
}

// NewStacked returns an unshuffled deck where the provided cards are drawn first
// in the order given, followed by the rest of the deck in code order
func NewStacked(kind Kind, top ...Card) *Deck {
	d := New(kind)
	cards := make([]Card, 0, len(d.Cards))
	cards = append(cards, top...)

	for _, card := range d.Cards {
		if !Hand(top).HasCard(card) {
			cards = append(cards, card)
		}
	}

	d.Cards = cards
	return d
}

// SetSeed will set the seed
// This should only be used by tests. Setting the seed is normally handled when you call Shuffle()
func (d *Deck) SetSeed(seed int64) {
	d.seed = seed
	d.rng = rng.Seeded(seed)
}

func (d *Deck) buildDeck() {
	cards := make([]Card, 0, d.kind.Size())
	for _, suit := range Suits {
		for rank := d.kind.MinRank(); rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}

	d.Cards = cards
}

// Shuffle will shuffle the deck of cards
// A seed of zero picks a random seed
func (d *Deck) Shuffle(seed int64) {
	if seed < 0 {
		panic("seed cannot be < 0")
	}

	// we always want to shuffle from an unshuffled deck
	d.buildDeck()

	if seed == 0 {
		seed = rng.Seed()
	}

	d.SetSeed(seed)

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Kind returns the kind of deck
func (d *Deck) Kind() Kind {
	return d.kind
}

// GetSeed returns the seed used to shuffle the deck
func (d *Deck) GetSeed() int64 {
	return d.seed
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a face-down card.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) <= 0 {
		return FaceDown, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
