package handanalyzer

import (
	"fmt"
	"math/bits"

	"github.com/thoas/go-funk"
	"pokertable-server/pkg/deck"
)

// analysis holds the occupancy mask of a set of cards
// Every suit owns a 13-bit slice where bit (rank - 2) is set when the card is present.
type analysis struct {
	rules  Rules
	suits  [4]uint16
	counts [deck.Ace + 1]int
}

func newAnalysis(cards deck.Hand, rules Rules) *analysis {
	a := &analysis{rules: rules}
	for _, card := range cards {
		if !card.Valid() {
			panic(fmt.Sprintf("cannot evaluate card: %s", card))
		}

		a.suits[card.Suit()-1] |= rankBit(card.Rank())
	}

	for _, slice := range a.suits {
		for r := 2; r <= deck.Ace; r++ {
			if slice&rankBit(r) != 0 {
				a.counts[r]++
			}
		}
	}

	return a
}

func (a *analysis) size() int {
	n := 0
	for _, slice := range a.suits {
		n += bits.OnesCount16(slice)
	}

	return n
}

func (a *analysis) rankBits() uint16 {
	return a.suits[0] | a.suits[1] | a.suits[2] | a.suits[3]
}

// top returns up to n ranks, highest first, held at least minCount times
func (a *analysis) top(n, minCount int, exclude ...int) []int {
	ranks := make([]int, 0, n)
	for r := deck.Ace; r >= 2 && len(ranks) < n; r-- {
		if a.counts[r] < minCount || funk.ContainsInt(exclude, r) {
			continue
		}

		ranks = append(ranks, r)
	}

	return ranks
}

// take returns n cards of the rank, highest suit first
func (a *analysis) take(rank, n int) deck.Hand {
	cards := make(deck.Hand, 0, n)
	for s := deck.Spades; s >= deck.Clubs && len(cards) < n; s-- {
		if a.suits[s-1]&rankBit(rank) != 0 {
			cards = append(cards, deck.NewCard(rank, s))
		}
	}

	return cards
}

func (a *analysis) hand(category Category, ranks []int, cards deck.Hand) Hand {
	return Hand{
		Category: category,
		Ranks:    ranks,
		Cards:    cards,
		Strength: calculateStrength(a.rules.weight(category), ranks),
	}
}

func (a *analysis) straightFlush() (Hand, bool) {
	var best *straightRun
	var bestSuit deck.Suit
	for i, slice := range a.suits {
		if bits.OnesCount16(slice) < 5 {
			continue
		}

		if s, ok := findStraight(a.rules.Deck, slice); ok {
			if best == nil || s.ranks[0] > best.ranks[0] {
				best = &s
				bestSuit = deck.Suit(i + 1)
			}
		}
	}

	if best == nil {
		return Hand{}, false
	}

	cards := make(deck.Hand, 5)
	for i, r := range best.ranks {
		cards[i] = deck.NewCard(r, bestSuit)
	}

	return a.hand(StraightFlush, []int{best.ranks[0]}, cards), true
}

func (a *analysis) fourOfAKind() (Hand, bool) {
	quads := a.top(1, 4)
	if len(quads) == 0 {
		return Hand{}, false
	}

	kicker := a.top(1, 1, quads[0])
	cards := append(a.take(quads[0], 4), a.take(kicker[0], 1)...)
	return a.hand(FourOfAKind, append(quads, kicker...), cards), true
}

func (a *analysis) fullHouse() (Hand, bool) {
	trips := a.top(1, 3)
	if len(trips) == 0 {
		return Hand{}, false
	}

	pair := a.top(1, 2, trips[0])
	if len(pair) == 0 {
		return Hand{}, false
	}

	cards := append(a.take(trips[0], 3), a.take(pair[0], 2)...)
	return a.hand(FullHouse, []int{trips[0], pair[0]}, cards), true
}

func (a *analysis) flush() (Hand, bool) {
	var best []int
	var bestSuit deck.Suit
	for i, slice := range a.suits {
		if bits.OnesCount16(slice) < 5 {
			continue
		}

		ranks := make([]int, 0, 5)
		for r := deck.Ace; r >= 2 && len(ranks) < 5; r-- {
			if slice&rankBit(r) != 0 {
				ranks = append(ranks, r)
			}
		}

		if best == nil || compareRanks(ranks, best) > 0 {
			best = ranks
			bestSuit = deck.Suit(i + 1)
		}
	}

	if best == nil {
		return Hand{}, false
	}

	cards := make(deck.Hand, 5)
	for i, r := range best {
		cards[i] = deck.NewCard(r, bestSuit)
	}

	return a.hand(Flush, best, cards), true
}

func (a *analysis) straight() (Hand, bool) {
	s, ok := findStraight(a.rules.Deck, a.rankBits())
	if !ok {
		return Hand{}, false
	}

	cards := make(deck.Hand, 5)
	for i, r := range s.ranks {
		cards[i] = a.take(r, 1)[0]
	}

	return a.hand(Straight, []int{s.ranks[0]}, cards), true
}

func (a *analysis) threeOfAKind() (Hand, bool) {
	trips := a.top(1, 3)
	if len(trips) == 0 {
		return Hand{}, false
	}

	kickers := a.top(2, 1, trips[0])
	cards := a.take(trips[0], 3)
	for _, k := range kickers {
		cards = append(cards, a.take(k, 1)...)
	}

	return a.hand(ThreeOfAKind, append(trips, kickers...), cards), true
}

func (a *analysis) twoPair() (Hand, bool) {
	pairs := a.top(2, 2)
	if len(pairs) < 2 {
		return Hand{}, false
	}

	kicker := a.top(1, 1, pairs...)
	cards := append(a.take(pairs[0], 2), a.take(pairs[1], 2)...)
	cards = append(cards, a.take(kicker[0], 1)...)
	return a.hand(TwoPair, append(pairs, kicker...), cards), true
}

func (a *analysis) onePair() (Hand, bool) {
	pair := a.top(1, 2)
	if len(pair) == 0 {
		return Hand{}, false
	}

	kickers := a.top(3, 1, pair[0])
	cards := a.take(pair[0], 2)
	for _, k := range kickers {
		cards = append(cards, a.take(k, 1)...)
	}

	return a.hand(OnePair, append(pair, kickers...), cards), true
}

func (a *analysis) highCard() Hand {
	ranks := a.top(5, 1)
	cards := make(deck.Hand, 0, 5)
	for _, r := range ranks {
		cards = append(cards, a.take(r, 1)...)
	}

	return a.hand(HighCard, ranks, cards)
}

// Evaluate returns the best five-card hand in the cards
// Five to seven cards are expected. false is returned when fewer than five distinct cards are given.
func Evaluate(cards deck.Hand, rules Rules) (Hand, bool) {
	if len(cards) < 5 {
		return Hand{}, false
	}

	a := newAnalysis(cards, rules)
	if a.size() < 5 {
		return Hand{}, false
	}

	checks := []func() (Hand, bool){a.straightFlush, a.fourOfAKind, a.fullHouse, a.flush}
	if rules.FlushBeatsFullHouse {
		checks[2], checks[3] = checks[3], checks[2]
	}

	checks = append(checks, a.straight, a.threeOfAKind, a.twoPair, a.onePair)
	for _, check := range checks {
		if h, ok := check(); ok {
			return h, true
		}
	}

	return a.highCard(), true
}

// BestHand returns the best hand from any five of the hole and board cards
func BestHand(hole, board deck.Hand, rules Rules) (Hand, bool) {
	cards := make(deck.Hand, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)

	return Evaluate(cards, rules)
}

// BestOmahaHand returns the best hand using exactly two hole cards and three board cards
func BestOmahaHand(hole, board deck.Hand, rules Rules) (Hand, bool) {
	var best Hand
	found := false
	for _, h := range combinations(len(hole), 2) {
		for _, b := range combinations(len(board), 3) {
			cards := append(selectCards(hole, h), selectCards(board, b)...)
			hand, ok := Evaluate(cards, rules)
			if ok && (!found || hand.Compare(best) > 0) {
				best = hand
				found = true
			}
		}
	}

	return best, found
}

func compareRanks(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}

			return -1
		}
	}

	return 0
}
