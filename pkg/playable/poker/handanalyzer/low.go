package handanalyzer

import (
	"sort"
	"strconv"
	"strings"

	"pokertable-server/pkg/deck"
)

// maxLowRank is the highest ace-low rank a qualifying low may hold
const maxLowRank = 8

// LowHand is an ace-to-five low that qualifies at eight or better
type LowHand struct {
	// Rank orders low hands, 1 is the best ("5-4-3-2-A")
	Rank  int       `json:"rank"`
	Name  string    `json:"name"`
	Cards deck.Hand `json:"cards"`
}

// Compare returns 1 if l is the better low, -1 if other is, and 0 on a tie
func (l *LowHand) Compare(other *LowHand) int {
	switch {
	case l.Rank < other.Rank:
		return 1
	case l.Rank > other.Rank:
		return -1
	default:
		return 0
	}
}

type lowSignature struct {
	rank int
	name string
}

// lowTable maps the ace-low rank bits (bit r-1) of a five card low to its rank
var lowTable = buildLowTable()

func buildLowTable() map[uint16]lowSignature {
	type signature struct {
		key   uint16
		ranks []int
	}

	signatures := make([]signature, 0, 56)
	for key := uint16(0); key < 1<<maxLowRank; key++ {
		ranks := make([]int, 0, 5)
		for r := maxLowRank; r >= 1; r-- {
			if key&(1<<uint(r-1)) != 0 {
				ranks = append(ranks, r)
			}
		}

		if len(ranks) == 5 {
			signatures = append(signatures, signature{key: key, ranks: ranks})
		}
	}

	sort.Slice(signatures, func(i, j int) bool {
		return compareRanks(signatures[i].ranks, signatures[j].ranks) < 0
	})

	table := make(map[uint16]lowSignature, len(signatures))
	for i, sig := range signatures {
		names := make([]string, len(sig.ranks))
		for j, r := range sig.ranks {
			if r == 1 {
				names[j] = "A"
			} else {
				names[j] = strconv.Itoa(r)
			}
		}

		table[sig.key] = lowSignature{rank: i + 1, name: strings.Join(names, "-")}
	}

	return table
}

// EvaluateLow returns the best qualifying low in the cards
func EvaluateLow(cards deck.Hand) (*LowHand, bool) {
	byRank := make(map[int]deck.Card)
	for _, card := range cards {
		r := card.AceLowRank()
		if !card.Valid() || r > maxLowRank {
			continue
		}

		if _, ok := byRank[r]; !ok {
			byRank[r] = card
		}
	}

	if len(byRank) < 5 {
		return nil, false
	}

	// the lowest five distinct ranks are always the best low
	picked := make([]int, 0, 5)
	for r := 1; r <= maxLowRank && len(picked) < 5; r++ {
		if _, ok := byRank[r]; ok {
			picked = append(picked, r)
		}
	}

	key := uint16(0)
	low := make(deck.Hand, 5)
	for i, r := range picked {
		key |= 1 << uint(r-1)
		low[4-i] = byRank[r]
	}

	sig := lowTable[key]
	return &LowHand{Rank: sig.rank, Name: sig.name, Cards: low}, true
}

// BestLowHand returns the best low from any five of the hole and board cards
func BestLowHand(hole, board deck.Hand) (*LowHand, bool) {
	cards := make(deck.Hand, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)

	return EvaluateLow(cards)
}

// BestOmahaLowHand returns the best low using exactly two hole cards and three board cards
func BestOmahaLowHand(hole, board deck.Hand) (*LowHand, bool) {
	var best *LowHand
	for _, h := range combinations(len(hole), 2) {
		for _, b := range combinations(len(board), 3) {
			cards := append(selectCards(hole, h), selectCards(board, b)...)
			if low, ok := EvaluateLow(cards); ok && (best == nil || low.Compare(best) > 0) {
				best = low
			}
		}
	}

	return best, best != nil
}
