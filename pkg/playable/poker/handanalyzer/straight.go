package handanalyzer

import "pokertable-server/pkg/deck"

// straightRun is one entry of a straight table
type straightRun struct {
	bits uint16
	// ranks from high to low, the ace last when it plays low
	ranks []int
}

// straights holds the straights of each deck kind, highest first
var straights = map[deck.Kind][]straightRun{
	deck.Standard: buildStraights(deck.Standard.MinRank()),
	deck.Short:    buildStraights(deck.Short.MinRank()),
}

func rankBit(rank int) uint16 {
	return 1 << uint(rank-2)
}

func buildStraights(minRank int) []straightRun {
	table := make([]straightRun, 0, deck.Ace-minRank-2)
	for high := deck.Ace; high-4 >= minRank; high-- {
		s := straightRun{ranks: make([]int, 0, 5)}
		for r := high; r > high-5; r-- {
			s.bits |= rankBit(r)
			s.ranks = append(s.ranks, r)
		}

		table = append(table, s)
	}

	// the ace plays low beneath the lowest rank of the deck
	wheel := straightRun{bits: rankBit(deck.Ace), ranks: make([]int, 0, 5)}
	for r := minRank + 3; r >= minRank; r-- {
		wheel.bits |= rankBit(r)
		wheel.ranks = append(wheel.ranks, r)
	}

	wheel.ranks = append(wheel.ranks, deck.Ace)
	return append(table, wheel)
}

// findStraight returns the highest straight contained in the rank bits
func findStraight(kind deck.Kind, bits uint16) (straightRun, bool) {
	for _, s := range straights[kind] {
		if bits&s.bits == s.bits {
			return s, true
		}
	}

	return straightRun{}, false
}
