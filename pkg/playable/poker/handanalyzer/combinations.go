package handanalyzer

import "pokertable-server/pkg/deck"

// combinations returns every k-sized set of indexes in [0, n)
func combinations(n, k int) [][]int {
	if k > n || k < 0 {
		return nil
	}

	result := make([][]int, 0)
	current := make([]int, k)

	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			combo := make([]int, k)
			copy(combo, current)
			result = append(result, combo)
			return
		}

		for i := start; i <= n-(k-depth); i++ {
			current[depth] = i
			walk(i+1, depth+1)
		}
	}

	walk(0, 0)
	return result
}

// selectCards returns the cards at the indexes
func selectCards(cards deck.Hand, indexes []int) deck.Hand {
	selected := make(deck.Hand, len(indexes))
	for i, idx := range indexes {
		selected[i] = cards[idx]
	}

	return selected
}
