package potmanager

import "sort"

// Winners returns the members of the group with the highest strength
// Members without a strength cannot win and are skipped. The group order is kept.
func Winners(group []int64, strength map[int64]int) []int64 {
	best := 0
	found := false
	for _, id := range group {
		if s, ok := strength[id]; ok && (!found || s > best) {
			best = s
			found = true
		}
	}

	winners := make([]int64, 0, len(group))
	if !found {
		return winners
	}

	for _, id := range group {
		if s, ok := strength[id]; ok && s == best {
			winners = append(winners, id)
		}
	}

	return winners
}

// SortFromDealer orders the ids by their seat, starting with the player left of the dealer
// seating is the turn order of the hand with the dealer first.
func SortFromDealer(ids []int64, seating []int64) []int64 {
	position := make(map[int64]int, len(seating))
	for i, id := range seating {
		// the dealer is last to receive odd chips
		position[id] = (i + len(seating) - 1) % len(seating)
	}

	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.SliceStable(sorted, func(i, j int) bool {
		return position[sorted[i]] < position[sorted[j]]
	})

	return sorted
}

// Split divides the amount between n winners in multiples of the chip unit
// Odd units are handed out one at a time in winner order. Chips below one unit are shared the same way.
func Split(amount, n, unit int) []int {
	if n <= 0 {
		panic("cannot split between zero winners")
	}

	if unit < 1 {
		unit = 1
	}

	shares := make([]int, n)
	distribute(shares, amount/unit, unit)
	if rest := amount % unit; rest > 0 {
		distribute(shares, rest, 1)
	}

	return shares
}

func distribute(shares []int, units, unit int) {
	n := len(shares)
	for i := range shares {
		shares[i] += units / n * unit
		if i < units%n {
			shares[i] += unit
		}
	}
}
