package potmanager

import (
	"fmt"
	"sort"

	"github.com/thoas/go-funk"
)

// Contribution is what one player committed to the hand
type Contribution struct {
	ID     int64
	Amount int
	Folded bool
}

// Partition divides the committed chips into banks
// Every distinct contribution level opens a bank. A level's bank holds (level - previous level) from every
// player who committed at least the level, and only the non-folded ones can win it. Consecutive banks
// with identical groups are merged, and a bank no one can win is merged into the bank beneath it.
func Partition(contributions []Contribution) (Banks, int) {
	total := 0
	levels := make([]int, 0, len(contributions))
	for _, c := range contributions {
		total += c.Amount
		if c.Amount > 0 && !funk.ContainsInt(levels, c.Amount) {
			levels = append(levels, c.Amount)
		}
	}

	sort.Ints(levels)

	banks := make(Banks, 0, len(levels))
	prev := 0
	for _, level := range levels {
		contributors := 0
		group := make([]int64, 0, len(contributions))
		for _, c := range contributions {
			if c.Amount < level {
				continue
			}

			contributors++
			if !c.Folded {
				group = append(group, c.ID)
			}
		}

		amount := (level - prev) * contributors
		prev = level

		if n := len(banks); n > 0 && (len(group) == 0 || sameGroup(banks[n-1].Group, group)) {
			banks[n-1].Amount += amount
			continue
		}

		banks = append(banks, Bank{Amount: amount, Group: group})
	}

	// an unwinnable first bank moves up into the next one
	if len(banks) > 1 && len(banks[0].Group) == 0 {
		banks[1].Amount += banks[0].Amount
		banks = banks[1:]
	}

	if banks.Total() != total {
		panic(fmt.Sprintf("bank total %d does not match the committed total %d", banks.Total(), total))
	}

	return banks, total
}

func sameGroup(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
