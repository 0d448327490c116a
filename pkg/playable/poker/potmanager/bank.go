package potmanager

import (
	"encoding/json"

	"github.com/thoas/go-funk"
)

// Bank is an amount of chips and the players eligible to win it
type Bank struct {
	Amount int
	// Group holds the ids of the non-folded players who contributed at this level
	Group []int64
}

type bankJSON struct {
	Amount int     `json:"amount"`
	Group  []int64 `json:"group"`
}

// MarshalJSON provides custom marshalling
func (b Bank) MarshalJSON() ([]byte, error) {
	group := b.Group
	if group == nil {
		group = []int64{}
	}

	return json.Marshal(bankJSON{
		Amount: b.Amount,
		Group:  group,
	})
}

// Contains returns true if the player is eligible to win the bank
func (b Bank) Contains(id int64) bool {
	return funk.ContainsInt64(b.Group, id)
}

// Banks is an ordered list of banks, the main bank first
type Banks []Bank

// Total returns the combined total of all banks
func (b Banks) Total() int {
	total := 0
	for _, bank := range b {
		total += bank.Amount
	}

	return total
}
