package deck

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_HasCard(t *testing.T) {
	hand := CardsFromString("2c,3c,4d")
	assert.True(t, hand.HasCard(CardFromString("3c")))
	assert.False(t, hand.HasCard(CardFromString("3s")))
}

func TestHand_AddCard(t *testing.T) {
	h := make(Hand, 0)
	h.AddCard(CardFromString("As"))
	h.AddCard(CardFromString("3c"))
	assert.Equal(t, "As,3c", h.String())
}

func TestHand_Sort(t *testing.T) {
	h := CardsFromString("As,3c,Kc,2h")
	sort.Sort(h)
	assert.Equal(t, "3c,Kc,2h,As", h.String())
}

func TestHand_FaceDown(t *testing.T) {
	h := CardsFromString("As,3c")
	assert.Equal(t, "??,??", h.FaceDown().String())
	assert.Equal(t, "As,3c", h.String())
}

func TestHand_Clone(t *testing.T) {
	h := CardsFromString("As,3c")
	c := h.Clone()
	c[0] = CardFromString("2d")
	assert.Equal(t, "As,3c", h.String())
}
