package holdem

import (
	"fmt"

	"pokertable-server/pkg/deck"
	"pokertable-server/pkg/playable/poker/action"
	"pokertable-server/pkg/playable/poker/handanalyzer"
)

// User is a seated table user dealt into a hand
type User interface {
	ID() int64
	Name() string
	Balance() int
	AdjustBalance(amount int)
	IsConnected() bool
}

// Role is a set of positions a player holds for the hand
type Role uint8

// role flags
const (
	RoleDealer Role = 1 << iota
	RoleSmallBlind
	RoleBigBlind
)

// Has returns true if the role flag is set
func (r Role) Has(flag Role) bool {
	return r&flag != 0
}

// Player represents an individual player in a hand
type Player struct {
	user User
	// index is the turn order position, the dealer is zero
	index int
	role  Role

	cards     deck.Hand
	cardsOpen bool

	betType   action.Action
	betAmount int
	betTotal  int
	betDelta  int

	hands    []*handanalyzer.Hand
	lowHands []*handanalyzer.LowHand

	folded bool
	allIn  bool
	// acted is true once the player decided in the current round
	acted bool

	startBalance int
}

func newPlayer(user User, index int) *Player {
	return &Player{
		user:         user,
		index:        index,
		cards:        make(deck.Hand, 0, 4),
		startBalance: user.Balance(),
	}
}

// ID returns the id of the user
func (p *Player) ID() int64 {
	return p.user.ID()
}

// Balance returns the chips the player has behind
func (p *Player) Balance() int {
	return p.user.Balance()
}

// Role returns the role flags of the player
func (p *Player) Role() Role {
	return p.role
}

// Cards returns the hole cards
func (p *Player) Cards() deck.Hand {
	return p.cards
}

// BetAmount returns the chips committed in the current round
func (p *Player) BetAmount() int {
	return p.betAmount
}

// BetTotal returns the chips committed in the hand
func (p *Player) BetTotal() int {
	return p.betTotal
}

// Folded returns true if the player folded
func (p *Player) Folded() bool {
	return p.folded
}

// AllIn returns true if the player has no chips behind
func (p *Player) AllIn() bool {
	return p.allIn
}

// inGame returns true if the player can still win chips
func (p *Player) inGame() bool {
	return !p.folded
}

// hasOptions returns true if the player can still make betting decisions
func (p *Player) hasOptions() bool {
	return !p.folded && !p.allIn
}

// commit moves chips from the user's balance into the hand
// Live chips count towards the bet level of the round; antes and bomb pot posts do not.
func (p *Player) commit(amount int, live bool) int {
	if amount < 0 {
		panic(fmt.Sprintf("cannot commit a negative amount: %d", amount))
	}

	if balance := p.user.Balance(); amount >= balance {
		amount = balance
		p.allIn = true
	}

	p.user.AdjustBalance(-amount)
	if p.user.Balance() < 0 {
		panic(fmt.Sprintf("negative balance for player %d", p.ID()))
	}

	p.betTotal += amount
	p.betDelta = amount
	if live {
		p.betAmount += amount
	}

	return amount
}

// newRound resets the per-round counters
func (p *Player) newRound() {
	p.betAmount = 0
	p.betDelta = 0
	p.acted = false
	if !p.folded && !p.allIn {
		p.betType = ""
	}
}

func (p *Player) String() string {
	return fmt.Sprintf("%d", p.ID())
}

func (p *Player) handValues() []handanalyzer.Hand {
	values := make([]handanalyzer.Hand, 0, len(p.hands))
	for _, h := range p.hands {
		if h != nil {
			values = append(values, *h)
		}
	}

	return values
}

func (p *Player) handName(board int, kind PortionKind) string {
	if kind == PortionLow {
		if board < len(p.lowHands) && p.lowHands[board] != nil {
			return p.lowHands[board].Name
		}

		return ""
	}

	if board < len(p.hands) && p.hands[board] != nil {
		return p.hands[board].String()
	}

	return ""
}
