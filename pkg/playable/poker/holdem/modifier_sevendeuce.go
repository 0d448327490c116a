package holdem

import (
	"github.com/thoas/go-funk"
	"pokertable-server/pkg/deck"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/potmanager"
)

// SevenDeuce pays a bonus to a player who wins at showdown holding seven-deuce offsuit
type SevenDeuce struct {
	BaseModifier
	Amount int
}

// Name returns the name of the modifier
func (s *SevenDeuce) Name() string {
	return "seven-deuce"
}

func isSevenDeuce(cards deck.Hand) bool {
	if len(cards) != 2 || cards[0].Suit() == cards[1].Suit() {
		return false
	}

	r0, r1 := cards[0].Rank(), cards[1].Rank()
	return (r0 == 7 && r1 == 2) || (r0 == 2 && r1 == 7)
}

// AfterShowdown collects the bonus from everyone else and splits it among the seven-deuce winners
func (s *SevenDeuce) AfterShowdown(g *Game, result *Result) {
	winners := make([]int64, 0)
	for _, win := range result.Winners {
		p := g.byID[win.UserID]
		if isSevenDeuce(p.cards) && !funk.ContainsInt64(winners, p.ID()) {
			winners = append(winners, p.ID())
		}
	}

	if len(winners) == 0 {
		return
	}

	bonus := 0
	for _, p := range g.players {
		if funk.ContainsInt64(winners, p.ID()) {
			continue
		}

		pay := s.Amount
		if balance := p.Balance(); pay > balance {
			pay = balance
		}

		p.user.AdjustBalance(-pay)
		bonus += pay
	}

	if bonus == 0 {
		return
	}

	winners = potmanager.SortFromDealer(winners, g.seating())
	shares := potmanager.Split(bonus, len(winners), g.options.ChipUnit)
	for i, id := range winners {
		g.byID[id].user.AdjustBalance(shares[i])
		result.Winners = append(result.Winners, playable.Win{
			Bank:    -1,
			Portion: string(PortionBonus),
			UserID:  id,
			Amount:  shares[i],
		})
	}

	g.logger.WithField("bonus", bonus).Info("seven-deuce bonus paid")
}
