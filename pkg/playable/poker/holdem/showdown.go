package holdem

import (
	"context"

	"github.com/sirupsen/logrus"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/handanalyzer"
	"pokertable-server/pkg/playable/poker/potmanager"
)

// portionUncontested marks banks won without a showdown
const portionUncontested = "uncontested"

func (g *Game) settle(ctx context.Context) *Result {
	result := &Result{
		Winners: make([]playable.Win, 0),
		Board:   g.boards,
		Banks:   g.banks,
	}
	g.paid = make([]int, len(g.banks))

	var hands map[int64][]handanalyzer.Hand
	if inGame := g.inGamePlayers(); len(inGame) == 1 {
		g.foldOut(inGame[0], result)
	} else {
		result.Showdown = true
		hands = g.showdown(ctx, inGame, result)

		for _, m := range g.options.Modifiers {
			m.AfterShowdown(g, result)
		}
	}

	result.Deltas = make(map[int64]int, len(g.players))
	for _, p := range g.players {
		result.Deltas[p.ID()] = p.Balance() - p.startBalance
	}

	g.logger.WithFields(logrus.Fields{
		"showdown": result.Showdown,
		"pot":      result.Banks.Total(),
	}).Info("hand complete")

	g.emit(&playable.GameResultProps{
		Showdown: result.Showdown,
		Winners:  result.Winners,
		Deltas:   result.Deltas,
		Hands:    hands,
		Boards:   result.Board,
	})

	for _, m := range g.options.Modifiers {
		m.EndHand(g, result)
	}

	g.emit(&playable.GameEndProps{Balances: g.balances()})
	return result
}

// foldOut awards every bank to the last player standing
func (g *Game) foldOut(winner *Player, result *Result) {
	for i, bank := range g.banks {
		winner.user.AdjustBalance(bank.Amount)
		g.paid[i] += bank.Amount
		result.Winners = append(result.Winners, playable.Win{
			Bank:    i,
			Portion: portionUncontested,
			UserID:  winner.ID(),
			Amount:  bank.Amount,
		})
	}
}

func (g *Game) evaluate(p *Player) {
	omaha := g.options.Subtype == Omaha
	rules := g.options.Subtype.Rules()

	p.hands = make([]*handanalyzer.Hand, len(g.boards))
	if g.plan.HiLow {
		p.lowHands = make([]*handanalyzer.LowHand, len(g.boards))
	}

	for b, board := range g.boards {
		var hand handanalyzer.Hand
		var ok bool
		if !omaha {
			hand, ok = handanalyzer.BestHand(p.cards, board, rules)
		} else {
			hand, ok = handanalyzer.BestOmahaHand(p.cards, board, rules)
		}

		if ok {
			p.hands[b] = &hand
		}

		if !g.plan.HiLow {
			continue
		}

		if !omaha {
			p.lowHands[b], _ = handanalyzer.BestLowHand(p.cards, board)
		} else {
			p.lowHands[b], _ = handanalyzer.BestOmahaLowHand(p.cards, board)
		}
	}
}

// revealOrder returns all-in players first, then the last aggressor and clockwise
func (g *Game) revealOrder(inGame []*Player) []*Player {
	start := 1 % len(g.players)
	if g.aggressor != nil && g.aggressor.inGame() {
		start = g.aggressor.index
	}

	order := make([]*Player, 0, len(inGame))
	for _, p := range g.rotation(1 % len(g.players)) {
		if p.inGame() && p.allIn {
			order = append(order, p)
		}
	}

	for _, p := range g.rotation(start) {
		if p.inGame() && !p.allIn {
			order = append(order, p)
		}
	}

	return order
}

func (g *Game) showdown(ctx context.Context, inGame []*Player, result *Result) map[int64][]handanalyzer.Hand {
	hands := make(map[int64][]handanalyzer.Hand, len(inGame))
	for _, p := range inGame {
		g.evaluate(p)
		hands[p.ID()] = p.handValues()
	}

	for i, p := range g.revealOrder(inGame) {
		if i > 0 {
			g.wait(ctx, g.options.RevealDelay)
		}

		p.cardsOpen = true
		g.emit(&playable.PlayerCardsProps{
			UserID: p.ID(),
			Cards:  p.cards.Clone(),
			Open:   true,
			Hands:  hands[p.ID()],
		})
	}

	for i, bank := range g.banks {
		portions := []Portion{{
			Bank:   i,
			Board:  0,
			Kind:   PortionHigh,
			Amount: bank.Amount,
			Group:  bank.Group,
		}}

		for _, m := range g.options.Modifiers {
			portions = m.SplitPortions(g, portions)
		}

		for _, portion := range portions {
			g.award(portion, result)
		}
	}

	return hands
}

// strengths returns the strength of every eligible hand on the board, higher is better
func (g *Game) strengths(board int, kind PortionKind) map[int64]int {
	strengths := make(map[int64]int, len(g.players))
	for _, p := range g.players {
		if !p.inGame() {
			continue
		}

		switch kind {
		case PortionLow:
			if board < len(p.lowHands) && p.lowHands[board] != nil {
				strengths[p.ID()] = -p.lowHands[board].Rank
			}
		default:
			if board < len(p.hands) && p.hands[board] != nil {
				strengths[p.ID()] = p.hands[board].Strength
			}
		}
	}

	return strengths
}

// anyLow returns true if a member of the group holds a qualifying low on the board
func (g *Game) anyLow(group []int64, board int) bool {
	for _, id := range group {
		p := g.byID[id]
		if board < len(p.lowHands) && p.lowHands[board] != nil {
			return true
		}
	}

	return false
}

func (g *Game) award(portion Portion, result *Result) {
	kind := portion.Kind
	winners := potmanager.Winners(portion.Group, g.strengths(portion.Board, kind))
	if len(winners) == 0 {
		kind = PortionHigh
		winners = potmanager.Winners(portion.Group, g.strengths(portion.Board, kind))
	}

	if len(winners) == 0 {
		panic("bank has no eligible winner")
	}

	winners = potmanager.SortFromDealer(winners, g.seating())
	shares := potmanager.Split(portion.Amount, len(winners), g.options.ChipUnit)
	for i, id := range winners {
		p := g.byID[id]
		p.user.AdjustBalance(shares[i])
		g.paid[portion.Bank] += shares[i]

		result.Winners = append(result.Winners, playable.Win{
			Bank:    portion.Bank,
			Board:   portion.Board,
			Portion: string(kind),
			UserID:  id,
			Amount:  shares[i],
			Hand:    p.handName(portion.Board, kind),
		})
	}
}
