package holdem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"pokertable-server/pkg/deck"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/action"
	"pokertable-server/pkg/playable/poker/potmanager"
)

// Result is the outcome of a hand
type Result struct {
	Showdown bool
	Winners  []playable.Win
	// Deltas is the net change of every player's balance
	Deltas map[int64]int
	Board  []deck.Hand
	Banks  potmanager.Banks
}

// Game is a single hand of community card poker
// Run drives the hand in the caller's goroutine. Options and Bet may be called from any goroutine.
type Game struct {
	id      string
	logger  logrus.FieldLogger
	options Options
	deck    *deck.Deck
	seed    int64
	clock   quartz.Clock
	emitter Emitter

	// players are in turn order, the dealer first
	players []*Player
	byID    map[int64]*Player
	boards  []deck.Hand
	round   Round
	banks   potmanager.Banks
	plan    HandPlan
	// paid is what each bank has paid out so far
	paid []int

	level     int
	lastRaise int
	aggressor *Player

	mu        sync.Mutex
	pending   *solicitation
	decisions chan decision
	started   bool
	settling  bool
	finished  bool
}

type solicitation struct {
	player  *Player
	options action.BetOptions
}

type decision struct {
	player  *Player
	action  action.Action
	amount  int
	timeout bool
}

// NewGame returns a new hand
// The users must be ordered starting with the dealer.
func NewGame(logger logrus.FieldLogger, users []User, opts Options, gameOpts ...GameOption) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if len(users) < 2 {
		return nil, errors.New("there must be at least two players")
	}

	g := &Game{
		id:        uuid.New().String(),
		options:   opts,
		clock:     quartz.NewReal(),
		emitter:   nopEmitter{},
		byID:      make(map[int64]*Player, len(users)),
		players:   make([]*Player, 0, len(users)),
		decisions: make(chan decision, 1),
	}

	for _, opt := range gameOpts {
		opt(g)
	}

	g.logger = logger.WithField("game", g.id)

	for i, user := range users {
		if _, ok := g.byID[user.ID()]; ok {
			return nil, fmt.Errorf("player %d is dealt in twice", user.ID())
		}

		if user.Balance() <= 0 {
			return nil, fmt.Errorf("player %d has no chips", user.ID())
		}

		p := newPlayer(user, i)
		g.players = append(g.players, p)
		g.byID[user.ID()] = p
	}

	if g.deck == nil {
		if g.seed < 0 {
			return nil, errors.New("seed must be >= 0")
		}

		g.deck = deck.New(opts.Subtype.DeckKind())
		g.deck.Shuffle(g.seed)
	} else if g.deck.Kind() != opts.Subtype.DeckKind() {
		return nil, errors.New("the deck does not match the subtype")
	}

	return g, nil
}

// ID returns the id of the game
func (g *Game) ID() string {
	return g.id
}

// Options returns the legal actions of the player on the clock
func (g *Game) Options(playerID int64) (action.BetOptions, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil || g.pending.player.ID() != playerID {
		return action.BetOptions{}, ErrWrongPlayer
	}

	return g.pending.options, nil
}

// CurrentPlayer returns the id of the player on the clock
func (g *Game) CurrentPlayer() (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return 0, false
	}

	return g.pending.player.ID(), true
}

// Bet hands a decision of the player on the clock to the running hand
func (g *Game) Bet(playerID int64, act action.Action, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.pending
	if s == nil || s.player.ID() != playerID {
		return ErrWrongPlayer
	}

	if !s.options.Has(act) {
		return ErrIllegalAction
	}

	if act == action.Raise && (amount < s.options.RaiseMin || amount > s.options.RaiseMax) {
		return ErrAmountOutOfRange
	}

	g.pending = nil
	g.decisions <- decision{player: s.player, action: act, amount: amount}
	return nil
}

// HasPlayer returns true if the user is dealt into the hand
func (g *Game) HasPlayer(playerID int64) bool {
	_, ok := g.byID[playerID]
	return ok
}

// Player returns the player with the id
func (g *Game) Player(playerID int64) (*Player, bool) {
	p, ok := g.byID[playerID]
	return p, ok
}

// Players returns the players in turn order
func (g *Game) Players() []*Player {
	return g.players
}

// Boards returns the community cards of every board
func (g *Game) Boards() []deck.Hand {
	return g.boards
}

// Round returns the current round
func (g *Game) Round() Round {
	return g.round
}

// Banks returns the banks as of the last finished round
func (g *Game) Banks() potmanager.Banks {
	return g.banks
}

// Run plays the hand to completion
func (g *Game) Run(ctx context.Context) (*Result, error) {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return nil, ErrGameStarted
	}

	g.started = true
	g.mu.Unlock()

	g.plan = HandPlan{Boards: 1, PostBlinds: true}
	for _, m := range g.options.Modifiers {
		m.StartHand(g, &g.plan)
	}

	if !g.deck.CanDraw(len(g.players)*g.options.Subtype.HoleCards() + 5*g.plan.Boards) {
		return nil, ErrTooManyPlayers
	}

	g.boards = make([]deck.Hand, g.plan.Boards)
	for i := range g.boards {
		g.boards[i] = make(deck.Hand, 0, 5)
	}

	g.assignRoles()
	g.logger.WithFields(logrus.Fields{
		"players": len(g.players),
		"subtype": g.options.Subtype,
		"seed":    g.deck.GetSeed(),
	}).Info("hand begins")
	g.emitBegin()

	for _, m := range g.options.Modifiers {
		m.BeforePreflop(g)
	}

	if g.options.Ante > 0 {
		for _, p := range g.players {
			g.postForced(p, action.Ante, g.options.Ante, false)
		}
	}

	if g.plan.PostBlinds {
		g.postBlinds()
	}

	if err := g.dealHoleCards(); err != nil {
		return nil, err
	}

	for round := Preflop; round <= River; round++ {
		g.round = round
		if err := g.dealBoards(); err != nil {
			return nil, err
		}

		g.updateHands()

		if round != Preflop || !g.plan.SkipPreflopBetting {
			if err := g.bettingRound(ctx); err != nil {
				return nil, err
			}
		}

		g.endRound()
	}

	g.mu.Lock()
	g.round = Showdown
	g.settling = true
	g.mu.Unlock()

	result := g.settle(ctx)

	g.mu.Lock()
	g.finished = true
	g.mu.Unlock()

	return result, nil
}

// Abort refunds every player's committed chips
// When the banks were being paid, what is left of each bank goes back to its group instead.
func (g *Game) Abort() {
	g.mu.Lock()
	if g.finished {
		g.mu.Unlock()
		return
	}

	settling := g.settling
	g.finished = true
	g.pending = nil
	g.mu.Unlock()

	if settling {
		g.refundUnpaid()
	} else {
		for _, p := range g.players {
			if p.betTotal > 0 {
				p.user.AdjustBalance(p.betTotal)
				p.betTotal = 0
				p.betAmount = 0
			}
		}

		g.logger.Warn("hand aborted, chips refunded")
	}

	g.emit(&playable.GameEndProps{Aborted: true, Balances: g.balances()})
}

// refundUnpaid splits the unpaid rest of every bank among the players eligible to win it
func (g *Game) refundUnpaid() {
	unpaid := 0
	for i, bank := range g.banks {
		left := bank.Amount
		if i < len(g.paid) {
			left -= g.paid[i]
		}

		if left <= 0 || len(bank.Group) == 0 {
			continue
		}

		group := potmanager.SortFromDealer(bank.Group, g.seating())
		shares := potmanager.Split(left, len(group), g.options.ChipUnit)
		for j, id := range group {
			g.byID[id].user.AdjustBalance(shares[j])
		}

		unpaid += left
	}

	g.logger.WithField("unpaid", unpaid).Error("hand failed while paying the banks, the rest was returned to the eligible players")
}

func (g *Game) emit(props playable.Props) {
	g.emitter.Emit(g.id, props)
}

func (g *Game) emitBegin() {
	players := make([]playable.GamePlayer, len(g.players))
	for i, p := range g.players {
		players[i] = playable.GamePlayer{
			UserID:  p.ID(),
			Name:    p.user.Name(),
			Balance: p.Balance(),
			Role:    int(p.role),
		}
	}

	g.emit(&playable.GameBeginProps{
		Subtype:    string(g.options.Subtype),
		SmallBlind: g.options.SmallBlind,
		BigBlind:   g.options.BigBlind,
		Boards:     len(g.boards),
		Players:    players,
		Modifiers:  ModifierNames(g.options.Modifiers),
		DeckHash:   g.deck.HashCode(),
	})
}

// blinds returns the small and big blind players
func (g *Game) blinds() (*Player, *Player) {
	if len(g.players) == 2 {
		return g.players[0], g.players[1]
	}

	return g.players[1], g.players[2]
}

func (g *Game) assignRoles() {
	g.players[0].role |= RoleDealer
	if !g.plan.PostBlinds {
		return
	}

	sb, bb := g.blinds()
	sb.role |= RoleSmallBlind
	bb.role |= RoleBigBlind
}

// postForced commits a forced bet, capped at the player's stack
func (g *Game) postForced(p *Player, act action.Action, amount int, live bool) {
	if amount <= 0 || p.allIn {
		return
	}

	added := p.commit(amount, live)
	p.betType = act
	g.emitBet(p, act, added, false)
}

func (g *Game) postBlinds() {
	sb, bb := g.blinds()
	g.postForced(sb, action.SmallBlind, g.options.SmallBlind, true)
	g.postForced(bb, action.BigBlind, g.options.BigBlind, true)

	for _, p := range g.players {
		if p.betAmount > g.level {
			g.level = p.betAmount
		}
	}
}

func (g *Game) emitBet(p *Player, act action.Action, amount int, timeout bool) {
	g.emit(&playable.PlayerBetProps{
		UserID:    p.ID(),
		Action:    act,
		Amount:    amount,
		BetAmount: p.betAmount,
		BetTotal:  p.betTotal,
		Balance:   p.Balance(),
		AllIn:     p.allIn,
		Timeout:   timeout,
	})
}

// dealHoleCards deals one card at a time starting left of the dealer
func (g *Game) dealHoleCards() error {
	n := len(g.players)
	for c := 0; c < g.options.Subtype.HoleCards(); c++ {
		for i := 1; i <= n; i++ {
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			g.players[i%n].cards.AddCard(card)
		}
	}

	for _, p := range g.players {
		g.emit(&playable.PlayerCardsProps{UserID: p.ID(), Cards: p.cards.Clone()})
	}

	return nil
}

func (g *Game) dealBoards() error {
	count := g.round.boardCards()
	if count == 0 {
		return nil
	}

	for b := range g.boards {
		dealt := make(deck.Hand, 0, count)
		for i := 0; i < count; i++ {
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			dealt.AddCard(card)
		}

		g.boards[b] = append(g.boards[b], dealt...)
		g.emit(&playable.GameCardsProps{
			Round: g.round.String(),
			Board: b,
			Cards: dealt,
			All:   g.boards[b].Clone(),
		})
	}

	return nil
}

// updateHands evaluates the best hand of every player still in the hand after a deal
// Each player is told their own hand with their closed cards.
func (g *Game) updateHands() {
	inGame := g.inGamePlayers()
	if g.round.boardCards() == 0 || len(inGame) < 2 {
		return
	}

	for _, p := range inGame {
		g.evaluate(p)
		g.emit(&playable.PlayerCardsProps{
			UserID: p.ID(),
			Cards:  p.cards.Clone(),
			Open:   p.cardsOpen,
			Hands:  p.handValues(),
		})
	}
}

func (g *Game) contributions() []potmanager.Contribution {
	contributions := make([]potmanager.Contribution, len(g.players))
	for i, p := range g.players {
		contributions[i] = potmanager.Contribution{ID: p.ID(), Amount: p.betTotal, Folded: p.folded}
	}

	return contributions
}

func (g *Game) endRound() {
	g.banks, _ = potmanager.Partition(g.contributions())
	g.emit(&playable.GameRoundProps{Round: g.round.String(), Banks: g.banks})

	for _, p := range g.players {
		p.newRound()
	}

	g.level = 0
	g.lastRaise = 0
	g.logger.WithField("round", g.round.String()).Debug("round complete")
}

// pot returns every chip committed to the hand
func (g *Game) pot() int {
	pot := 0
	for _, p := range g.players {
		pot += p.betTotal
	}

	return pot
}

// seating returns the player ids in turn order
func (g *Game) seating() []int64 {
	ids := make([]int64, len(g.players))
	for i, p := range g.players {
		ids[i] = p.ID()
	}

	return ids
}

// rotation returns the players clockwise starting at the index
func (g *Game) rotation(start int) []*Player {
	n := len(g.players)
	players := make([]*Player, n)
	for i := range players {
		players[i] = g.players[(start+i)%n]
	}

	return players
}

func (g *Game) inGamePlayers() []*Player {
	players := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p.inGame() {
			players = append(players, p)
		}
	}

	return players
}

func (g *Game) balances() map[int64]int {
	balances := make(map[int64]int, len(g.players))
	for _, p := range g.players {
		balances[p.ID()] = p.Balance()
	}

	return balances
}

// wait blocks for the duration or until the context is done
func (g *Game) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	fired := make(chan struct{})
	timer := g.clock.AfterFunc(d, func() { close(fired) })
	defer timer.Stop()

	select {
	case <-fired:
	case <-ctx.Done():
	}
}
