package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/playable/poker/action"
	"pokertable-server/pkg/playable/poker/holdem"
	"pokertable-server/pkg/table"
)

const gameType = "holdem"

// historyLimit caps the messages of a hand replayed to a joining client
const historyLimit = 512

// errorBackoff is the pause after a hand could not be created
const errorBackoff = time.Second

// Dealer is responsible for running a table
// It seats users, schedules hands and relays the messages of the hand to the connected clients.
type Dealer struct {
	id      string
	logger  logrus.FieldLogger
	options Options
	store   Persistence
	ledger  Ledger
	clock   quartz.Clock

	mu        sync.Mutex
	seats     []*User
	users     map[int64]*User
	clients   map[*Client]bool
	button    int
	game      *holdem.Game
	start     map[int64]int
	history   []*playable.Envelope
	modifiers []holdem.Modifier
	closed    bool
	cancel    context.CancelFunc

	// seated nudges the run loop when it waits for players
	seated chan struct{}
	done   chan struct{}
}

// NewDealer creates a new dealer object
func NewDealer(logger logrus.FieldLogger, id string, opts Options, store Persistence, ledger Ledger, clock quartz.Clock) (*Dealer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Dealer{
		id: id,
		logger: logger.WithFields(logrus.Fields{
			"table": id,
			"name":  opts.Name,
		}),
		options:   opts,
		store:     store,
		ledger:    ledger,
		clock:     clock,
		seats:     make([]*User, opts.Seats),
		users:     make(map[int64]*User),
		clients:   make(map[*Client]bool),
		button:    unseated,
		modifiers: holdem.NewModifiers(opts.Modifiers),
		seated:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// ID returns the id of the table
func (d *Dealer) ID() string {
	return d.id
}

// Options returns the options of the table
func (d *Dealer) Options() Options {
	return d.options
}

// Summary describes an open table
type Summary struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Subtype    holdem.Subtype `json:"subtype"`
	SmallBlind int            `json:"smallBlind"`
	BigBlind   int            `json:"bigBlind"`
	BuyIn      int            `json:"buyIn"`
	Seats      int            `json:"seats"`
	Occupied   int            `json:"occupied"`
	Modifiers  []string       `json:"modifiers"`
	GameID     string         `json:"gameId,omitempty"`
}

// Summary returns a summary of the table
func (d *Dealer) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()

	info := d.tableInfo()
	return Summary{
		ID:         d.id,
		Name:       info.Name,
		Subtype:    d.options.Game.Subtype,
		SmallBlind: info.SmallBlind,
		BigBlind:   info.BigBlind,
		BuyIn:      info.BuyIn,
		Seats:      info.Seats,
		Occupied:   len(info.Occupied),
		Modifiers:  info.Modifiers,
		GameID:     info.GameID,
	}
}

// Seats returns the occupied seats
func (d *Dealer) Seats() []playable.SeatInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.tableInfo().Occupied
}

// Join connects the client to the table
// When seat is not nil the user also takes that seat, a negative seat picks the first free one.
func (d *Dealer) Join(ctx context.Context, client *Client, seat *int) error {
	return d.join(ctx, client, seat, nil)
}

func (d *Dealer) join(ctx context.Context, client *Client, seat *int, cmd *playable.Command) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrTableClosed
	}

	if !d.clients[client] {
		d.clients[client] = true
		client.dealer = d

		user, ok := d.users[client.UserID]
		if !ok {
			user = newUser(client.UserID, client.Name)
			d.users[user.id] = user
		}

		if user.connect(1) == 1 {
			d.logger.WithField("user", user.id).Info("user connected")
			d.broadcast("", &playable.PlayerEnterProps{UserID: user.id, Name: user.name}, cmd)
		}
	}

	d.sendTo(client, "", d.tableInfo(), cmd)
	for _, env := range d.history {
		d.send(client, env.RedactFor(client.UserID))
	}
	d.mu.Unlock()

	if seat == nil {
		return nil
	}

	return d.takeSeat(ctx, client.UserID, *seat, cmd)
}

// TakeSeat seats a joined user and buys in through the ledger
func (d *Dealer) TakeSeat(ctx context.Context, userID int64, seat int) error {
	return d.takeSeat(ctx, userID, seat, nil)
}

func (d *Dealer) takeSeat(ctx context.Context, userID int64, seat int, cmd *playable.Command) error {
	d.mu.Lock()
	user, err := d.reserveSeat(userID, seat)
	d.mu.Unlock()
	if err != nil {
		return err
	}

	// the seat stays reserved while the ledger is busy
	err = d.ledger.BuyIn(ctx, d.id, userID, d.options.BuyIn)

	d.mu.Lock()
	defer d.mu.Unlock()

	user.buying = false
	if err != nil {
		d.unseat(user)
		if errors.Is(err, table.ErrInsufficientBalance) {
			return ErrInsufficientBalance
		}

		return fmt.Errorf("could not buy in: %w", err)
	}

	if d.closed {
		d.unseat(user)
		d.cashOut(ctx, userID, d.options.BuyIn)
		return ErrTableClosed
	}

	user.AdjustBalance(d.options.BuyIn)
	d.logger.WithFields(logrus.Fields{
		"user": userID,
		"seat": user.seat,
	}).Info("user took a seat")
	d.broadcast("", d.seatProps(user), cmd)
	d.nudge()

	return nil
}

// NOTE: must be called with the lock held
func (d *Dealer) reserveSeat(userID int64, seat int) (*User, error) {
	if d.closed {
		return nil, ErrTableClosed
	}

	user, ok := d.users[userID]
	if !ok {
		return nil, ErrNotJoined
	}

	if user.seat != unseated {
		return nil, ErrAlreadySeated
	}

	switch {
	case seat < 0:
		if seat = d.freeSeat(); seat < 0 {
			return nil, ErrNoFreeSeat
		}
	case seat >= len(d.seats):
		return nil, ErrInvalidSeat
	case d.seats[seat] != nil:
		return nil, ErrSeatTaken
	}

	d.seats[seat] = user
	user.seat = seat
	user.buying = true

	return user, nil
}

// Exit vacates the user's seat and cashes out the stack
// A user dealt into the running hand leaves once it is over, their turns are played by the default action.
func (d *Dealer) Exit(ctx context.Context, userID int64) error {
	return d.exit(ctx, userID, nil)
}

func (d *Dealer) exit(ctx context.Context, userID int64, cmd *playable.Command) error {
	d.mu.Lock()
	user, ok := d.users[userID]
	switch {
	case !ok:
		d.mu.Unlock()
		return ErrNotJoined
	case user.seat == unseated || user.buying:
		d.mu.Unlock()
		return ErrNotSeated
	}

	game := d.game
	if game == nil || !game.HasPlayer(userID) {
		d.cashOut(ctx, userID, d.vacate(user, cmd))
		d.mu.Unlock()
		return nil
	}

	user.setExiting(true)
	d.mu.Unlock()

	d.logger.WithField("user", userID).Info("user leaves after the hand")

	// the user may be on the clock already
	if opts, err := game.Options(userID); err == nil {
		if err := game.Bet(userID, opts.Default(), 0); err != nil {
			d.logger.WithError(err).WithField("user", userID).Debug("could not act for the leaving user")
		}
	}

	return nil
}

// Rebuy adds chips to the user's stack
// The chips are added once the running hand is over when the user is dealt into it.
func (d *Dealer) Rebuy(ctx context.Context, userID int64, amount int) error {
	return d.rebuy(ctx, userID, amount, nil)
}

func (d *Dealer) rebuy(ctx context.Context, userID int64, amount int, cmd *playable.Command) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	d.mu.Lock()
	user, ok := d.users[userID]
	switch {
	case d.closed:
		d.mu.Unlock()
		return ErrTableClosed
	case !ok:
		d.mu.Unlock()
		return ErrNotJoined
	case user.seat == unseated || user.buying:
		d.mu.Unlock()
		return ErrNotSeated
	}

	user.buying = true
	d.mu.Unlock()

	err := d.ledger.BuyIn(ctx, d.id, userID, amount)

	d.mu.Lock()
	defer d.mu.Unlock()

	user.buying = false
	if err != nil {
		if errors.Is(err, table.ErrInsufficientBalance) {
			return ErrInsufficientBalance
		}

		return fmt.Errorf("could not rebuy: %w", err)
	}

	if d.closed {
		// the seat was skipped when the table closed
		d.cashOut(ctx, userID, amount+d.vacate(user, nil))
		return ErrTableClosed
	}

	logger := d.logger.WithFields(logrus.Fields{
		"user":   userID,
		"amount": amount,
	})

	if d.game != nil && d.game.HasPlayer(userID) {
		user.addPending(amount)
		logger.Info("rebuy is added after the hand")
		return nil
	}

	user.AdjustBalance(amount)
	logger.Info("user rebought")
	d.broadcast("", d.seatProps(user), cmd)
	d.nudge()

	return nil
}

// Bet hands a betting decision to the running hand
func (d *Dealer) Bet(userID int64, act action.Action, amount int) error {
	d.mu.Lock()
	game := d.game
	d.mu.Unlock()

	if game == nil {
		return ErrNoGame
	}

	return game.Bet(userID, act, amount)
}

// HandleCommand executes a command sent by the client
// Rejected commands are answered with an ERROR message to the client alone.
func (d *Dealer) HandleCommand(ctx context.Context, client *Client, cmd *playable.Command) {
	if err := d.dispatch(ctx, client, cmd); err != nil {
		logger := d.logger.WithFields(logrus.Fields{
			"client":  client.String(),
			"cmdType": cmd.CmdType,
		})

		props := newErrorProps(err)
		if props.Code == CodeInternal {
			logger.WithError(err).Error("could not execute command")
		} else {
			logger.WithError(err).Debug("command rejected")
		}

		d.mu.Lock()
		d.sendTo(client, "", props, cmd)
		d.mu.Unlock()
	}
}

func (d *Dealer) dispatch(ctx context.Context, client *Client, cmd *playable.Command) error {
	if props, ok := cmd.Props.(*playable.JoinProps); ok {
		return d.join(ctx, client, props.Seat, cmd)
	}

	if !d.isJoined(client) {
		return ErrNotJoined
	}

	switch props := cmd.Props.(type) {
	case *playable.TakeSeatProps:
		return d.takeSeat(ctx, cmd.UserID, props.Seat, cmd)
	case *playable.ExitProps:
		return d.exit(ctx, cmd.UserID, cmd)
	case *playable.BetProps:
		return d.Bet(cmd.UserID, props.Action, props.Amount)
	case *playable.RebuyProps:
		return d.rebuy(ctx, cmd.UserID, props.Amount, cmd)
	}

	return playable.UserError(fmt.Sprintf("unhandled command: %s", cmd.CmdType))
}

func (d *Dealer) isJoined(client *Client) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.clients[client]
}

// Disconnect removes the client
// A seated user stays seated without clients, the hand plays the default action for them.
func (d *Dealer) Disconnect(client *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.clients[client] {
		return
	}

	delete(d.clients, client)
	user, ok := d.users[client.UserID]
	if !ok || user.connect(-1) > 0 {
		return
	}

	d.logger.WithField("user", user.id).Info("user disconnected")
	if user.seat == unseated {
		delete(d.users, user.id)
		d.broadcast("", &playable.PlayerExitProps{UserID: user.id, Seat: unseated}, nil)
		return
	}

	if !user.buying {
		d.broadcast("", d.seatProps(user), nil)
	}
}

// Emit relays a message of the running hand to the clients
func (d *Dealer) Emit(gameID string, props playable.Props) {
	d.mu.Lock()
	defer d.mu.Unlock()

	env := d.broadcast(gameID, props, nil)
	if len(d.history) < historyLimit {
		d.history = append(d.history, env)
	}
}

// StartShift starts the run loop
func (d *Dealer) StartShift(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil || d.closed {
		return
	}

	ctx, d.cancel = context.WithCancel(ctx)
	go d.runLoop(ctx)
}

func (d *Dealer) runLoop(ctx context.Context) {
	defer close(d.done)

	d.logger.Debug("creating dealer run loop")
	defer d.logger.Debug("terminating dealer run loop")

	for {
		if !d.wait(ctx, d.options.InterHandDelay) {
			return
		}

		game, err := d.nextGame(ctx)
		if err != nil {
			d.logger.WithError(err).Error("could not start the next hand")
			if !d.wait(ctx, errorBackoff) {
				return
			}

			continue
		}

		if game == nil {
			select {
			case <-ctx.Done():
				return
			case <-d.seated:
			}

			continue
		}

		d.runGame(ctx, game)
	}
}

// nextGame creates the next hand, nil if there are not enough players
func (d *Dealer) nextGame(ctx context.Context) (*holdem.Game, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, nil
	}

	for _, u := range d.seats {
		if u != nil && u.applyPending() {
			d.broadcast("", d.seatProps(u), nil)
		}
	}

	eligible := d.eligibleSeats()
	if len(eligible) < d.options.MinPlayers {
		return nil, nil
	}

	d.button = nextSeat(eligible, d.button)
	first := funk.IndexOfInt(eligible, d.button)

	users := make([]holdem.User, 0, len(eligible))
	ids := make([]int64, 0, len(eligible))
	seats := make(map[int64]int, len(eligible))
	start := make(map[int64]int, len(eligible))
	for i := range eligible {
		u := d.seats[eligible[(first+i)%len(eligible)]]
		users = append(users, u)
		ids = append(ids, u.id)
		seats[u.id] = u.seat
		start[u.id] = u.Balance()
	}

	opts := d.options.Game
	opts.Modifiers = d.modifiers

	gameID, err := d.store.CreateGame(ctx, d.id, gameType, string(opts.Subtype), &gameRecord{
		SmallBlind: opts.SmallBlind,
		BigBlind:   opts.BigBlind,
		Ante:       opts.Ante,
		Button:     d.button,
		Seats:      seats,
		Modifiers:  holdem.ModifierNames(opts.Modifiers),
	}, ids)
	if err != nil {
		return nil, fmt.Errorf("could not record the game: %w", err)
	}

	game, err := holdem.NewGame(d.logger, users, opts,
		holdem.WithGameID(gameID),
		holdem.WithEmitter(d),
		holdem.WithClock(d.clock),
	)
	if err != nil {
		if closeErr := d.store.CloseGame(ctx, gameID, map[int64]int{}); closeErr != nil {
			d.logger.WithError(closeErr).Error("could not close the game record")
		}

		return nil, err
	}

	d.game = game
	d.start = start
	d.history = d.history[:0]

	return game, nil
}

type gameRecord struct {
	SmallBlind int           `json:"smallBlind"`
	BigBlind   int           `json:"bigBlind"`
	Ante       int           `json:"ante"`
	Button     int           `json:"button"`
	Seats      map[int64]int `json:"seats"`
	Modifiers  []string      `json:"modifiers"`
}

func (d *Dealer) runGame(ctx context.Context, game *holdem.Game) {
	_, err := d.playHand(ctx, game)
	if err != nil {
		if ctx.Err() != nil {
			d.logger.WithError(err).Info("hand interrupted")
		} else {
			d.logger.WithError(err).Error("hand failed")
		}

		game.Abort()
	}

	d.finishHand(ctx, game)
}

// playHand runs the hand, turning a panic into an error
func (d *Dealer) playHand(ctx context.Context, game *holdem.Game) (result *holdem.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hand panicked: %v", r)
		}
	}()

	return game.Run(ctx)
}

// finishHand records the hand and clears the seats of users that left or went broke
func (d *Dealer) finishHand(ctx context.Context, game *holdem.Game) {
	d.mu.Lock()
	defer d.mu.Unlock()

	deltas := make(map[int64]int, len(d.start))
	for id, balance := range d.start {
		if u, ok := d.users[id]; ok {
			deltas[id] = u.Balance() - balance
		}
	}

	if err := d.store.CloseGame(context.WithoutCancel(ctx), game.ID(), deltas); err != nil {
		d.logger.WithError(err).Error("could not close the game record")
	}

	d.game = nil
	d.start = nil
	d.history = d.history[:0]

	for _, u := range d.seats {
		if u == nil || u.buying {
			continue
		}

		switch {
		case u.isExiting():
			d.cashOut(ctx, u.id, d.vacate(u, nil))
		case u.Balance() == 0 && !u.hasPending():
			d.logger.WithField("user", u.id).Info("user is out of chips")
			d.vacate(u, nil)
		}
	}
}

// EndShift stops the run loop, cashes out every seat and closes the clients
// A running hand is aborted and its chips refunded.
func (d *Dealer) EndShift(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}

	d.closed = true
	cancel := d.cancel
	d.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-d.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.seats {
		// users buying in are refunded when the ledger returns
		if u != nil && !u.buying {
			d.cashOut(ctx, u.id, d.vacate(u, nil))
		}
	}

	d.broadcast("", &playable.TableClosedProps{Reason: "table closed"}, nil)
	for client := range d.clients {
		client.Kick("table closed")
		delete(d.clients, client)
	}

	d.logger.Info("table closed")
	return d.store.CloseTable(context.WithoutCancel(ctx), d.id)
}

// wait returns false if the context is done before d elapsed
func (d *Dealer) wait(ctx context.Context, dur time.Duration) bool {
	if dur <= 0 {
		return ctx.Err() == nil
	}

	elapsed := make(chan struct{})
	timer := d.clock.AfterFunc(dur, func() { close(elapsed) })
	defer timer.Stop()

	select {
	case <-elapsed:
		return true
	case <-ctx.Done():
		return false
	}
}

func (d *Dealer) nudge() {
	select {
	case d.seated <- struct{}{}:
	default:
	}
}

// NOTE: the helpers below must be called with the lock held

// vacate clears the user's seat and returns the chips to cash out
func (d *Dealer) vacate(user *User, cmd *playable.Command) int {
	seat := user.seat
	amount := user.takeAll()
	user.setExiting(false)
	d.unseat(user)

	d.logger.WithFields(logrus.Fields{
		"user":    user.id,
		"seat":    seat,
		"cashOut": amount,
	}).Info("seat vacated")
	d.broadcast("", &playable.PlayerExitProps{UserID: user.id, Seat: seat, CashOut: amount}, cmd)

	return amount
}

func (d *Dealer) unseat(user *User) {
	if user.seat != unseated {
		d.seats[user.seat] = nil
		user.seat = unseated
	}

	if user.connect(0) == 0 {
		delete(d.users, user.id)
	}
}

func (d *Dealer) cashOut(ctx context.Context, userID int64, amount int) {
	if err := d.ledger.CashOut(context.WithoutCancel(ctx), d.id, userID, amount); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"user":   userID,
			"amount": amount,
		}).Error("could not cash out")
	}
}

func (d *Dealer) freeSeat() int {
	for i, u := range d.seats {
		if u == nil {
			return i
		}
	}

	return -1
}

// eligibleSeats returns the seats that can be dealt in
func (d *Dealer) eligibleSeats() []int {
	eligible := make([]int, 0, len(d.seats))
	for i, u := range d.seats {
		if u != nil && !u.buying && !u.isExiting() && u.Balance() > 0 {
			eligible = append(eligible, i)
		}
	}

	return eligible
}

// nextSeat returns the first seat after the button, wrapping around
func nextSeat(eligible []int, button int) int {
	for _, seat := range eligible {
		if seat > button {
			return seat
		}
	}

	return eligible[0]
}

func (d *Dealer) seatProps(u *User) *playable.PlayerSeatProps {
	return &playable.PlayerSeatProps{
		UserID:    u.id,
		Name:      u.name,
		Seat:      u.seat,
		Balance:   u.Balance(),
		Connected: u.IsConnected(),
	}
}

func (d *Dealer) tableInfo() *playable.TableInfoProps {
	occupied := make([]playable.SeatInfo, 0, len(d.seats))
	for i, u := range d.seats {
		if u == nil || u.buying {
			continue
		}

		occupied = append(occupied, playable.SeatInfo{
			Seat:      i,
			UserID:    u.id,
			Name:      u.name,
			Balance:   u.Balance(),
			Connected: u.IsConnected(),
		})
	}

	gameID := ""
	if d.game != nil {
		gameID = d.game.ID()
	}

	return &playable.TableInfoProps{
		Name:       d.options.Name,
		Subtype:    string(d.options.Game.Subtype),
		SmallBlind: d.options.Game.SmallBlind,
		BigBlind:   d.options.Game.BigBlind,
		BuyIn:      d.options.BuyIn,
		Seats:      len(d.seats),
		Occupied:   occupied,
		Modifiers:  holdem.ModifierNames(d.modifiers),
		GameID:     gameID,
	}
}

// broadcast persists the message and sends it to every client
func (d *Dealer) broadcast(gameID string, props playable.Props, cmd *playable.Command) *playable.Envelope {
	env := playable.NewEnvelope(d.id, gameID, props)
	if cmd != nil {
		env = env.Reply(cmd)
	}

	if err := d.store.CreateTableMsg(context.Background(), d.id, gameID, string(env.MsgType), props, env.CmdID, env.ClientID); err != nil {
		d.logger.WithError(err).WithField("msgType", env.MsgType).Error("could not persist message")
	}

	for client := range d.clients {
		d.send(client, env.RedactFor(client.UserID))
	}

	return env
}

// sendTo sends a message to one client without recording it
func (d *Dealer) sendTo(client *Client, gameID string, props playable.Props, cmd *playable.Command) {
	env := playable.NewEnvelope(d.id, gameID, props)
	if cmd != nil {
		env = env.Reply(cmd)
	}

	d.send(client, env)
}

func (d *Dealer) send(client *Client, env *playable.Envelope) {
	if !client.Send(env) {
		d.logger.WithField("client", client.String()).Warn("client is not keeping up, closing")
		client.Kick("too many pending messages")
	}
}
