package playable

import (
	"time"

	"pokertable-server/pkg/deck"
	"pokertable-server/pkg/playable/poker/action"
	"pokertable-server/pkg/playable/poker/handanalyzer"
	"pokertable-server/pkg/playable/poker/potmanager"
)

// SeatInfo describes an occupied seat
type SeatInfo struct {
	Seat      int    `json:"seat"`
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Balance   int    `json:"balance"`
	Connected bool   `json:"connected"`
}

// TableInfoProps is sent to a client when it joins a table
type TableInfoProps struct {
	Name       string     `json:"name"`
	Subtype    string     `json:"subtype"`
	SmallBlind int        `json:"smallBlind"`
	BigBlind   int        `json:"bigBlind"`
	BuyIn      int        `json:"buyIn"`
	Seats      int        `json:"seats"`
	Occupied   []SeatInfo `json:"occupied"`
	Modifiers  []string   `json:"modifiers"`
	GameID     string     `json:"gameId,omitempty"`
}

// PlayerEnterProps announces a user connecting to the table
type PlayerEnterProps struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}

// PlayerSeatProps announces a change of an occupied seat
type PlayerSeatProps struct {
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Balance   int    `json:"balance"`
	Connected bool   `json:"connected"`
}

// PlayerExitProps announces a user leaving the table
// Seat is -1 when the user was not seated.
type PlayerExitProps struct {
	UserID  int64 `json:"userId"`
	Seat    int   `json:"seat"`
	CashOut int   `json:"cashOut"`
}

// PlayerBetProps announces a bet, forced or chosen
type PlayerBetProps struct {
	UserID    int64         `json:"userId"`
	Action    action.Action `json:"action"`
	Amount    int           `json:"amount"`
	BetAmount int           `json:"betAmount"`
	BetTotal  int           `json:"betTotal"`
	Balance   int           `json:"balance"`
	AllIn     bool          `json:"allIn"`
	Timeout   bool          `json:"timeout,omitempty"`
}

// PlayerCardsProps carries a player's hole cards
type PlayerCardsProps struct {
	UserID int64               `json:"userId"`
	Cards  deck.Hand           `json:"cards"`
	Open   bool                `json:"open"`
	Hands  []handanalyzer.Hand `json:"hands,omitempty"`
}

// PlayerTurnProps solicits a decision from a player
type PlayerTurnProps struct {
	UserID   int64             `json:"userId"`
	Options  action.BetOptions `json:"options"`
	Deadline time.Time         `json:"deadline"`
}

// GamePlayer is a player dealt into a game
type GamePlayer struct {
	UserID  int64  `json:"userId"`
	Name    string `json:"name"`
	Balance int    `json:"balance"`
	Role    int    `json:"role"`
}

// GameBeginProps announces a new hand
type GameBeginProps struct {
	Subtype    string       `json:"subtype"`
	SmallBlind int          `json:"smallBlind"`
	BigBlind   int          `json:"bigBlind"`
	Boards     int          `json:"boards"`
	Players    []GamePlayer `json:"players"`
	Modifiers  []string     `json:"modifiers"`
	DeckHash   string       `json:"deckHash"`
}

// GameCardsProps carries cards dealt to a board
type GameCardsProps struct {
	Round string    `json:"round"`
	Board int       `json:"board"`
	Cards deck.Hand `json:"cards"`
	All   deck.Hand `json:"all"`
}

// GameRoundProps is sent at the end of each betting round
type GameRoundProps struct {
	Round string           `json:"round"`
	Banks potmanager.Banks `json:"banks"`
}

// Win is a share of a bank awarded to a player
type Win struct {
	Bank    int    `json:"bank"`
	Board   int    `json:"board"`
	Portion string `json:"portion"`
	UserID  int64  `json:"userId"`
	Amount  int    `json:"amount"`
	Hand    string `json:"hand,omitempty"`
}

// GameResultProps carries the outcome of a hand
type GameResultProps struct {
	Showdown bool                          `json:"showdown"`
	Winners  []Win                         `json:"winners"`
	Deltas   map[int64]int                 `json:"deltas"`
	Hands    map[int64][]handanalyzer.Hand `json:"hands,omitempty"`
	Boards   []deck.Hand                   `json:"boards"`
}

// GameEndProps is sent when a hand is over
type GameEndProps struct {
	Aborted  bool          `json:"aborted"`
	Balances map[int64]int `json:"balances"`
}

// TableClosedProps is sent when a table shuts down
type TableClosedProps struct {
	Reason string `json:"reason"`
}

// ErrorProps rejects a command
type ErrorProps struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MsgType implementations

func (*TableInfoProps) MsgType() MsgType   { return TableInfo }
func (*PlayerEnterProps) MsgType() MsgType { return PlayerEnter }
func (*PlayerSeatProps) MsgType() MsgType  { return PlayerSeat }
func (*PlayerExitProps) MsgType() MsgType  { return PlayerExit }
func (*PlayerBetProps) MsgType() MsgType   { return PlayerBet }
func (*PlayerCardsProps) MsgType() MsgType { return PlayerCards }
func (*PlayerTurnProps) MsgType() MsgType  { return PlayerTurn }
func (*GameBeginProps) MsgType() MsgType   { return GameBegin }
func (*GameCardsProps) MsgType() MsgType   { return GameCards }
func (*GameRoundProps) MsgType() MsgType   { return GameRound }
func (*GameResultProps) MsgType() MsgType  { return GameResult }
func (*GameEndProps) MsgType() MsgType     { return GameEnd }
func (*TableClosedProps) MsgType() MsgType { return TableClosed }
func (*ErrorProps) MsgType() MsgType       { return Error }

func (*TableInfoProps) isProps()   {}
func (*PlayerEnterProps) isProps() {}
func (*PlayerSeatProps) isProps()  {}
func (*PlayerExitProps) isProps()  {}
func (*PlayerBetProps) isProps()   {}
func (*PlayerCardsProps) isProps() {}
func (*PlayerTurnProps) isProps()  {}
func (*GameBeginProps) isProps()   {}
func (*GameCardsProps) isProps()   {}
func (*GameRoundProps) isProps()   {}
func (*GameResultProps) isProps()  {}
func (*GameEndProps) isProps()     {}
func (*TableClosedProps) isProps() {}
func (*ErrorProps) isProps()       {}
