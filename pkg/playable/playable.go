package playable

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UserError is an error whose text is safe to send to the client
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// MsgType identifies the props of an envelope
type MsgType string

// message types
const (
	TableInfo   MsgType = "TABLE_INFO"
	PlayerEnter MsgType = "PLAYER_ENTER"
	PlayerSeat  MsgType = "PLAYER_SEAT"
	PlayerExit  MsgType = "PLAYER_EXIT"
	PlayerBet   MsgType = "PLAYER_BET"
	PlayerCards MsgType = "PLAYER_CARDS"
	PlayerTurn  MsgType = "PLAYER_TURN"
	GameBegin   MsgType = "GAME_BEGIN"
	GameCards   MsgType = "GAME_CARDS"
	GameRound   MsgType = "GAME_ROUND"
	GameResult  MsgType = "GAME_RESULT"
	GameEnd     MsgType = "GAME_END"
	TableClosed MsgType = "TABLE_CLOSED"
	Error       MsgType = "ERROR"
)

// Props is the payload of an envelope
// The set of implementations is closed: every message type has exactly one props struct in this package.
type Props interface {
	MsgType() MsgType
	isProps()
}

// newProps returns an empty props value for the message type
func newProps(msgType MsgType) (Props, error) {
	switch msgType {
	case TableInfo:
		return &TableInfoProps{}, nil
	case PlayerEnter:
		return &PlayerEnterProps{}, nil
	case PlayerSeat:
		return &PlayerSeatProps{}, nil
	case PlayerExit:
		return &PlayerExitProps{}, nil
	case PlayerBet:
		return &PlayerBetProps{}, nil
	case PlayerCards:
		return &PlayerCardsProps{}, nil
	case PlayerTurn:
		return &PlayerTurnProps{}, nil
	case GameBegin:
		return &GameBeginProps{}, nil
	case GameCards:
		return &GameCardsProps{}, nil
	case GameRound:
		return &GameRoundProps{}, nil
	case GameResult:
		return &GameResultProps{}, nil
	case GameEnd:
		return &GameEndProps{}, nil
	case TableClosed:
		return &TableClosedProps{}, nil
	case Error:
		return &ErrorProps{}, nil
	}

	return nil, fmt.Errorf("unknown message type: %s", msgType)
}

// Envelope is a message sent from a table to its clients
type Envelope struct {
	MsgID    string  `json:"msgId"`
	MsgType  MsgType `json:"msgType"`
	TableID  string  `json:"tableId"`
	GameID   string  `json:"gameId,omitempty"`
	CmdID    string  `json:"cmdId,omitempty"`
	ClientID string  `json:"clientId,omitempty"`
	Props    Props   `json:"props"`
}

// NewEnvelope wraps the props in a new envelope
func NewEnvelope(tableID, gameID string, props Props) *Envelope {
	return &Envelope{
		MsgID:   uuid.New().String(),
		MsgType: props.MsgType(),
		TableID: tableID,
		GameID:  gameID,
		Props:   props,
	}
}

// Reply returns a copy of the envelope addressed as the answer to a command
func (e *Envelope) Reply(cmd *Command) *Envelope {
	reply := *e
	reply.CmdID = cmd.CmdID
	reply.ClientID = cmd.ClientID

	return &reply
}

// UnmarshalJSON decodes the props according to the message type
func (e *Envelope) UnmarshalJSON(data []byte) error {
	type envelope Envelope
	var raw struct {
		envelope
		Props json.RawMessage `json:"props"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	props, err := newProps(raw.MsgType)
	if err != nil {
		return err
	}

	if len(raw.Props) > 0 {
		if err := json.Unmarshal(raw.Props, props); err != nil {
			return err
		}
	}

	*e = Envelope(raw.envelope)
	e.Props = props
	return nil
}

// RedactFor returns the envelope as the user may see it
// Closed hole cards of other players are replaced with face-down cards.
func (e *Envelope) RedactFor(userID int64) *Envelope {
	switch props := e.Props.(type) {
	case *PlayerCardsProps:
		if props.Open || props.UserID == userID {
			return e
		}

		redacted := *props
		redacted.Cards = props.Cards.FaceDown()
		redacted.Hands = nil

		copied := *e
		copied.Props = &redacted
		return &copied
	}

	return e
}
