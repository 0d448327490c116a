package playable

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"pokertable-server/pkg/playable/poker/action"
)

// CmdType identifies the props of a command
type CmdType string

// command types
const (
	CmdJoin     CmdType = "JOIN"
	CmdTakeSeat CmdType = "TAKE_SEAT"
	CmdExit     CmdType = "EXIT"
	CmdBet      CmdType = "BET"
	CmdRebuy    CmdType = "REBUY"
)

// CommandProps is the payload of a command
type CommandProps interface {
	CmdType() CmdType
	isCommandProps()
}

// JoinProps connects the user to the table
// Seat is optional. When set the user is also seated.
type JoinProps struct {
	Seat *int `json:"seat,omitempty"`
}

// TakeSeatProps seats a connected user
type TakeSeatProps struct {
	Seat int `json:"seat"`
}

// ExitProps leaves the table
type ExitProps struct{}

// BetProps is a betting decision
type BetProps struct {
	Action action.Action `json:"action"`
	Amount int           `json:"amount"`
}

// RebuyProps adds chips to a seat
type RebuyProps struct {
	Amount int `json:"amount"`
}

func (*JoinProps) CmdType() CmdType     { return CmdJoin }
func (*TakeSeatProps) CmdType() CmdType { return CmdTakeSeat }
func (*ExitProps) CmdType() CmdType     { return CmdExit }
func (*BetProps) CmdType() CmdType      { return CmdBet }
func (*RebuyProps) CmdType() CmdType    { return CmdRebuy }

func (*JoinProps) isCommandProps()     {}
func (*TakeSeatProps) isCommandProps() {}
func (*ExitProps) isCommandProps()     {}
func (*BetProps) isCommandProps()      {}
func (*RebuyProps) isCommandProps()    {}

// Command is a request from a client to a table
type Command struct {
	CmdID    string       `json:"cmdId"`
	CmdType  CmdType      `json:"cmdType"`
	UserID   int64        `json:"userId"`
	ClientID string       `json:"clientId"`
	Props    CommandProps `json:"props"`
}

// NewCommand returns a command with a fresh id
func NewCommand(userID int64, clientID string, props CommandProps) *Command {
	return &Command{
		CmdID:    uuid.New().String(),
		CmdType:  props.CmdType(),
		UserID:   userID,
		ClientID: clientID,
		Props:    props,
	}
}

func newCommandProps(cmdType CmdType) (CommandProps, error) {
	switch cmdType {
	case CmdJoin:
		return &JoinProps{}, nil
	case CmdTakeSeat:
		return &TakeSeatProps{}, nil
	case CmdExit:
		return &ExitProps{}, nil
	case CmdBet:
		return &BetProps{}, nil
	case CmdRebuy:
		return &RebuyProps{}, nil
	}

	return nil, UserError(fmt.Sprintf("unknown command type: %s", cmdType))
}

// DecodeCommand decodes a command sent by an authenticated user
// The user and client ids come from the connection, never from the payload.
func DecodeCommand(data []byte, userID int64, clientID string) (*Command, error) {
	var raw struct {
		CmdID   string          `json:"cmdId"`
		CmdType CmdType         `json:"cmdType"`
		Props   json.RawMessage `json:"props"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, UserError(fmt.Sprintf("malformed command: %s", err))
	}

	props, err := newCommandProps(raw.CmdType)
	if err != nil {
		return nil, err
	}

	if len(raw.Props) > 0 && string(raw.Props) != "null" {
		if err := json.Unmarshal(raw.Props, props); err != nil {
			return nil, UserError(fmt.Sprintf("malformed %s props: %s", raw.CmdType, err))
		}
	}

	cmdID := raw.CmdID
	if cmdID == "" {
		cmdID = uuid.New().String()
	}

	return &Command{
		CmdID:    cmdID,
		CmdType:  raw.CmdType,
		UserID:   userID,
		ClientID: clientID,
		Props:    props,
	}, nil
}
