package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"pokertable-server/pkg/playable"
)

// Client is a client connected to the server via websockets
type Client struct {
	// ID identifies the connection, a user may have several
	ID     string
	UserID int64
	Name   string

	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan *playable.Envelope

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer
}

// NewClient returns a new client object for the table run by dealer
// The client receives nothing until it joins.
func NewClient(conn *websocket.Conn, userID int64, name string, dealer *Dealer) *Client {
	return &Client{
		dealer: dealer,
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Conn:   conn,
		send:   make(chan *playable.Envelope, 256),
		Close:  make(chan string, 1),
	}
}

// Send sends a message to the web client
// Returns false if the client's buffer is full.
func (c *Client) Send(msg *playable.Envelope) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan *playable.Envelope {
	return c.send
}

// Kick asks the write loop to close the connection
func (c *Client) Kick(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

// String returns a traceable identifier for the user and connection
func (c *Client) String() string {
	return fmt.Sprintf("%d:%s", c.UserID, c.ID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(ctx context.Context, data []byte) {
	cmd, err := playable.DecodeCommand(data, c.UserID, c.ID)
	if err != nil {
		c.Send(playable.NewEnvelope("", "", newErrorProps(err)))
		return
	}

	if c.dealer == nil {
		logrus.WithField("client", c.String()).Warn("received message, but dealer not found")
		c.Send(playable.NewEnvelope("", "", newErrorProps(ErrNotJoined)).Reply(cmd))
		return
	}

	c.dealer.HandleCommand(ctx, c, cmd)
}
