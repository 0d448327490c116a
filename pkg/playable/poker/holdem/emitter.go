package holdem

import "pokertable-server/pkg/playable"

// Emitter receives the messages of a game
// Emit is called from the goroutine running the hand and must not block for long.
type Emitter interface {
	Emit(gameID string, props playable.Props)
}

// EmitterFunc adapts a function to an Emitter
type EmitterFunc func(gameID string, props playable.Props)

// Emit calls the function
func (f EmitterFunc) Emit(gameID string, props playable.Props) {
	f(gameID, props)
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, playable.Props) {}
