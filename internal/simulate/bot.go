package simulate

import (
	"context"

	"github.com/sirupsen/logrus"
	"pokertable-server/internal/rng"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/room"
)

// bot plays the turns of one seated user
type bot struct {
	logger   logrus.FieldLogger
	dealer   *room.Dealer
	client   *room.Client
	strategy Strategy
	gen      rng.Generator
}

// play answers the bot's turns until the table closes
// A bot that lost its stack buys in again, broke is signalled when the bankroll cannot cover it.
func (b *bot) play(ctx context.Context, broke chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.client.Close:
			return nil
		case env := <-b.client.SendChan():
			switch props := env.Props.(type) {
			case *playable.PlayerTurnProps:
				if props.UserID != b.client.UserID {
					continue
				}

				act, amount := b.strategy(b.gen, props.Options)
				if err := b.dealer.Bet(b.client.UserID, act, amount); err != nil {
					b.logger.WithError(err).WithField("action", act).Warn("bet was rejected")
				}
			case *playable.PlayerExitProps:
				if props.UserID != b.client.UserID {
					continue
				}

				if err := b.dealer.TakeSeat(ctx, b.client.UserID, -1); err != nil {
					b.logger.WithError(err).Info("bot leaves the table")
					broke <- struct{}{}
					return nil
				}

				b.logger.Debug("bot bought in again")
			}
		}
	}
}
