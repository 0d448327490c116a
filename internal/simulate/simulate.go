// Package simulate plays a table with bots in memory
package simulate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"pokertable-server/internal/rng"
	"pokertable-server/internal/util"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/room"
	"pokertable-server/pkg/table"
)

// bankrollBuyIns is the bankroll of every bot in buy-ins
const bankrollBuyIns = 10

// observerID is the user id of the client counting hands, it never sits down
const observerID = 0

// Config configures a simulation
type Config struct {
	Players  int
	Hands    int
	Seed     int64
	Strategy Strategy
	Options  room.Options
}

// Result is the standing of a bot once the table closed
type Result struct {
	UserID   int64
	Name     string
	Bankroll int
	Delta    int
}

// Report summarizes a simulation
type Report struct {
	TableID   string
	Hands     int
	Showdowns int
	Aborted   int
	Seed      int64
	Results   []Result
}

// ErrChipsNotConserved is returned when the bankrolls do not add up after the table closed
var ErrChipsNotConserved = errors.New("chips were not conserved")

// Run seats cfg.Players bots at a table and plays until cfg.Hands hands are over
// The table also stops when too few bots can afford a seat.
func Run(ctx context.Context, logger logrus.FieldLogger, cfg Config) (*Report, error) {
	if cfg.Players < cfg.Options.MinPlayers || cfg.Players > cfg.Options.Seats {
		return nil, fmt.Errorf("players must be between %d and %d", cfg.Options.MinPlayers, cfg.Options.Seats)
	}

	if cfg.Hands <= 0 {
		return nil, errors.New("hands must be > 0")
	}

	if cfg.Seed == 0 {
		cfg.Seed = rng.Seed()
	}

	start := cfg.Options.BuyIn * bankrollBuyIns
	bankrolls := make(map[int64]int, cfg.Players)
	for i := 1; i <= cfg.Players; i++ {
		bankrolls[int64(i)] = start
	}

	store := table.NewMemoryStore()
	ledger := table.NewMemoryLedger(bankrolls)
	dealer, err := room.NewDealer(logger, uuid.New().String(), cfg.Options, store, ledger, quartz.NewReal())
	if err != nil {
		return nil, err
	}

	if err := store.CreateTable(ctx, dealer.ID(), cfg.Options.Name, cfg.Options); err != nil {
		return nil, err
	}

	report := &Report{TableID: dealer.ID(), Seed: cfg.Seed}
	observer := room.NewClient(nil, observerID, "observer", dealer)
	if err := dealer.Join(ctx, observer, nil); err != nil {
		return nil, err
	}

	bots := make([]*bot, cfg.Players)
	for i := range bots {
		userID := int64(i + 1)
		bots[i] = &bot{
			logger:   logger.WithField("bot", userID),
			dealer:   dealer,
			client:   room.NewClient(nil, userID, util.GetRandomName(), dealer),
			strategy: cfg.Strategy,
			gen:      rng.Seeded(cfg.Seed + userID),
		}

		seat := i
		if err := dealer.Join(ctx, bots[i].client, &seat); err != nil {
			_ = dealer.EndShift(ctx)
			return nil, fmt.Errorf("could not seat bot %d: %w", userID, err)
		}
	}

	broke := make(chan struct{}, cfg.Players)

	var g errgroup.Group
	for _, b := range bots {
		b := b
		g.Go(func() error {
			return b.play(ctx, broke)
		})
	}

	dealer.StartShift(ctx)
	watchErr := watch(ctx, observer, cfg, report, broke)
	if err := dealer.EndShift(context.WithoutCancel(ctx)); err != nil {
		return nil, err
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if watchErr != nil {
		return nil, watchErr
	}

	total := 0
	for _, b := range bots {
		balance, err := ledger.Bankroll(ctx, b.client.UserID)
		if err != nil {
			return nil, err
		}

		total += balance
		report.Results = append(report.Results, Result{
			UserID:   b.client.UserID,
			Name:     b.client.Name,
			Bankroll: balance,
			Delta:    balance - start,
		})
	}

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Delta > report.Results[j].Delta
	})

	if total != start*cfg.Players {
		return report, fmt.Errorf("%w: %d != %d", ErrChipsNotConserved, total, start*cfg.Players)
	}

	return report, nil
}

// watch counts the hands until enough were played or too few bots are left
func watch(ctx context.Context, observer *room.Client, cfg Config, report *Report, broke <-chan struct{}) error {
	remaining := cfg.Players
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-broke:
			if remaining--; remaining < cfg.Options.MinPlayers {
				return nil
			}
		case env := <-observer.SendChan():
			switch props := env.Props.(type) {
			case *playable.GameResultProps:
				if props.Showdown {
					report.Showdowns++
				}
			case *playable.GameEndProps:
				if props.Aborted {
					report.Aborted++
				}

				if report.Hands++; report.Hands >= cfg.Hands {
					return nil
				}
			}
		}
	}
}
