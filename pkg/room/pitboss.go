package room

import (
	"context"
	"sort"
	"sync"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PitBoss is responsible for the open tables
type PitBoss struct {
	logger logrus.FieldLogger
	store  Persistence
	ledger Ledger
	clock  quartz.Clock

	// ctx outlives the requests that open tables
	ctx context.Context

	mu      sync.RWMutex
	dealers map[string]*Dealer
}

// NewPitBoss returns a new dispatch object
// The tables it opens run until ctx is done or Shutdown is called.
func NewPitBoss(ctx context.Context, logger logrus.FieldLogger, store Persistence, ledger Ledger, clock quartz.Clock) *PitBoss {
	return &PitBoss{
		logger:  logger,
		store:   store,
		ledger:  ledger,
		clock:   clock,
		ctx:     ctx,
		dealers: make(map[string]*Dealer),
	}
}

// OpenTable creates a table and starts its dealer
func (p *PitBoss) OpenTable(ctx context.Context, opts Options) (*Dealer, error) {
	id := uuid.New().String()
	dealer, err := NewDealer(p.logger, id, opts, p.store, p.ledger, p.clock)
	if err != nil {
		return nil, err
	}

	if err := p.store.CreateTable(ctx, id, opts.Name, opts); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.dealers[id] = dealer
	p.mu.Unlock()

	dealer.StartShift(p.ctx)
	p.logger.WithFields(logrus.Fields{
		"table": id,
		"name":  opts.Name,
	}).Info("table opened")

	return dealer, nil
}

// Dealer returns the dealer of the table
func (p *PitBoss) Dealer(tableID string) (*Dealer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	d, ok := p.dealers[tableID]
	return d, ok
}

// Tables returns a summary of every open table sorted by name
func (p *PitBoss) Tables() []Summary {
	p.mu.RLock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, d := range p.dealers {
		dealers = append(dealers, d)
	}
	p.mu.RUnlock()

	summaries := make([]Summary, len(dealers))
	for i, d := range dealers {
		summaries[i] = d.Summary()
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name == summaries[j].Name {
			return summaries[i].ID < summaries[j].ID
		}

		return summaries[i].Name < summaries[j].Name
	})

	return summaries
}

// CloseTable ends the shift of one table
func (p *PitBoss) CloseTable(ctx context.Context, tableID string) error {
	p.mu.Lock()
	d, ok := p.dealers[tableID]
	delete(p.dealers, tableID)
	p.mu.Unlock()

	if !ok {
		return ErrTableClosed
	}

	return d.EndShift(ctx)
}

// Shutdown closes every table concurrently
// A table failing to close does not stop the others.
func (p *PitBoss) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	dealers := p.dealers
	p.dealers = make(map[string]*Dealer)
	p.mu.Unlock()

	var g errgroup.Group
	for _, d := range dealers {
		d := d
		g.Go(func() error {
			return d.EndShift(ctx)
		})
	}

	return g.Wait()
}
