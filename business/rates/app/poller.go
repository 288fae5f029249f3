// Package app drives the periodic exchange-rate refresh.
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spreadpad/spreadpad/business/rates/domain"
	"github.com/spreadpad/spreadpad/internal/logger"
)

// Provider fetches the current quote for the configured pair.
type Provider interface {
	Quote(ctx context.Context) (domain.Quote, error)
}

// Update is one poll outcome. On failure Quote carries the previous
// value so consumers can keep displaying it.
type Update struct {
	Quote domain.Quote
	Err   error
}

// Poller fetches on a fixed interval. A tick that arrives while the
// previous request is still in flight is dropped, so a slow endpoint
// never stacks overlapping requests.
type Poller struct {
	provider Provider
	interval time.Duration
	log      logger.LoggerInterface

	inFlight atomic.Bool
	last     atomic.Pointer[domain.Quote]
}

// NewPoller creates a poller.
func NewPoller(provider Provider, interval time.Duration, log logger.LoggerInterface) *Poller {
	return &Poller{provider: provider, interval: interval, log: log}
}

// Start begins polling until ctx is cancelled. The first fetch happens
// immediately. The returned channel is closed on teardown.
func (p *Poller) Start(ctx context.Context) <-chan Update {
	updates := make(chan Update, 1)
	go p.run(ctx, updates)
	return updates
}

func (p *Poller) run(ctx context.Context, updates chan<- Update) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	p.poll(ctx, updates)
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			close(updates)
			return
		case <-ticker.C:
			if !p.inFlight.CompareAndSwap(false, true) {
				p.log.Debug(ctx, "rate poll still in flight, dropping tick")
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer p.inFlight.Store(false)
				p.poll(ctx, updates)
			}()
		}
	}
}

func (p *Poller) poll(ctx context.Context, updates chan<- Update) {
	quote, err := p.provider.Quote(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.log.Warn(ctx, "rate fetch failed", "error", err)
		select {
		case updates <- Update{Quote: p.Last(), Err: err}:
		case <-ctx.Done():
		}
		return
	}

	p.last.Store(&quote)
	select {
	case updates <- Update{Quote: quote}:
	case <-ctx.Done():
	}
}

// Last returns the most recent successful quote, zero when none yet.
func (p *Poller) Last() domain.Quote {
	if q := p.last.Load(); q != nil {
		return *q
	}
	return domain.Quote{}
}
