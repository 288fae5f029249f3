package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadpad/spreadpad/business/rates/domain"
	"github.com/spreadpad/spreadpad/internal/logger"
)

type fakeProvider struct {
	delay time.Duration
	calls atomic.Int32
	bid   atomic.Int64

	mu  sync.Mutex
	err error
}

func (f *fakeProvider) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeProvider) Quote(ctx context.Context) (domain.Quote, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.Quote{}, ctx.Err()
		}
	}
	f.mu.Lock()
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{
		Pair:   "BTCUSDT",
		Bid:    decimal.NewFromInt(f.bid.Load()),
		At:     time.Now(),
		Source: "fake",
	}, nil
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestPoller_FirstFetchImmediate(t *testing.T) {
	provider := &fakeProvider{}
	provider.bid.Store(50000)
	p := NewPoller(provider, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := p.Start(ctx)

	select {
	case u := <-updates:
		require.NoError(t, u.Err)
		assert.True(t, u.Quote.Bid.Equal(decimal.NewFromInt(50000)))
	case <-time.After(time.Second):
		t.Fatal("no immediate fetch")
	}
}

func TestPoller_OverlappingTickDropped(t *testing.T) {
	// Each fetch takes far longer than the interval, so most ticks must
	// be dropped rather than stacking concurrent requests.
	provider := &fakeProvider{delay: 150 * time.Millisecond}
	p := NewPoller(provider, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	updates := p.Start(ctx)
	go func() {
		for range updates {
		}
	}()

	time.Sleep(300 * time.Millisecond)
	cancel()
	time.Sleep(200 * time.Millisecond)

	// ~15 ticks elapsed; with the in-flight guard at most a handful of
	// fetches can have started (initial + one per completed fetch).
	assert.LessOrEqual(t, provider.calls.Load(), int32(4))
}

func TestPoller_FailureKeepsPreviousQuote(t *testing.T) {
	provider := &fakeProvider{}
	provider.bid.Store(100)
	p := NewPoller(provider, 30*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := p.Start(ctx)

	first := <-updates
	require.NoError(t, first.Err)

	provider.fail(errors.New("endpoint down"))
	var failed Update
	select {
	case failed = <-updates:
	case <-time.After(time.Second):
		t.Fatal("no update after failure")
	}

	require.Error(t, failed.Err)
	assert.True(t, failed.Quote.Bid.Equal(decimal.NewFromInt(100)),
		"failed update carries the previous value")
	assert.True(t, p.Last().Bid.Equal(decimal.NewFromInt(100)))
}

func TestPoller_ChannelClosedOnCancel(t *testing.T) {
	p := NewPoller(&fakeProvider{}, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	updates := p.Start(ctx)
	<-updates

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}
