// Package binance fetches exchange-rate quotes from the Binance public
// API, over HTTP for polling and over a websocket stream for live ticks.
package binance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/spreadpad/spreadpad/business/rates/domain"
	"github.com/spreadpad/spreadpad/internal/apperror"
	"github.com/spreadpad/spreadpad/internal/circuitbreaker"
	"github.com/spreadpad/spreadpad/internal/httpclient"
	"github.com/spreadpad/spreadpad/internal/logger"
)

const sourceName = "binance"

// bookTicker is the /api/v3/ticker/bookTicker response.
type bookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	AskPrice string `json:"askPrice"`
}

// Provider fetches the current bid for a pair over HTTP. The circuit
// breaker fails fast while the endpoint is flapping instead of stacking
// timed-out requests behind the poll interval.
type Provider struct {
	http httpclient.Client
	pair string
	cb   *circuitbreaker.Breaker[domain.Quote]
}

// NewProvider creates the HTTP quote provider for one pair, e.g. "BTCUSDT".
func NewProvider(http httpclient.Client, pair string, log logger.LoggerInterface) *Provider {
	cfg := circuitbreaker.DefaultConfig("rates-http")
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	return &Provider{
		http: http,
		pair: pair,
		cb:   circuitbreaker.New[domain.Quote](cfg),
	}
}

// Quote fetches the current bid. Failures yield CodeRateFetchFailed (or
// CodeCircuitOpen while the breaker is tripped); the caller keeps showing
// the previous value and does not retry.
func (p *Provider) Quote(ctx context.Context) (domain.Quote, error) {
	quote, err := p.cb.Execute(func() (domain.Quote, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return domain.Quote{}, apperror.New(apperror.CodeCircuitOpen, apperror.WithContext(p.pair))
		}
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeRateFetchFailed, p.pair)
	}
	return quote, nil
}

func (p *Provider) fetch(ctx context.Context) (domain.Quote, error) {
	var ticker bookTicker
	resp, err := p.http.NewRequest().
		SetQueryParam("symbol", p.pair).
		SetResult(&ticker).
		Get(ctx, "/api/v3/ticker/bookTicker")
	if err != nil {
		return domain.Quote{}, apperror.External(apperror.CodeRateFetchFailed, "book ticker", err)
	}
	if resp.IsError() {
		return domain.Quote{}, apperror.External(apperror.CodeRateFetchFailed, resp.Status, nil)
	}

	bid, err := decimal.NewFromString(ticker.BidPrice)
	if err != nil {
		return domain.Quote{}, apperror.Internal(apperror.CodeInvalidFormat, "bid price "+ticker.BidPrice, err)
	}

	return domain.Quote{
		Pair:   p.pair,
		Bid:    bid,
		At:     time.Now(),
		Source: sourceName,
	}, nil
}
