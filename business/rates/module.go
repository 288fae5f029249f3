// Package rates implements the exchange-rate bounded context: a polled
// HTTP bid source plus an optional live websocket stream.
package rates

import (
	"context"

	"github.com/spreadpad/spreadpad/business/rates/app"
	ratesDI "github.com/spreadpad/spreadpad/business/rates/di"
	"github.com/spreadpad/spreadpad/business/rates/infra/binance"
	"github.com/spreadpad/spreadpad/internal/config"
	"github.com/spreadpad/spreadpad/internal/di"
	"github.com/spreadpad/spreadpad/internal/httpclient"
	"github.com/spreadpad/spreadpad/internal/logger"
	"github.com/spreadpad/spreadpad/internal/monolith"
)

// Module implements the rates bounded context.
type Module struct{}

// RegisterServices registers rates services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, ratesDI.Provider, func(sr di.ServiceRegistry) app.Provider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := httpclient.New(
			httpclient.WithProviderName("rates-api"),
			httpclient.WithBaseURL(cfg.Rates.Endpoint),
			httpclient.WithRequestTimeout(cfg.API.RequestTimeout),
		)
		if err != nil {
			panic("failed to create rates client: " + err.Error())
		}
		return binance.NewProvider(client, cfg.Rates.Pair, log)
	})

	di.RegisterToken(c, ratesDI.Poller, func(sr di.ServiceRegistry) *app.Poller {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewPoller(ratesDI.GetProvider(sr), cfg.Rates.PollInterval, log)
	})

	di.RegisterToken(c, ratesDI.Stream, func(sr di.ServiceRegistry) *binance.Stream {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return binance.NewStream(cfg.Rates.StreamURL, cfg.Rates.Pair, log)
	})

	return nil
}

// Startup initializes the rates module. The poller itself is started by
// the UI so its updates land on the interaction loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "rates module started",
		"pair", mono.Config().Rates.Pair,
		"interval", mono.Config().Rates.PollInterval.String(),
		"stream", mono.Config().Rates.Stream)
	return nil
}
