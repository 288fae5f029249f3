// Package di contains dependency injection tokens for the rates context.
package di

import (
	"github.com/spreadpad/spreadpad/business/rates/app"
	"github.com/spreadpad/spreadpad/business/rates/infra/binance"
	"github.com/spreadpad/spreadpad/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Poller = di.NewToken[*app.Poller]("rates.Poller")
)

// Private dependency tokens - internal to rates module
var (
	Provider = di.NewToken[app.Provider]("rates:provider")
	Stream   = di.NewToken[*binance.Stream]("rates:stream")
)

// Helper functions for type-safe access
func GetPoller(c di.ServiceRegistry) *app.Poller {
	return di.GetToken(c, Poller)
}

func GetProvider(c di.ServiceRegistry) app.Provider {
	return di.GetToken(c, Provider)
}

func GetStream(c di.ServiceRegistry) *binance.Stream {
	return di.GetToken(c, Stream)
}
