// Package calc implements the calculator bounded context: tabbed
// instances, pure formulas and the capped calculation history.
package calc

import (
	"context"

	"github.com/spreadpad/spreadpad/business/calc/app"
	calcDI "github.com/spreadpad/spreadpad/business/calc/di"
	"github.com/spreadpad/spreadpad/business/settings/infra/local"
	"github.com/spreadpad/spreadpad/internal/di"
	"github.com/spreadpad/spreadpad/internal/logger"
	"github.com/spreadpad/spreadpad/internal/monolith"
)

// Module implements the calc bounded context.
type Module struct{}

// RegisterServices registers calc services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, calcDI.Recorder, func(sr di.ServiceRegistry) *app.Recorder {
		store := sr.Get("store").(*local.Store)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewRecorder(context.Background(), store, log)
	})
	return nil
}

// Startup initializes the calc module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "calc module started")
	return nil
}
