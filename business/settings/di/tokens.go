// Package di contains dependency injection tokens for the settings context.
package di

import (
	"github.com/spreadpad/spreadpad/business/settings/app"
	"github.com/spreadpad/spreadpad/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Synchronizer = di.NewToken[*app.Synchronizer]("settings.Synchronizer")
)

// Helper functions for type-safe access
func GetSynchronizer(c di.ServiceRegistry) *app.Synchronizer {
	return di.GetToken(c, Synchronizer)
}
