// Package di contains dependency injection tokens for the session context.
package di

import (
	"github.com/spreadpad/spreadpad/business/session/app"
	"github.com/spreadpad/spreadpad/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Service = di.NewToken[*app.Service]("session.Service")
)

// Helper functions for type-safe access
func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}
