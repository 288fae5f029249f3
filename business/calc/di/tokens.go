// Package di contains dependency injection tokens for the calc context.
package di

import (
	"github.com/spreadpad/spreadpad/business/calc/app"
	"github.com/spreadpad/spreadpad/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Recorder = di.NewToken[*app.Recorder]("calc.Recorder")
)

// Helper functions for type-safe access
func GetRecorder(c di.ServiceRegistry) *app.Recorder {
	return di.GetToken(c, Recorder)
}
