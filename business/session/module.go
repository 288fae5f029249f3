// Package session implements the session bounded context: login, token
// storage and the logout-on-invalid rule.
package session

import (
	"context"

	"github.com/spreadpad/spreadpad/business/session/app"
	sessionDI "github.com/spreadpad/spreadpad/business/session/di"
	"github.com/spreadpad/spreadpad/business/session/infra/api"
	"github.com/spreadpad/spreadpad/business/settings/infra/local"
	"github.com/spreadpad/spreadpad/internal/config"
	"github.com/spreadpad/spreadpad/internal/di"
	"github.com/spreadpad/spreadpad/internal/httpclient"
	"github.com/spreadpad/spreadpad/internal/logger"
	"github.com/spreadpad/spreadpad/internal/monolith"
)

// Module implements the session bounded context.
type Module struct{}

// RegisterServices registers session services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, sessionDI.Service, func(sr di.ServiceRegistry) *app.Service {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		store := sr.Get("store").(*local.Store)

		client, err := httpclient.New(
			httpclient.WithProviderName("auth-api"),
			httpclient.WithBaseURL(cfg.API.BaseURL),
			httpclient.WithRequestTimeout(cfg.API.RequestTimeout),
		)
		if err != nil {
			panic("failed to create auth api client: " + err.Error())
		}

		return app.NewService(api.NewClient(client), store, log)
	})
	return nil
}

// Startup restores the previous session from the stored token, if any.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	service := sessionDI.GetService(mono.Services())

	if sess := service.Resume(ctx); sess != nil {
		log.Info(ctx, "session resumed", "user", sess.User.Username)
	} else {
		log.Info(ctx, "no stored session, starting logged out")
	}
	return nil
}
