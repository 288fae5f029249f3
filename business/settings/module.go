// Package settings implements the settings bounded context: dual
// local/remote persistence of the snapshot with merge-on-load.
package settings

import (
	"context"

	"github.com/spreadpad/spreadpad/business/settings/app"
	settingsDI "github.com/spreadpad/spreadpad/business/settings/di"
	"github.com/spreadpad/spreadpad/business/settings/infra/local"
	"github.com/spreadpad/spreadpad/business/settings/infra/remote"
	sessionDI "github.com/spreadpad/spreadpad/business/session/di"
	"github.com/spreadpad/spreadpad/internal/config"
	"github.com/spreadpad/spreadpad/internal/di"
	"github.com/spreadpad/spreadpad/internal/httpclient"
	"github.com/spreadpad/spreadpad/internal/logger"
	"github.com/spreadpad/spreadpad/internal/monolith"
	"github.com/spreadpad/spreadpad/internal/ratelimit"
)

// Module implements the settings bounded context.
type Module struct{}

// RegisterServices registers settings services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, settingsDI.Synchronizer, func(sr di.ServiceRegistry) *app.Synchronizer {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		store := sr.Get("store").(*local.Store)

		client, err := httpclient.New(
			httpclient.WithProviderName("settings-api"),
			httpclient.WithBaseURL(cfg.API.BaseURL),
			httpclient.WithRequestTimeout(cfg.API.RequestTimeout),
		)
		if err != nil {
			panic("failed to create settings api client: " + err.Error())
		}

		limiter := ratelimit.PerMinute(cfg.Sync.WritesPerMinute)
		return app.NewSynchronizer(store, remote.NewClient(client, limiter), log, cfg.Sync.RemoteDebounce)
	})
	return nil
}

// Startup hands the resumed session token to the synchronizer so the
// remote path is live from the first change.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	sync := settingsDI.GetSynchronizer(mono.Services())
	session := sessionDI.GetService(mono.Services())

	if token := session.Token(); token != "" {
		sync.SetToken(token)
	}

	mono.Logger().Info(ctx, "settings module started")
	return nil
}
