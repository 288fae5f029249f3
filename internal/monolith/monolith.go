// Package monolith provides the application container and module interface.
package monolith

import (
	"context"

	"github.com/spreadpad/spreadpad/business/settings/infra/local"
	"github.com/spreadpad/spreadpad/internal/config"
	"github.com/spreadpad/spreadpad/internal/di"
	"github.com/spreadpad/spreadpad/internal/logger"
)

// Monolith is the application container giving modules access to shared
// infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	Store() *local.Store
	Services() di.ServiceRegistry
}

// Module is a bounded context that registers services and starts up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	store     *local.Store
	container di.Container
}

// New creates the container and opens the device-local store.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	store, err := local.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	container := di.NewContainer()
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("store", store)

	return &app{
		config:    cfg,
		logger:    log,
		store:     store,
		container: container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) Store() *local.Store {
	return a.store
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close releases shared resources.
func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
