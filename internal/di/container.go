// Package di provides dependency injection configuration for tagview.
package di

import (
	"github.com/samber/do/v2"

	"github.com/tagandtake/tagandtake-server/internal/config"
	"github.com/tagandtake/tagandtake-server/internal/di/providers"
	"github.com/tagandtake/tagandtake-server/internal/format"
	"github.com/tagandtake/tagandtake-server/internal/logger"
	"github.com/tagandtake/tagandtake-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// The configuration is loaded by the caller so that its errors keep their
// exit status.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)

	// Business services
	do.Provide(injector, providers.ProvideFormatter)
	do.Provide(injector, providers.ProvideViewService)

	// Workers
	do.Provide(injector, providers.ProvideWatcher)

	return injector
}

// Bootstrap initializes the core services so configuration problems surface
// before any input is read. The watcher stays lazy; it needs WatchPaths.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*format.Formatter](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.ViewService](injector); err != nil {
		return err
	}
	return nil
}
