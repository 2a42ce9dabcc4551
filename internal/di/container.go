// Package di provides dependency injection configuration for the prereqs server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/prereqs/prereqs-server/internal/config"
	"github.com/prereqs/prereqs-server/internal/di/providers"
	"github.com/prereqs/prereqs-server/internal/domain"
	"github.com/prereqs/prereqs-server/internal/logger"
	"github.com/prereqs/prereqs-server/internal/metrics"
	"github.com/prereqs/prereqs-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line arguments without the program name.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig(args))
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogSet)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Catalog loading happens here, so a bad
// course directory fails startup instead of the first request.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Registry](injector)

	if _, err := do.Invoke[*domain.CatalogSet](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.CatalogService](injector); err != nil {
		return err
	}

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
