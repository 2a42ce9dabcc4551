package providers

import (
	"github.com/samber/do/v2"

	"github.com/prereqs/prereqs-server/internal/config"
	"github.com/prereqs/prereqs-server/internal/logger"
	"github.com/prereqs/prereqs-server/internal/metrics"
	"github.com/prereqs/prereqs-server/internal/ratelimit"
	"github.com/prereqs/prereqs-server/internal/service"
)

// ProvideMetrics provides the Prometheus registry.
func ProvideMetrics(_ do.Injector) (*metrics.Registry, error) {
	return metrics.NewRegistry(), nil
}

// RateLimiterHandle wraps the per-client limiter. Limiter is nil when rate
// limiting is disabled.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client HTTP rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Limits.RateLimitRPS <= 0 {
		log.Info("Rate limiting disabled by configuration")
		return &RateLimiterHandle{}, nil
	}

	log.Info("Rate limiting enabled",
		"rps", cfg.Limits.RateLimitRPS,
		"burst", cfg.Limits.RateLimitBurst,
	)
	return &RateLimiterHandle{
		Limiter: ratelimit.New(cfg.Limits.RateLimitRPS, cfg.Limits.RateLimitBurst),
	}, nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	m := do.MustInvoke[*metrics.Registry](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, indexHandle.CourseIndex, m, log.Logger, service.Options{
		DetailCacheSize:  cfg.Limits.DetailCacheSize,
		SearchMaxResults: cfg.Limits.SearchMaxResults,
	})
}
