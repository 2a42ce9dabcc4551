// Package providers contains dependency injection providers for the prereqs server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/prereqs/prereqs-server/internal/config"
	"github.com/prereqs/prereqs-server/internal/logger"
)

// ProvideConfig returns a provider that loads configuration from args and the
// environment.
func ProvideConfig(args []string) do.Provider[*config.Config] {
	return func(_ do.Injector) (*config.Config, error) {
		return config.Load(args)
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting prereqs server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"course_dirs", cfg.Catalog.Dirs,
	)

	return log, nil
}
