// Package providers contains dependency injection providers for tagview.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/tagandtake/tagandtake-server/internal/config"
	"github.com/tagandtake/tagandtake-server/internal/logger"
)

// ProvideLogger provides the structured logger. Logs always go to stderr.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		NoColor:     cfg.Logger.NoColor,
		AddSource:   cfg.App.Environment == "development" && cfg.Logger.Level == "debug",
		Environment: cfg.App.Environment,
	})

	log.Debug("Starting tagview",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"locale", cfg.Format.Locale,
		"currency", cfg.Format.Currency,
		"timezone", cfg.Format.TimeZone,
	)

	return log, nil
}
