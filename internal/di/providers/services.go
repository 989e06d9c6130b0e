package providers

import (
	"github.com/samber/do/v2"

	"github.com/tagandtake/tagandtake-server/internal/config"
	"github.com/tagandtake/tagandtake-server/internal/format"
	"github.com/tagandtake/tagandtake-server/internal/logger"
	"github.com/tagandtake/tagandtake-server/internal/service"
)

// ProvideFormatter provides the date and currency formatter for the
// configured locale, currency and zone.
func ProvideFormatter(i do.Injector) (*format.Formatter, error) {
	cfg := do.MustInvoke[*config.Config](i)

	tag, err := cfg.Format.Tag()
	if err != nil {
		return nil, err
	}
	unit, err := cfg.Format.Unit()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Format.Location()
	if err != nil {
		return nil, err
	}

	return format.New(format.Options{
		Locale:   tag,
		Currency: unit,
		Location: loc,
	}), nil
}

// ProvideViewService provides the listing view service.
func ProvideViewService(i do.Injector) (*service.ViewService, error) {
	formatter := do.MustInvoke[*format.Formatter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewViewService(formatter, log.Logger)
}
