package service

import (
	"context"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/catalog"
	"github.com/rentpulse/rentpulse-assistant-go/internal/port"

	"go.uber.org/zap"
)

// BootstrapCities fetches the supported-city list from the demand
// collaborator once at startup. On failure it falls back to the static
// list so the assistant still answers for the major markets. The
// returned slice is read-only for the life of the process.
func BootstrapCities(ctx context.Context, lister port.CityLister, logger *zap.Logger) []string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cities, err := lister.ListCities(ctx)
	if err != nil || len(cities) == 0 {
		logger.Warn("city list bootstrap failed, using static fallback",
			zap.Error(err),
			zap.Int("fallback_count", len(catalog.FallbackCities)),
		)
		return append([]string(nil), catalog.FallbackCities...)
	}

	logger.Info("city list bootstrapped", zap.Int("count", len(cities)))
	return cities
}
