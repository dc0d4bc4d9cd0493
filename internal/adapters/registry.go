package adapters

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// NewAdapters builds the adapter registry for the configured sites.
// The adapter set is closed at compile time; a configured site with no
// matching adapter is logged and skipped rather than failing startup.
func NewAdapters(sites []models.SiteConfig, logger arbor.ILogger) map[string]interfaces.SiteAdapter {
	registry := make(map[string]interfaces.SiteAdapter, len(sites))

	for _, site := range sites {
		if !site.Enabled {
			continue
		}

		switch site.ID {
		case "booking":
			registry[site.ID] = NewBookingAdapter(site, logger)
		case "agoda":
			registry[site.ID] = NewAgodaAdapter(site, logger)
		case "hotels":
			registry[site.ID] = NewHotelsAdapter(site, logger)
		default:
			logger.Warn().Str("site_id", site.ID).Msg("No adapter implemented for configured site, skipping")
		}
	}

	return registry
}
