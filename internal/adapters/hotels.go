package adapters

import (
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// NewHotelsAdapter creates the Hotels.com site adapter.
func NewHotelsAdapter(site models.SiteConfig, logger arbor.ILogger) *htmlAdapter {
	return &htmlAdapter{
		site:     site,
		buildURL: hotelsSearchURL,
		selectors: selectorSet{
			card:  []string{"[data-stid='lodging-card-responsive']", ".hotel-wrap", "li.listing"},
			name:  []string{"[data-stid='content-hotel-title']", ".p-name", "h3"},
			price: []string{"[data-stid='price-lockup']", ".price-lockup", ".price"},
			link:  []string{"a[data-stid='open-hotel-information']", "a.property-name-link", "h3 a"},
		},
		logger: logger,
	}
}

func hotelsSearchURL(base string, req *models.SearchRequest) string {
	params := url.Values{}
	params.Set("destination", req.Location)
	params.Set("startDate", req.CheckIn.Format("2006-01-02"))
	params.Set("endDate", req.CheckOut.Format("2006-01-02"))
	params.Set("adults", fmt.Sprintf("%d", req.Adults))
	params.Set("children", fmt.Sprintf("%d", req.Children))
	params.Set("rooms", fmt.Sprintf("%d", req.Rooms))
	return base + "/Hotel-Search?" + params.Encode()
}
