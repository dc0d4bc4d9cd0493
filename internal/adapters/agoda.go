package adapters

import (
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// NewAgodaAdapter creates the Agoda site adapter.
func NewAgodaAdapter(site models.SiteConfig, logger arbor.ILogger) *htmlAdapter {
	return &htmlAdapter{
		site:     site,
		buildURL: agodaSearchURL,
		selectors: selectorSet{
			card:  []string{"[data-selenium='hotel-item']", ".PropertyCard", "li.hotel-item"},
			name:  []string{"[data-selenium='hotel-name']", ".PropertyCard__HotelName", "h3"},
			price: []string{"[data-selenium='display-price']", ".PropertyCardPrice__Value", ".price"},
			link:  []string{"a[data-selenium='hotel-url']", "a.PropertyCard__Link", "h3 a"},
		},
		logger: logger,
	}
}

func agodaSearchURL(base string, req *models.SearchRequest) string {
	params := url.Values{}
	params.Set("city", req.Location)
	params.Set("checkIn", req.CheckIn.Format("2006-01-02"))
	params.Set("checkOut", req.CheckOut.Format("2006-01-02"))
	params.Set("adults", fmt.Sprintf("%d", req.Adults))
	params.Set("children", fmt.Sprintf("%d", req.Children))
	params.Set("rooms", fmt.Sprintf("%d", req.Rooms))
	return base + "/search?" + params.Encode()
}
