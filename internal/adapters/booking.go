package adapters

import (
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// NewBookingAdapter creates the Booking.com site adapter.
func NewBookingAdapter(site models.SiteConfig, logger arbor.ILogger) *htmlAdapter {
	return &htmlAdapter{
		site:     site,
		buildURL: bookingSearchURL,
		selectors: selectorSet{
			card:  []string{"[data-testid='property-card']", ".sr_property_block"},
			name:  []string{"[data-testid='title']", ".sr-hotel__name", "h3"},
			price: []string{"[data-testid='price-and-discounted-price']", ".bui-price-display__value", ".sr-price"},
			link:  []string{"a[data-testid='title-link']", "a.hotel_name_link", "h3 a"},
		},
		logger: logger,
	}
}

func bookingSearchURL(base string, req *models.SearchRequest) string {
	params := url.Values{}
	params.Set("ss", req.Location)
	params.Set("checkin", req.CheckIn.Format("2006-01-02"))
	params.Set("checkout", req.CheckOut.Format("2006-01-02"))
	params.Set("group_adults", fmt.Sprintf("%d", req.Adults))
	params.Set("group_children", fmt.Sprintf("%d", req.Children))
	params.Set("no_rooms", fmt.Sprintf("%d", req.Rooms))
	return base + "/searchresults.html?" + params.Encode()
}
