package interfaces

import (
	"context"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// SiteAdapter fetches raw price data for one search request from a
// single booking site. One implementation exists per target site; the
// set is closed and known at compile time.
//
// A nil proxy means direct, non-proxied egress. Implementations must
// observe ctx cancellation at their next suspension point and should
// wrap failures in the crawler package's classification errors so the
// retry controller can tell transient from fatal outcomes.
type SiteAdapter interface {
	// SiteID returns the site identifier the adapter serves.
	SiteID() string

	// Fetch performs one attempt against the site and returns the
	// unnormalized quotes found for the request.
	Fetch(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error)
}
