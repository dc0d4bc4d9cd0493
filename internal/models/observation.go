package models

import "time"

// ErrorClass classifies the outcome of a fetch attempt sequence.
// The empty class means success.
type ErrorClass string

const (
	ClassNone ErrorClass = ""

	// Retryable classes - transient conditions worth another attempt.
	ClassTimeout    ErrorClass = "timeout"
	ClassConnection ErrorClass = "connection_error"
	ClassTransient  ErrorClass = "transient_fault"

	// Fatal classes - retrying cannot help within this cycle.
	ClassBlocked   ErrorClass = "blocked"
	ClassNoResults ErrorClass = "no_results"
	ClassParse     ErrorClass = "parse_error"

	// Orchestration-level classes.
	ClassAdapterFault     ErrorClass = "adapter_fault"
	ClassRetriesExhausted ErrorClass = "retries_exhausted"
	ClassCycleTimeout     ErrorClass = "cycle_timeout"
)

// Retryable reports whether another attempt may succeed.
func (c ErrorClass) Retryable() bool {
	switch c {
	case ClassTimeout, ClassConnection, ClassTransient:
		return true
	}
	return false
}

// HotelQuote is a single hotel price extracted by a site adapter.
type HotelQuote struct {
	HotelName  string  `json:"hotel_name"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	RoomType   string  `json:"room_type,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	DetailsURL string  `json:"details_url,omitempty"`
}

// RawSiteResult is the unnormalized output of one adapter fetch.
type RawSiteResult struct {
	Quotes []HotelQuote `json:"quotes"`
}

// Lowest returns the cheapest quote in the result, or nil when empty.
func (r *RawSiteResult) Lowest() *HotelQuote {
	if r == nil || len(r.Quotes) == 0 {
		return nil
	}
	lowest := &r.Quotes[0]
	for i := 1; i < len(r.Quotes); i++ {
		if r.Quotes[i].Price < lowest.Price {
			lowest = &r.Quotes[i]
		}
	}
	return lowest
}

// PriceObservation is the terminal record for one (request, site) pair
// in a cycle - either a normalized price or a classified failure.
// Immutable once produced.
type PriceObservation struct {
	ID         string        `json:"id" badgerhold:"key"`
	RequestID  string        `json:"request_id" badgerhold:"index"`
	SiteID     string        `json:"site_id" badgerhold:"index"`
	CycleID    string        `json:"cycle_id"`
	HotelName  string        `json:"hotel_name,omitempty"`
	Price      float64       `json:"price,omitempty"`
	Currency   string        `json:"currency,omitempty"`
	DetailsURL string        `json:"details_url,omitempty"`
	QuoteCount int           `json:"quote_count,omitempty"`
	ScrapedAt  time.Time     `json:"scraped_at"`
	Duration   time.Duration `json:"duration"`
	Attempts   int           `json:"attempts"`
	Success    bool          `json:"success"`
	Class      ErrorClass    `json:"class,omitempty"`
	Error      string        `json:"error,omitempty"`
}
