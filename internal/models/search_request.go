package models

import "time"

// SearchRequest is a user-defined hotel search to track. The request
// store owns the record; the engine treats requests as read-only
// snapshots for the duration of a cycle.
type SearchRequest struct {
	ID            string    `json:"id" badgerhold:"key"`
	Location      string    `json:"location"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	Rooms         int       `json:"rooms"`
	Active        bool      `json:"active" badgerhold:"index"`
	CreatedAt     time.Time `json:"created_at"`
	LastCrawledAt time.Time `json:"last_crawled_at,omitempty"`
}

// Nights returns the length of the stay in nights.
func (r *SearchRequest) Nights() int {
	if r.CheckOut.Before(r.CheckIn) {
		return 0
	}
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}
