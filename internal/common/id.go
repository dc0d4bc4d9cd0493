package common

import (
	"github.com/google/uuid"
)

// NewCycleID generates a unique cycle ID with the "cycle_" prefix
func NewCycleID() string {
	return "cycle_" + uuid.New().String()
}

// NewObservationID generates a unique observation ID with the "obs_" prefix
func NewObservationID() string {
	return "obs_" + uuid.New().String()
}

// NewRequestID generates a unique search request ID with the "req_" prefix
func NewRequestID() string {
	return "req_" + uuid.New().String()
}
