package crawler

import (
	"context"
	"errors"
	"net"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// Sentinel fetch errors. Site adapters wrap these with %w so the retry
// controller can classify outcomes without knowing adapter internals.
var (
	ErrTimeout    = errors.New("request timeout")
	ErrConnection = errors.New("connection failed")
	ErrBlocked    = errors.New("blocked by site")
	ErrNoResults  = errors.New("no results")
	ErrParse      = errors.New("parse failed")
)

// Classify maps a fetch error onto the observation taxonomy. Unknown
// errors are treated as transient driver faults, which are retryable -
// a permanently broken adapter still terminates via the retry budget.
func Classify(err error) models.ErrorClass {
	switch {
	case err == nil:
		return models.ClassNone
	case errors.Is(err, ErrBlocked):
		return models.ClassBlocked
	case errors.Is(err, ErrNoResults):
		return models.ClassNoResults
	case errors.Is(err, ErrParse):
		return models.ClassParse
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return models.ClassTimeout
	case errors.Is(err, ErrConnection):
		return models.ClassConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return models.ClassTimeout
		}
		return models.ClassConnection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return models.ClassConnection
	}

	return models.ClassTransient
}
