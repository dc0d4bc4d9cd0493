package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/hotelwatch/internal/models"
)

func TestClassifySentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.ErrorClass
	}{
		{"nil", nil, models.ClassNone},
		{"timeout", ErrTimeout, models.ClassTimeout},
		{"connection", ErrConnection, models.ClassConnection},
		{"blocked", ErrBlocked, models.ClassBlocked},
		{"no results", ErrNoResults, models.ClassNoResults},
		{"parse", ErrParse, models.ClassParse},
		{"deadline", context.DeadlineExceeded, models.ClassTimeout},
		{"unknown", errors.New("something odd"), models.ClassTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassifyWrappedSentinels(t *testing.T) {
	err := fmt.Errorf("fetching results page: %w", ErrBlocked)
	assert.Equal(t, models.ClassBlocked, Classify(err))

	err = fmt.Errorf("status 503: %w", ErrConnection)
	assert.Equal(t, models.ClassConnection, Classify(err))
}

func TestClassifyNetErrors(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	assert.Equal(t, models.ClassConnection, Classify(opErr))

	assert.Equal(t, models.ClassConnection, Classify(fmt.Errorf("fetch: %w", opErr)))
}

func TestRetryableClasses(t *testing.T) {
	assert.True(t, models.ClassTimeout.Retryable())
	assert.True(t, models.ClassConnection.Retryable())
	assert.True(t, models.ClassTransient.Retryable())

	assert.False(t, models.ClassBlocked.Retryable())
	assert.False(t, models.ClassNoResults.Retryable())
	assert.False(t, models.ClassParse.Retryable())
	assert.False(t, models.ClassAdapterFault.Retryable())
	assert.False(t, models.ClassRetriesExhausted.Retryable())
	assert.False(t, models.ClassCycleTimeout.Retryable())
}
