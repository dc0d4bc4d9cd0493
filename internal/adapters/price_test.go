package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantAmount   float64
		wantCurrency string
	}{
		{"taiwan dollar", "NT$ 3,200", 3200, "TWD"},
		{"taiwan dollar tight", "NT$3200", 3200, "TWD"},
		{"twd code", "TWD 2,850", 2850, "TWD"},
		{"us dollar", "$129", 129, "USD"},
		{"us dollar explicit", "US$129.99", 129.99, "USD"},
		{"euro", "€120.50", 120.50, "EUR"},
		{"pound", "£85", 85, "GBP"},
		{"yen", "¥12,000", 12000, "JPY"},
		{"no symbol defaults to twd", "4,500", 4500, "TWD"},
		{"surrounding text", "From NT$ 1,999 per night", 1999, "TWD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, currency, err := parsePrice(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantCurrency, currency)
		})
	}
}

func TestParsePriceRejectsUnusableText(t *testing.T) {
	for _, text := range []string{"", "   ", "Sold out", "NT$", "$0"} {
		_, _, err := parsePrice(text)
		assert.Error(t, err, "text %q", text)
	}
}
