package adapters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// currencySymbols maps display prefixes to ISO currency codes. Order
// matters: longer prefixes are matched first so "NT$" never resolves
// as "$".
var currencySymbols = []struct {
	symbol   string
	currency string
}{
	{"NT$", "TWD"},
	{"TWD", "TWD"},
	{"US$", "USD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
}

var priceDigits = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// parsePrice extracts a numeric amount and currency code from a
// display price like "NT$ 3,200" or "€120.50". Unrecognized prefixes
// fall back to TWD, matching the engine's primary market.
func parsePrice(text string) (float64, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", fmt.Errorf("empty price text")
	}

	currency := "TWD"
	for _, cs := range currencySymbols {
		if strings.Contains(text, cs.symbol) {
			currency = cs.currency
			break
		}
	}

	match := priceDigits.FindString(text)
	if match == "" {
		return 0, "", fmt.Errorf("no numeric amount in price text %q", text)
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid price amount %q: %w", match, err)
	}
	if amount <= 0 {
		return 0, "", fmt.Errorf("non-positive price amount in %q", text)
	}

	return amount, currency, nil
}
