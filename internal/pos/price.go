package pos

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// plainAmount accepts thousands-grouped ("1,234.50") or ungrouped
// ("1234.50", ".50") amounts.
var plainAmount = regexp.MustCompile(`^(\d{1,3}(,\d{3})*(\.\d+)?|\d*\.?\d+)$`)

// ParsePrice converts a currency-formatted amount such as "$1,234.50"
// into an exact decimal. Negative, empty or otherwise malformed amounts
// are rejected.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "$"))
	if !plainAmount.MatchString(cleaned) {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	return decimal.NewFromString(strings.ReplaceAll(cleaned, ",", ""))
}
