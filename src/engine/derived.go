package engine

import (
	"fmt"

	"github.com/username/syndforge/src/catalog"
	"github.com/username/syndforge/src/models"
)

// Derived-field identities. Each accounting identity the validator
// checks is realized by exactly one function here; forms never obtain
// the same quantity through a second sampling path.

// Sum totals its parts.
func Sum(parts ...float64) float64 {
	var total float64
	for _, p := range parts {
		total += p
	}
	return total
}

// Percent returns part as a percentage of whole, exactly 0 when the
// whole is not positive, clamped to [0,100]. Never NaN, never panics.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	pct := part / whole * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Ceded is the reinsured share: gross written less net retained.
func Ceded(gross, net float64) float64 {
	return gross - net
}

// ClosingReserve bridges the opening balance to closing:
// opening + incurred movement - paid movement + fx revaluation.
func ClosingReserve(opening, incurred, paid, fx float64) float64 {
	return opening + incurred - paid + fx
}

// ToReporting converts an amount to the reporting currency using the
// catalog's fixed per-run rate table.
func ToReporting(amt models.MonetaryAmount, cat *catalog.Catalog) (float64, error) {
	rate, err := cat.Rate(amt.Currency)
	if err != nil {
		return 0, fmt.Errorf("converting %s amount: %w", amt.Currency, err)
	}
	return amt.Value * rate, nil
}
