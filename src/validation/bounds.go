package validation

import (
	"sort"
	"strings"

	"github.com/username/syndforge/src/models"
)

// tablesInOrder keeps failure output stable across runs; map iteration
// order would otherwise leak into the reported batch.
func tablesInOrder(ds *models.Dataset) []*models.Table {
	names := make([]string, 0, len(ds.Tables))
	for name := range ds.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	tables := make([]*models.Table, 0, len(names))
	for _, name := range names {
		tables = append(tables, ds.Tables[name])
	}
	return tables
}

// nonNegativeColumns are monetary columns that may never go below zero
// in any table. net_assets and fx_revaluation are legitimately signed
// and deliberately absent.
var nonNegativeColumns = map[string]bool{
	"gross_premium":          true,
	"net_premium":            true,
	"ceded_premium":          true,
	"gross_written_premium":  true,
	"market_value":           true,
	"market_value_reporting": true,
	"investments":            true,
	"cash":                   true,
	"receivables":            true,
	"total_assets":           true,
	"technical_provisions":   true,
	"other_payables":         true,
	"total_liabilities":      true,
	"charge":                 true,
	"standalone_sum":         true,
	"diversified_total":      true,
	"cumulative_paid":        true,
	"incremental_paid":       true,
	"ultimate_loss":          true,
	"opening_reserve":        true,
	"incurred_movement":      true,
	"paid_movement":          true,
	"closing_reserve":        true,
}

// checkPercentBounds asserts every percentage column sits in [0,100].
// The zero-denominator convention makes an empty ratio exactly 0, so
// there is no NaN escape hatch to tolerate here.
func (v *Validator) checkPercentBounds(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure
	for _, table := range tablesInOrder(ds) {
		for _, column := range table.Columns {
			if !strings.HasSuffix(column, "_pct") {
				continue
			}
			for _, row := range table.Rows {
				val, ok := row.Float(column)
				if !ok {
					continue
				}
				if val != val || val < 0 || val > 100 {
					failures = append(failures, models.ValidationFailure{
						Rule:   "percentage_bounds",
						Key:    rowKey(row) + "|" + column,
						Got:    val,
						Want:   100,
						Detail: "percentage outside [0,100]",
					})
				}
			}
		}
	}
	return failures
}

func (v *Validator) checkNonNegative(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure
	for _, table := range tablesInOrder(ds) {
		for _, column := range table.Columns {
			if !nonNegativeColumns[column] {
				continue
			}
			for _, row := range table.Rows {
				val, ok := row.Float(column)
				if !ok {
					continue
				}
				if val < 0 {
					failures = append(failures, models.ValidationFailure{
						Rule:   "non_negative_amounts",
						Key:    rowKey(row) + "|" + column,
						Got:    val,
						Want:   0,
						Detail: "monetary amount below zero",
					})
				}
			}
		}
	}
	return failures
}
