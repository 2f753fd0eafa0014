// Package validation is the final pass over a generated dataset. Every
// cross-field and cross-table invariant is checked independently of how
// the engine happened to compute it; failures are collected, never
// raised one at a time, so a single run reveals every inconsistency.
package validation

import (
	"fmt"
	"math"

	"github.com/username/syndforge/src/catalog"
	"github.com/username/syndforge/src/models"
)

// moneyTol absorbs float representation dust on 2dp currency values.
const moneyTol = 0.02

type Validator struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Validator {
	return &Validator{cat: cat}
}

// Validate runs every rule and returns the collected failures. An empty
// slice means the dataset may be released.
func (v *Validator) Validate(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure
	failures = append(failures, v.checkTriangles(ds)...)
	failures = append(failures, v.checkCapital(ds)...)
	failures = append(failures, v.checkBalanceSheetTieOuts(ds)...)
	failures = append(failures, v.checkReserveBridge(ds)...)
	failures = append(failures, v.checkCapitalSummary(ds)...)
	failures = append(failures, v.checkPercentBounds(ds)...)
	failures = append(failures, v.checkNonNegative(ds)...)
	return failures
}

func moneyEqual(a, b float64) bool {
	return math.Abs(a-b) <= moneyTol
}

func rowKey(r models.DerivedRecord) string {
	if r.Class == "" {
		return fmt.Sprintf("%s|%s", r.Syndicate, r.Period)
	}
	return fmt.Sprintf("%s|%s|%s", r.Syndicate, r.Period, r.Class)
}

func (v *Validator) checkTriangles(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure
	for _, tri := range ds.Triangles {
		key := fmt.Sprintf("%s|%d|%s", tri.Syndicate, tri.OriginYear, tri.Class)

		for d := 1; d < len(tri.Cumulative); d++ {
			if tri.Cumulative[d] < tri.Cumulative[d-1] {
				failures = append(failures, models.ValidationFailure{
					Rule:   "triangle_monotonicity",
					Key:    fmt.Sprintf("%s|dev%d", key, d),
					Got:    tri.Cumulative[d],
					Want:   tri.Cumulative[d-1],
					Detail: "cumulative amount decreased between development years",
				})
			}
		}

		if len(tri.Cumulative) == 0 {
			continue
		}
		last := tri.Cumulative[len(tri.Cumulative)-1]
		if tri.Ultimate <= 0 {
			if last != 0 {
				failures = append(failures, models.ValidationFailure{
					Rule:   "triangle_convergence",
					Key:    key,
					Got:    last,
					Want:   0,
					Detail: "zero ultimate must develop to zero",
				})
			}
			continue
		}
		if math.Abs(last-tri.Ultimate)/tri.Ultimate > v.cat.Curve.Tolerance {
			failures = append(failures, models.ValidationFailure{
				Rule:   "triangle_convergence",
				Key:    key,
				Got:    last,
				Want:   tri.Ultimate,
				Detail: fmt.Sprintf("final cumulative not within %.3f of ultimate", v.cat.Curve.Tolerance),
			})
		}
	}
	return failures
}

func (v *Validator) checkCapital(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure
	for _, capital := range ds.Capital {
		key := fmt.Sprintf("%s|%s", capital.Syndicate, capital.Period)
		standalone := capital.StandaloneSum()

		if capital.Diversified < 0 {
			failures = append(failures, models.ValidationFailure{
				Rule:   "capital_sub_additivity",
				Key:    key,
				Got:    capital.Diversified,
				Want:   0,
				Detail: "diversified total is negative",
			})
		}
		if capital.Diversified > standalone+moneyTol {
			failures = append(failures, models.ValidationFailure{
				Rule:   "capital_sub_additivity",
				Key:    key,
				Got:    capital.Diversified,
				Want:   standalone,
				Detail: "diversified total exceeds sum of standalone charges",
			})
		}
	}
	return failures
}

// checkBalanceSheetTieOuts asserts the balance sheet agrees with the
// detail tables it summarizes: written premium with the premium
// analysis, investments with the asset portfolio, technical provisions
// with the reserve bridge closings.
func (v *Validator) checkBalanceSheetTieOuts(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure

	premiums := sumByGroup(ds.Tables["premium_analysis"], "gross_premium")
	investments := sumByGroup(ds.Tables["asset_portfolio"], "market_value_reporting")
	reserves := sumByGroup(ds.Tables["reserve_bridge"], "closing_reserve")

	bs := ds.Tables["balance_sheet"]
	if bs == nil {
		return failures
	}
	for _, row := range bs.Rows {
		key := rowKey(row)
		checks := []struct {
			rule   string
			column string
			want   float64
			detail string
		}{
			{"premium_tie_out", "gross_written_premium", premiums[key], "balance sheet disagrees with premium analysis total"},
			{"investment_tie_out", "investments", investments[key], "balance sheet disagrees with asset portfolio total"},
			{"reserve_tie_out", "technical_provisions", reserves[key], "balance sheet disagrees with reserve bridge closings"},
		}
		for _, c := range checks {
			got, ok := row.Float(c.column)
			if !ok {
				failures = append(failures, models.ValidationFailure{
					Rule: c.rule, Key: key, Detail: "missing column " + c.column,
				})
				continue
			}
			if !moneyEqual(got, c.want) {
				failures = append(failures, models.ValidationFailure{
					Rule: c.rule, Key: key, Got: got, Want: c.want, Detail: c.detail,
				})
			}
		}
	}
	return failures
}

func (v *Validator) checkReserveBridge(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure
	bridge := ds.Tables["reserve_bridge"]
	if bridge == nil {
		return failures
	}

	triangles := make(map[string]models.ClaimsTriangle, len(ds.Triangles))
	for _, tri := range ds.Triangles {
		triangles[fmt.Sprintf("%s|%d|%s", tri.Syndicate, tri.OriginYear, tri.Class)] = tri
	}

	for _, row := range bridge.Rows {
		key := rowKey(row)
		opening, _ := row.Float("opening_reserve")
		incurred, _ := row.Float("incurred_movement")
		paid, _ := row.Float("paid_movement")
		fx, _ := row.Float("fx_revaluation")
		closing, _ := row.Float("closing_reserve")

		if want := opening + incurred - paid + fx; !moneyEqual(closing, want) {
			failures = append(failures, models.ValidationFailure{
				Rule:   "bridge_closing_identity",
				Key:    key,
				Got:    closing,
				Want:   want,
				Detail: "closing != opening + incurred - paid + fx",
			})
		}

		// The incurred movement must equal the calendar-period diagonal
		// of the line's triangles.
		var diagonal float64
		for _, origin := range v.cat.Years {
			if origin > row.Period.Year {
				continue
			}
			tri, ok := triangles[fmt.Sprintf("%s|%d|%s", row.Syndicate, origin, row.Class)]
			if !ok {
				failures = append(failures, models.ValidationFailure{
					Rule:   "bridge_triangle_diagonal",
					Key:    key,
					Detail: fmt.Sprintf("no triangle for origin %d", origin),
				})
				continue
			}
			diagonal += tri.Incremental(row.Period.Year - origin)
		}
		if !moneyEqual(incurred, diagonal) {
			failures = append(failures, models.ValidationFailure{
				Rule:   "bridge_triangle_diagonal",
				Key:    key,
				Got:    incurred,
				Want:   diagonal,
				Detail: "incurred movement disagrees with triangle diagonal",
			})
		}
	}
	return failures
}

func (v *Validator) checkCapitalSummary(ds *models.Dataset) []models.ValidationFailure {
	var failures []models.ValidationFailure
	summary := ds.Tables["capital_summary"]
	if summary == nil {
		return failures
	}

	capital := make(map[string]models.CapitalResult, len(ds.Capital))
	for _, c := range ds.Capital {
		capital[fmt.Sprintf("%s|%s", c.Syndicate, c.Period)] = c
	}

	for _, row := range summary.Rows {
		key := rowKey(row)
		c, ok := capital[key]
		if !ok {
			failures = append(failures, models.ValidationFailure{
				Rule: "capital_summary_tie_out", Key: key, Detail: "no capital result for key",
			})
			continue
		}
		if got, _ := row.Float("diversified_total"); !moneyEqual(got, c.Diversified) {
			failures = append(failures, models.ValidationFailure{
				Rule:   "capital_summary_tie_out",
				Key:    key,
				Got:    got,
				Want:   c.Diversified,
				Detail: "summary diversified total disagrees with aggregator",
			})
		}
		if got, _ := row.Float("standalone_sum"); !moneyEqual(got, c.StandaloneSum()) {
			failures = append(failures, models.ValidationFailure{
				Rule:   "capital_summary_tie_out",
				Key:    key,
				Got:    got,
				Want:   c.StandaloneSum(),
				Detail: "summary standalone sum disagrees with module charges",
			})
		}
	}
	return failures
}

func sumByGroup(table *models.Table, column string) map[string]float64 {
	sums := make(map[string]float64)
	if table == nil {
		return sums
	}
	for _, row := range table.Rows {
		if v, ok := row.Float(column); ok {
			sums[fmt.Sprintf("%s|%s", row.Syndicate, row.Period)] += v
		}
	}
	return sums
}
