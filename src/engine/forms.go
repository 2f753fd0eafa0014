package engine

import (
	"fmt"

	"github.com/username/syndforge/src/catalog"
	"github.com/username/syndforge/src/models"
	"github.com/username/syndforge/src/sampler"
	"github.com/username/syndforge/src/utils"
)

// Form is one output table kind: a fixed documented column set and a
// builder producing its rows for one (syndicate, period). The original
// per-form scripts collapse into these thin declarations; all sampling
// and derivation goes through the shared store and identity functions.
type Form struct {
	Name    string
	Columns []string
	build   func(e *Engine, s models.Syndicate, p models.Period, tris map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error)
}

type triKey struct {
	origin int
	line   string
}

// Forms returns the registry in export order.
func Forms() []Form {
	return []Form{
		{
			Name: "balance_sheet",
			Columns: []string{"syndicate", "period", "investments", "cash", "receivables", "total_assets",
				"technical_provisions", "other_payables", "total_liabilities", "net_assets", "gross_written_premium"},
			build: (*Engine).buildBalanceSheet,
		},
		{
			Name: "premium_analysis",
			Columns: []string{"syndicate", "period", "line_of_business", "line_label",
				"gross_premium", "net_premium", "ceded_premium", "ceded_pct"},
			build: (*Engine).buildPremiumAnalysis,
		},
		{
			Name: "asset_portfolio",
			Columns: []string{"syndicate", "period", "asset_category", "category_label",
				"currency", "market_value", "market_value_reporting"},
			build: (*Engine).buildAssetPortfolio,
		},
		{
			Name: "claims_triangle",
			Columns: []string{"syndicate", "origin_year", "line_of_business", "development_year",
				"cumulative_paid", "incremental_paid", "ultimate_loss"},
			build: (*Engine).buildClaimsTriangle,
		},
		{
			Name: "reserve_bridge",
			Columns: []string{"syndicate", "period", "line_of_business", "opening_reserve",
				"incurred_movement", "paid_movement", "fx_revaluation", "closing_reserve"},
			build: (*Engine).buildReserveBridge,
		},
		{
			Name: "capital_breakdown",
			Columns: []string{"syndicate", "period", "risk_module", "module_label",
				"charge", "share_of_total_pct"},
			build: (*Engine).buildCapitalBreakdown,
		},
		{
			Name: "capital_summary",
			Columns: []string{"syndicate", "period", "standalone_sum", "diversified_total",
				"diversification_benefit_pct"},
			build: (*Engine).buildCapitalSummary,
		},
	}
}

func record(form string, s models.Syndicate, p models.Period, class string, fields map[string]any) models.DerivedRecord {
	fields["syndicate"] = int(s)
	fields["period"] = p.String()
	return models.DerivedRecord{Form: form, Syndicate: s, Period: p, Class: class, Fields: fields}
}

func round2(v float64) float64 {
	return utils.RoundFloat(v, 2)
}

// premiumFigures returns the premium split for one line: gross sampled
// once per key, net derived from the sampled retention ratio, ceded the
// exact complement. Every table needing these quantities goes through
// here, so they agree wherever they appear.
func (e *Engine) premiumFigures(s models.Syndicate, p models.Period, line string) (gross, net, ceded float64, err error) {
	grossSpec, err := e.cat.Dist(catalog.DistGrossPremium)
	if err != nil {
		return 0, 0, 0, err
	}
	ratioSpec, err := e.cat.Dist(catalog.DistRetentionRatio)
	if err != nil {
		return 0, 0, 0, err
	}

	g, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Class: line, Field: catalog.DistGrossPremium}, grossSpec)
	if err != nil {
		return 0, 0, 0, err
	}
	ratio, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Class: line, Field: catalog.DistRetentionRatio}, ratioSpec)
	if err != nil {
		return 0, 0, 0, err
	}

	gross = round2(g)
	net = round2(gross * ratio)
	ceded = Ceded(gross, net)
	return gross, net, ceded, nil
}

// assetFigures returns the portfolio position for one asset category:
// a deterministically picked denomination currency, the market value in
// that currency and its reporting-currency conversion.
func (e *Engine) assetFigures(s models.Syndicate, p models.Period, category string) (ccy string, value, reporting float64, err error) {
	valueSpec, err := e.cat.Dist(catalog.DistAssetValue)
	if err != nil {
		return "", 0, 0, err
	}

	picked, err := e.store.Pick(sampler.Key{Syndicate: s, Period: p, Class: category, Field: "currency"}, e.cat.Currencies.Codes)
	if err != nil {
		return "", 0, 0, err
	}
	ccy, err = e.cat.Currencies.Resolve(picked)
	if err != nil {
		return "", 0, 0, err
	}

	v, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Class: category, Field: catalog.DistAssetValue}, valueSpec)
	if err != nil {
		return "", 0, 0, err
	}
	value = round2(v)

	rpt, err := ToReporting(models.MonetaryAmount{Value: value, Currency: ccy}, e.cat)
	if err != nil {
		return "", 0, 0, err
	}
	return ccy, value, round2(rpt), nil
}

// bridgeFigures reconciles one line's reserve movement for a period.
// The incurred movement is the calendar-period diagonal of the line's
// claims triangles, so the bridge and the triangle table tie out.
func (e *Engine) bridgeFigures(s models.Syndicate, p models.Period, line string, tris map[triKey]models.ClaimsTriangle) (opening, incurred, paid, fx, closing float64, err error) {
	openingSpec, err := e.cat.Dist(catalog.DistOpeningReserve)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	paidSpec, err := e.cat.Dist(catalog.DistPaidRatio)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	fxSpec, err := e.cat.Dist(catalog.DistFXRevalRatio)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}

	o, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Class: line, Field: catalog.DistOpeningReserve}, openingSpec)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	opening = round2(o)

	var movement float64
	for _, origin := range e.cat.Years {
		if origin > p.Year {
			continue
		}
		tri, ok := tris[triKey{origin: origin, line: line}]
		if !ok {
			return 0, 0, 0, 0, 0, fmt.Errorf("%w: no triangle for syndicate %s origin %d line %s", models.ErrConfiguration, s, origin, line)
		}
		movement += tri.Incremental(p.Year - origin)
	}
	incurred = round2(movement)

	paidRatio, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Class: line, Field: catalog.DistPaidRatio}, paidSpec)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	paid = round2(incurred * paidRatio)

	fxRatio, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Class: line, Field: catalog.DistFXRevalRatio}, fxSpec)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	fx = round2(opening * fxRatio)

	closing = round2(ClosingReserve(opening, incurred, paid, fx))
	return opening, incurred, paid, fx, closing, nil
}

// capitalFigures samples the standalone module charges and derives the
// diversified total through the correlation matrix.
func (e *Engine) capitalFigures(s models.Syndicate, p models.Period) (models.CapitalResult, error) {
	chargeSpec, err := e.cat.Dist(catalog.DistRiskCharge)
	if err != nil {
		return models.CapitalResult{}, err
	}

	charges := make([]models.RiskCharge, 0, len(e.cat.RiskModules.Codes))
	for _, module := range e.cat.RiskModules.Codes {
		c, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Class: module.Code, Field: catalog.DistRiskCharge}, chargeSpec)
		if err != nil {
			return models.CapitalResult{}, err
		}
		charges = append(charges, models.RiskCharge{Module: module.Code, Charge: round2(c)})
	}

	total, err := Diversified(charges, e.cat.Correlation)
	if err != nil {
		return models.CapitalResult{}, err
	}
	return models.CapitalResult{Syndicate: s, Period: p, Charges: charges, Diversified: round2(total)}, nil
}

func (e *Engine) buildBalanceSheet(s models.Syndicate, p models.Period, tris map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error) {
	var investments float64
	for _, category := range e.cat.AssetCategories.Codes {
		_, _, rpt, err := e.assetFigures(s, p, category.Code)
		if err != nil {
			return nil, err
		}
		investments += rpt
	}
	investments = round2(investments)

	cashSpec, err := e.cat.Dist(catalog.DistCash)
	if err != nil {
		return nil, err
	}
	cash, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Field: catalog.DistCash}, cashSpec)
	if err != nil {
		return nil, err
	}
	cash = round2(cash)

	recvSpec, err := e.cat.Dist(catalog.DistReceivables)
	if err != nil {
		return nil, err
	}
	receivables, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Field: catalog.DistReceivables}, recvSpec)
	if err != nil {
		return nil, err
	}
	receivables = round2(receivables)

	var provisions, grossWritten float64
	for _, line := range e.cat.Lines.Codes {
		_, _, _, _, closing, err := e.bridgeFigures(s, p, line.Code, tris)
		if err != nil {
			return nil, err
		}
		provisions += closing

		gross, _, _, err := e.premiumFigures(s, p, line.Code)
		if err != nil {
			return nil, err
		}
		grossWritten += gross
	}
	provisions = round2(provisions)
	grossWritten = round2(grossWritten)

	payablesSpec, err := e.cat.Dist(catalog.DistOtherPayables)
	if err != nil {
		return nil, err
	}
	payables, err := e.store.Amount(sampler.Key{Syndicate: s, Period: p, Field: catalog.DistOtherPayables}, payablesSpec)
	if err != nil {
		return nil, err
	}
	payables = round2(payables)

	totalAssets := round2(Sum(investments, cash, receivables))
	totalLiabilities := round2(Sum(provisions, payables))

	return []models.DerivedRecord{record("balance_sheet", s, p, "", map[string]any{
		"investments":           investments,
		"cash":                  cash,
		"receivables":           receivables,
		"total_assets":          totalAssets,
		"technical_provisions":  provisions,
		"other_payables":        payables,
		"total_liabilities":     totalLiabilities,
		"net_assets":            round2(totalAssets - totalLiabilities),
		"gross_written_premium": grossWritten,
	})}, nil
}

func (e *Engine) buildPremiumAnalysis(s models.Syndicate, p models.Period, _ map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error) {
	rows := make([]models.DerivedRecord, 0, len(e.cat.Lines.Codes))
	for _, line := range e.cat.Lines.Codes {
		gross, net, ceded, err := e.premiumFigures(s, p, line.Code)
		if err != nil {
			return nil, err
		}
		rows = append(rows, record("premium_analysis", s, p, line.Code, map[string]any{
			"line_of_business": line.Code,
			"line_label":       line.Label,
			"gross_premium":    gross,
			"net_premium":      net,
			"ceded_premium":    ceded,
			"ceded_pct":        Percent(ceded, gross),
		}))
	}
	return rows, nil
}

func (e *Engine) buildAssetPortfolio(s models.Syndicate, p models.Period, _ map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error) {
	rows := make([]models.DerivedRecord, 0, len(e.cat.AssetCategories.Codes))
	for _, category := range e.cat.AssetCategories.Codes {
		ccy, value, reporting, err := e.assetFigures(s, p, category.Code)
		if err != nil {
			return nil, err
		}
		rows = append(rows, record("asset_portfolio", s, p, category.Code, map[string]any{
			"asset_category":         category.Code,
			"category_label":         category.Label,
			"currency":               ccy,
			"market_value":           value,
			"market_value_reporting": reporting,
		}))
	}
	return rows, nil
}

func (e *Engine) buildClaimsTriangle(s models.Syndicate, p models.Period, tris map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error) {
	rows := make([]models.DerivedRecord, 0, len(e.cat.Lines.Codes)*e.cat.Curve.DevYears)
	for _, line := range e.cat.Lines.Codes {
		tri, ok := tris[triKey{origin: p.Year, line: line.Code}]
		if !ok {
			return nil, fmt.Errorf("%w: no triangle for syndicate %s origin %d line %s", models.ErrConfiguration, s, p.Year, line.Code)
		}
		for d := 0; d < len(tri.Cumulative); d++ {
			rows = append(rows, record("claims_triangle", s, p, line.Code, map[string]any{
				"origin_year":      p.Year,
				"line_of_business": line.Code,
				"development_year": d,
				"cumulative_paid":  tri.Cumulative[d],
				"incremental_paid": round2(tri.Incremental(d)),
				"ultimate_loss":    round2(tri.Ultimate),
			}))
		}
	}
	return rows, nil
}

func (e *Engine) buildReserveBridge(s models.Syndicate, p models.Period, tris map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error) {
	rows := make([]models.DerivedRecord, 0, len(e.cat.Lines.Codes))
	for _, line := range e.cat.Lines.Codes {
		opening, incurred, paid, fx, closing, err := e.bridgeFigures(s, p, line.Code, tris)
		if err != nil {
			return nil, err
		}
		rows = append(rows, record("reserve_bridge", s, p, line.Code, map[string]any{
			"line_of_business":  line.Code,
			"opening_reserve":   opening,
			"incurred_movement": incurred,
			"paid_movement":     paid,
			"fx_revaluation":    fx,
			"closing_reserve":   closing,
		}))
	}
	return rows, nil
}

func (e *Engine) buildCapitalBreakdown(s models.Syndicate, p models.Period, _ map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error) {
	capital, err := e.capitalFigures(s, p)
	if err != nil {
		return nil, err
	}
	standalone := capital.StandaloneSum()

	rows := make([]models.DerivedRecord, 0, len(capital.Charges))
	for _, charge := range capital.Charges {
		label, err := e.cat.RiskModules.Label(charge.Module)
		if err != nil {
			return nil, err
		}
		rows = append(rows, record("capital_breakdown", s, p, charge.Module, map[string]any{
			"risk_module":        charge.Module,
			"module_label":       label,
			"charge":             charge.Charge,
			"share_of_total_pct": Percent(charge.Charge, standalone),
		}))
	}
	return rows, nil
}

func (e *Engine) buildCapitalSummary(s models.Syndicate, p models.Period, _ map[triKey]models.ClaimsTriangle) ([]models.DerivedRecord, error) {
	capital, err := e.capitalFigures(s, p)
	if err != nil {
		return nil, err
	}
	standalone := round2(capital.StandaloneSum())

	return []models.DerivedRecord{record("capital_summary", s, p, "", map[string]any{
		"standalone_sum":              standalone,
		"diversified_total":           capital.Diversified,
		"diversification_benefit_pct": Percent(standalone-capital.Diversified, standalone),
	})}, nil
}
