// Package catalog holds the immutable per-run reference data: the
// classification taxonomies, exchange-rate table, risk-module
// correlation matrix, triangle development curve and the named
// distribution specs every sampled field draws from. Built once at run
// start, read-only afterwards, safe for concurrent readers.
package catalog

import (
	"fmt"
	"os"

	"github.com/username/syndforge/src/models"
	"gopkg.in/yaml.v3"
)

// Taxonomy is a closed set of classification codes with a declared
// fallback member for unrecognized lookups.
type Taxonomy struct {
	Codes    []models.Code `yaml:"codes"`
	Fallback string        `yaml:"fallback"`
}

// Contains reports membership of code in the taxonomy.
func (t Taxonomy) Contains(code string) bool {
	for _, c := range t.Codes {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Label returns the canonical label for a code, or ErrConfiguration if
// the code is not a member.
func (t Taxonomy) Label(code string) (string, error) {
	for _, c := range t.Codes {
		if c.Code == code {
			return c.Label, nil
		}
	}
	return "", fmt.Errorf("%w: unknown classification code %q", models.ErrConfiguration, code)
}

// Resolve maps a requested code to a taxonomy member: known codes map
// to themselves, unknown codes to the declared fallback. It is an
// ErrConfiguration if the fallback itself is missing from the taxonomy.
func (t Taxonomy) Resolve(code string) (string, error) {
	if t.Contains(code) {
		return code, nil
	}
	if !t.Contains(t.Fallback) {
		return "", fmt.Errorf("%w: fallback code %q is not a taxonomy member", models.ErrConfiguration, t.Fallback)
	}
	return t.Fallback, nil
}

// TriangleCurve parameterizes claims development: the fraction of
// ultimate reported at development zero, the geometric decay of the
// remaining gap, the number of development years and the relative
// tolerance the final cumulative must land within of ultimate.
type TriangleCurve struct {
	F0        float64 `yaml:"f0"`
	Decay     float64 `yaml:"decay"`
	DevYears  int     `yaml:"dev_years"`
	Tolerance float64 `yaml:"tolerance"`
}

type Catalog struct {
	ReportingCurrency string
	Syndicates        []models.Syndicate
	Years             []int

	Lines           Taxonomy
	AssetCategories Taxonomy
	Currencies      Taxonomy
	RiskModules     Taxonomy

	// FXRates maps currency code to units of reporting currency per
	// unit of that currency. Fixed for the run; looked up, never
	// re-sampled.
	FXRates map[string]float64

	// Correlation is indexed by RiskModules.Codes order.
	Correlation [][]float64

	Curve TriangleCurve
	Dists map[string]models.DistSpec
}

// Rate returns the conversion rate from ccy to the reporting currency.
func (c *Catalog) Rate(ccy string) (float64, error) {
	rate, ok := c.FXRates[ccy]
	if !ok {
		return 0, fmt.Errorf("%w: no exchange rate for currency %q", models.ErrConfiguration, ccy)
	}
	return rate, nil
}

// Dist returns the named distribution spec.
func (c *Catalog) Dist(name string) (models.DistSpec, error) {
	spec, ok := c.Dists[name]
	if !ok {
		return models.DistSpec{}, fmt.Errorf("%w: no distribution named %q", models.ErrConfiguration, name)
	}
	return spec, nil
}

// Periods enumerates the annual reporting periods of the run in order.
// Every syndicate is valid for the full run range.
func (c *Catalog) Periods() []models.Period {
	periods := make([]models.Period, 0, len(c.Years))
	for _, y := range c.Years {
		periods = append(periods, models.Period{Year: y})
	}
	return periods
}

// Validate checks the catalog's internal structure. Correlation entry
// ranges are deliberately left to the aggregator, which rejects them as
// a domain error at computation time.
func (c *Catalog) Validate() error {
	if len(c.Syndicates) == 0 {
		return fmt.Errorf("%w: no syndicates configured", models.ErrConfiguration)
	}
	if len(c.Years) == 0 {
		return fmt.Errorf("%w: no reporting years configured", models.ErrConfiguration)
	}
	for prev, i := 0, 0; i < len(c.Years); i++ {
		if i > 0 && c.Years[i] <= prev {
			return fmt.Errorf("%w: reporting years must be strictly increasing", models.ErrConfiguration)
		}
		prev = c.Years[i]
	}

	for name, tax := range map[string]Taxonomy{
		"lines_of_business": c.Lines,
		"asset_categories":  c.AssetCategories,
		"currencies":        c.Currencies,
		"risk_modules":      c.RiskModules,
	} {
		if len(tax.Codes) == 0 {
			return fmt.Errorf("%w: taxonomy %s is empty", models.ErrConfiguration, name)
		}
		if !tax.Contains(tax.Fallback) {
			return fmt.Errorf("%w: taxonomy %s fallback %q is not a member", models.ErrConfiguration, name, tax.Fallback)
		}
	}

	if _, ok := c.FXRates[c.ReportingCurrency]; !ok {
		return fmt.Errorf("%w: reporting currency %q missing from FX table", models.ErrConfiguration, c.ReportingCurrency)
	}
	for _, ccy := range c.Currencies.Codes {
		if _, ok := c.FXRates[ccy.Code]; !ok {
			return fmt.Errorf("%w: currency %q has no exchange rate", models.ErrConfiguration, ccy.Code)
		}
	}

	n := len(c.RiskModules.Codes)
	if len(c.Correlation) != n {
		return fmt.Errorf("%w: correlation matrix has %d rows, want %d", models.ErrConfiguration, len(c.Correlation), n)
	}
	for i, row := range c.Correlation {
		if len(row) != n {
			return fmt.Errorf("%w: correlation matrix row %d has %d entries, want %d", models.ErrConfiguration, i, len(row), n)
		}
		for j := range row {
			if c.Correlation[i][j] != c.Correlation[j][i] {
				return fmt.Errorf("%w: correlation matrix not symmetric at (%d,%d)", models.ErrConfiguration, i, j)
			}
		}
	}

	if c.Curve.F0 <= 0 || c.Curve.F0 >= 1 {
		return fmt.Errorf("%w: triangle curve f0 %.3f must be in (0,1)", models.ErrConfiguration, c.Curve.F0)
	}
	if c.Curve.Decay <= 0 || c.Curve.Decay >= 1 {
		return fmt.Errorf("%w: triangle curve decay %.3f must be in (0,1)", models.ErrConfiguration, c.Curve.Decay)
	}
	if c.Curve.DevYears < 2 {
		return fmt.Errorf("%w: triangle curve needs at least 2 development years", models.ErrConfiguration)
	}
	if c.Curve.Tolerance <= 0 {
		return fmt.Errorf("%w: triangle curve tolerance must be positive", models.ErrConfiguration)
	}
	return nil
}

// fileCatalog is the YAML overlay shape. Absent sections keep the
// built-in defaults.
type fileCatalog struct {
	ReportingCurrency string                     `yaml:"reporting_currency"`
	Syndicates        []int                      `yaml:"syndicates"`
	Years             []int                      `yaml:"years"`
	Lines             *Taxonomy                  `yaml:"lines_of_business"`
	AssetCategories   *Taxonomy                  `yaml:"asset_categories"`
	Currencies        *Taxonomy                  `yaml:"currencies"`
	RiskModules       *Taxonomy                  `yaml:"risk_modules"`
	FXRates           map[string]float64         `yaml:"fx_rates"`
	Correlation       [][]float64                `yaml:"correlation"`
	Curve             *TriangleCurve             `yaml:"triangle_curve"`
	Dists             map[string]models.DistSpec `yaml:"distributions"`
}

// Load builds the catalog: built-in defaults, optionally overlaid with
// a YAML file. An empty path means defaults only.
func Load(path string) (*Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog file %q: %v", models.ErrConfiguration, path, err)
	}
	var fc fileCatalog
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog file %q: %v", models.ErrConfiguration, path, err)
	}

	if fc.ReportingCurrency != "" {
		cat.ReportingCurrency = fc.ReportingCurrency
	}
	if len(fc.Syndicates) > 0 {
		cat.Syndicates = cat.Syndicates[:0]
		for _, s := range fc.Syndicates {
			cat.Syndicates = append(cat.Syndicates, models.Syndicate(s))
		}
	}
	if len(fc.Years) > 0 {
		cat.Years = fc.Years
	}
	if fc.Lines != nil {
		cat.Lines = *fc.Lines
	}
	if fc.AssetCategories != nil {
		cat.AssetCategories = *fc.AssetCategories
	}
	if fc.Currencies != nil {
		cat.Currencies = *fc.Currencies
	}
	if fc.RiskModules != nil {
		cat.RiskModules = *fc.RiskModules
	}
	if len(fc.FXRates) > 0 {
		for ccy, rate := range fc.FXRates {
			cat.FXRates[ccy] = rate
		}
	}
	if len(fc.Correlation) > 0 {
		cat.Correlation = fc.Correlation
	}
	if fc.Curve != nil {
		cat.Curve = *fc.Curve
	}
	for name, spec := range fc.Dists {
		cat.Dists[name] = spec
	}
	return cat, nil
}
