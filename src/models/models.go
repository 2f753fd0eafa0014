package models

import (
	"fmt"
	"strconv"
)

// Syndicate identifies a reporting unit. Syndicate numbers are opaque;
// no ordering or range semantics beyond equality.
type Syndicate int

func (s Syndicate) String() string {
	return strconv.Itoa(int(s))
}

// Period is a reporting year with an optional quarter (0 = full year).
type Period struct {
	Year    int
	Quarter int
}

func (p Period) String() string {
	if p.Quarter == 0 {
		return strconv.Itoa(p.Year)
	}
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// Before orders periods chronologically. Annual periods sort before the
// quarters of the same year.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Quarter < o.Quarter
}

// Code is one member of a classification taxonomy.
type Code struct {
	Code   string  `yaml:"code"`
	Label  string  `yaml:"label"`
	Weight float64 `yaml:"weight"`
}

// MonetaryAmount is a value in a specific currency. Conversion to the
// reporting currency goes through the catalog's fixed per-run rate table.
type MonetaryAmount struct {
	Value    float64
	Currency string
}

// DerivedRecord is one output row of a form: partly sampled, partly
// computed fields, keyed back to the syndicate/period/class it was
// generated for.
type DerivedRecord struct {
	Form      string
	Syndicate Syndicate
	Period    Period
	Class     string
	Fields    map[string]any
}

// Float reads a numeric field, converting integer-typed values.
func (r DerivedRecord) Float(name string) (float64, bool) {
	switch v := r.Fields[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Table is the ordered output of one form kind: a fixed column set and
// the rows for every (syndicate, period) the run covered.
type Table struct {
	Form    string
	Columns []string
	Rows    []DerivedRecord
}

// ClaimsTriangle holds cumulative claim amounts for one
// (syndicate, origin year, class), indexed by development year.
// Cumulative values are display-rounded and non-decreasing; Ultimate is
// the asymptotic loss the development converges toward.
type ClaimsTriangle struct {
	Syndicate  Syndicate
	OriginYear int
	Class      string
	Ultimate   float64
	Cumulative []float64
}

// Incremental returns the movement at development year d (>= 0 by
// construction since Cumulative is non-decreasing).
func (t ClaimsTriangle) Incremental(d int) float64 {
	if d < 0 || d >= len(t.Cumulative) {
		return 0
	}
	if d == 0 {
		return t.Cumulative[0]
	}
	return t.Cumulative[d] - t.Cumulative[d-1]
}

// RiskCharge is a standalone capital charge for one risk module.
type RiskCharge struct {
	Module string
	Charge float64
}

// CapitalResult is the per-(syndicate, period) capital picture: the
// standalone module charges plus the correlation-diversified total.
type CapitalResult struct {
	Syndicate   Syndicate
	Period      Period
	Charges     []RiskCharge
	Diversified float64
}

// StandaloneSum is the undiversified total of module charges.
func (c CapitalResult) StandaloneSum() float64 {
	var sum float64
	for _, ch := range c.Charges {
		sum += ch.Charge
	}
	return sum
}

// Dataset is the complete generated output of one run, handed to the
// validator and then to the export sinks.
type Dataset struct {
	Tables    map[string]*Table
	Triangles []ClaimsTriangle
	Capital   []CapitalResult
}

// ValidationFailure records one violated invariant: the rule, the key it
// failed for and the two conflicting values.
type ValidationFailure struct {
	Rule   string
	Key    string
	Got    float64
	Want   float64
	Detail string
}

func (f ValidationFailure) String() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s [%s]: got %.4f, want %.4f (%s)", f.Rule, f.Key, f.Got, f.Want, f.Detail)
	}
	return fmt.Sprintf("%s [%s]: got %.4f, want %.4f", f.Rule, f.Key, f.Got, f.Want)
}
