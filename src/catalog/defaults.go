package catalog

import "github.com/username/syndforge/src/models"

// Distribution names the engine draws from. Kept as catalog entries so
// the probability/shape constants live in configuration, not code.
const (
	DistGrossPremium   = "gross_premium"
	DistRetentionRatio = "retention_ratio"
	DistCash           = "cash"
	DistReceivables    = "receivables"
	DistOtherPayables  = "other_payables"
	DistAssetValue     = "asset_value"
	DistRiskCharge     = "risk_charge"
	DistUltimateLoss   = "ultimate_loss"
	DistOpeningReserve = "opening_reserve"
	DistPaidRatio      = "paid_ratio"
	DistFXRevalRatio   = "fx_reval_ratio"
)

// Default returns the built-in catalog. All figures are fictitious.
func Default() *Catalog {
	return &Catalog{
		ReportingCurrency: "GBP",
		Syndicates:        []models.Syndicate{33, 623, 1176, 2010},
		Years:             []int{2021, 2022, 2023, 2024},

		Lines: Taxonomy{
			Fallback: "OTH",
			Codes: []models.Code{
				{Code: "PROP", Label: "Property", Weight: 0.25},
				{Code: "CAS", Label: "Casualty", Weight: 0.2},
				{Code: "MAR", Label: "Marine", Weight: 0.15},
				{Code: "AVN", Label: "Aviation", Weight: 0.1},
				{Code: "ENG", Label: "Energy", Weight: 0.1},
				{Code: "MOT", Label: "Motor", Weight: 0.1},
				{Code: "OTH", Label: "Other", Weight: 0.1},
			},
		},
		AssetCategories: Taxonomy{
			Fallback: "OTH",
			Codes: []models.Code{
				{Code: "GOVT", Label: "Government bonds", Weight: 0.35},
				{Code: "CORP", Label: "Corporate bonds", Weight: 0.3},
				{Code: "EQTY", Label: "Equities", Weight: 0.15},
				{Code: "CASH", Label: "Cash and equivalents", Weight: 0.15},
				{Code: "OTH", Label: "Other investments", Weight: 0.05},
			},
		},
		Currencies: Taxonomy{
			Fallback: "GBP",
			Codes: []models.Code{
				{Code: "GBP", Label: "Pound sterling", Weight: 0.35},
				{Code: "USD", Label: "US dollar", Weight: 0.4},
				{Code: "EUR", Label: "Euro", Weight: 0.15},
				{Code: "CAD", Label: "Canadian dollar", Weight: 0.05},
				{Code: "JPY", Label: "Japanese yen", Weight: 0.03},
				{Code: "AUD", Label: "Australian dollar", Weight: 0.02},
			},
		},
		RiskModules: Taxonomy{
			Fallback: "OP",
			Codes: []models.Code{
				{Code: "UW", Label: "Underwriting risk", Weight: 1},
				{Code: "RES", Label: "Reserve risk", Weight: 1},
				{Code: "MKT", Label: "Market risk", Weight: 1},
				{Code: "CR", Label: "Credit risk", Weight: 1},
				{Code: "OP", Label: "Operational risk", Weight: 1},
			},
		},

		FXRates: map[string]float64{
			"GBP": 1.0,
			"USD": 0.79,
			"EUR": 0.85,
			"CAD": 0.58,
			"JPY": 0.0053,
			"AUD": 0.52,
		},

		// Indexed by RiskModules order: UW, RES, MKT, CR, OP.
		Correlation: [][]float64{
			{1, 0.5, 0.25, 0.25, 0.25},
			{0.5, 1, 0.25, 0.25, 0.25},
			{0.25, 0.25, 1, 0.25, 0.25},
			{0.25, 0.25, 0.25, 1, 0.5},
			{0.25, 0.25, 0.25, 0.5, 1},
		},

		Curve: TriangleCurve{
			F0:        0.35,
			Decay:     0.5,
			DevYears:  8,
			Tolerance: 0.01,
		},

		Dists: map[string]models.DistSpec{
			DistGrossPremium:   {Kind: models.DistLogNormal, Mu: 16.5, Sigma: 0.6, Lo: 250_000, Hi: 150_000_000, Gate: 0.2},
			DistRetentionRatio: {Kind: models.DistUniform, A: 0.55, B: 0.95},
			DistCash:           {Kind: models.DistLogNormal, Mu: 15.5, Sigma: 0.5, Lo: 100_000, Hi: 80_000_000},
			DistReceivables:    {Kind: models.DistLogNormal, Mu: 15.0, Sigma: 0.6, Lo: 50_000, Hi: 60_000_000},
			DistOtherPayables:  {Kind: models.DistLogNormal, Mu: 14.8, Sigma: 0.6, Lo: 50_000, Hi: 50_000_000},
			DistAssetValue:     {Kind: models.DistLogNormal, Mu: 16.0, Sigma: 0.7, Lo: 100_000, Hi: 120_000_000, Gate: 0.1},
			DistRiskCharge:     {Kind: models.DistLogNormal, Mu: 15.2, Sigma: 0.5, Lo: 100_000, Hi: 60_000_000},
			DistUltimateLoss:   {Kind: models.DistLogNormal, Mu: 15.8, Sigma: 0.65, Lo: 100_000, Hi: 100_000_000, Gate: 0.15},
			DistOpeningReserve: {Kind: models.DistLogNormal, Mu: 15.6, Sigma: 0.5, Lo: 100_000, Hi: 90_000_000},
			DistPaidRatio:      {Kind: models.DistUniform, A: 0.3, B: 0.7},
			DistFXRevalRatio:   {Kind: models.DistUniform, A: -0.02, B: 0.02},
		},
	}
}
