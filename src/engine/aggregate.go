package engine

import (
	"fmt"
	"math"

	"github.com/username/syndforge/src/models"
)

// Diversified combines standalone module charges into a total via the
// square-root-of-sum-of-cross-products formula:
//
//	sqrt(sum_i sum_j rho_ij * c_i * c_j)
//
// Correlation entries outside [-1,1] and a negative radicand are both
// domain errors; the formula is never trusted to paper over a malformed
// matrix with a NaN.
func Diversified(charges []models.RiskCharge, corr [][]float64) (float64, error) {
	n := len(charges)
	if len(corr) != n {
		return 0, fmt.Errorf("%w: correlation matrix has %d rows for %d modules", models.ErrConfiguration, len(corr), n)
	}

	var radicand float64
	for i := 0; i < n; i++ {
		if len(corr[i]) != n {
			return 0, fmt.Errorf("%w: correlation matrix row %d has %d entries for %d modules", models.ErrConfiguration, i, len(corr[i]), n)
		}
		for j := 0; j < n; j++ {
			rho := corr[i][j]
			if rho < -1 || rho > 1 {
				return 0, fmt.Errorf("%w: correlation %.4f between %s and %s outside [-1,1]",
					models.ErrDomain, rho, charges[i].Module, charges[j].Module)
			}
			radicand += rho * charges[i].Charge * charges[j].Charge
		}
	}

	if radicand < 0 {
		return 0, fmt.Errorf("%w: negative radicand %.6f aggregating %d modules", models.ErrDomain, radicand, n)
	}
	return math.Sqrt(radicand), nil
}
