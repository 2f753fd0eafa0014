package engine

import (
	"math"

	"github.com/username/syndforge/src/catalog"
	"github.com/username/syndforge/src/utils"
)

// DevelopmentFraction is the share of ultimate reported at development
// year d: 1 - (1-f0)*decay^d. Strictly increasing in d and converging
// to 1, which is what makes cumulative triangles monotone by
// construction rather than by post-hoc repair.
func DevelopmentFraction(curve catalog.TriangleCurve, d int) float64 {
	return 1 - (1-curve.F0)*math.Pow(curve.Decay, float64(d))
}

// CumulativeDevelopment builds the cumulative amounts for one origin
// year from its ultimate loss. Values are tracked at full precision and
// rounded per cell for currency display; if rounding would break
// monotonicity the later cell is forced up to the prior one.
func CumulativeDevelopment(ultimate float64, curve catalog.TriangleCurve) []float64 {
	cumulative := make([]float64, curve.DevYears)
	var prev float64
	for d := 0; d < curve.DevYears; d++ {
		cell := utils.RoundFloat(ultimate*DevelopmentFraction(curve, d), 2)
		if cell < prev {
			cell = prev
		}
		cumulative[d] = cell
		prev = cell
	}
	return cumulative
}
