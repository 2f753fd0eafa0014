package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/syndforge/src/catalog"
)

func testCurve() catalog.TriangleCurve {
	return catalog.Default().Curve
}

func TestDevelopmentFraction_IncreasingTowardOne(t *testing.T) {
	curve := testCurve()

	assert.InDelta(t, curve.F0, DevelopmentFraction(curve, 0), 1e-12)

	prev := 0.0
	for d := 0; d < curve.DevYears; d++ {
		f := DevelopmentFraction(curve, d)
		assert.Greater(t, f, prev, "fraction must strictly increase at d=%d", d)
		assert.Less(t, f, 1.0)
		prev = f
	}
	assert.InDelta(t, 1.0, DevelopmentFraction(curve, curve.DevYears-1), curve.Tolerance)
}

func TestCumulativeDevelopment_Monotone(t *testing.T) {
	curve := testCurve()
	for _, ultimate := range []float64{0.01, 123.45, 50_000, 7_654_321.99, 100_000_000} {
		cumulative := CumulativeDevelopment(ultimate, curve)
		require.Len(t, cumulative, curve.DevYears)
		for d := 1; d < len(cumulative); d++ {
			assert.GreaterOrEqual(t, cumulative[d], cumulative[d-1],
				"ultimate %.2f decreased at d=%d", ultimate, d)
		}
	}
}

func TestCumulativeDevelopment_ConvergesToUltimate(t *testing.T) {
	curve := testCurve()
	ultimate := 2_500_000.0
	cumulative := CumulativeDevelopment(ultimate, curve)

	last := cumulative[len(cumulative)-1]
	assert.LessOrEqual(t, math.Abs(last-ultimate)/ultimate, curve.Tolerance)
	// Convergence approaches from below: nothing develops past ultimate.
	assert.LessOrEqual(t, last, ultimate)
}

func TestCumulativeDevelopment_ZeroUltimate(t *testing.T) {
	cumulative := CumulativeDevelopment(0, testCurve())
	for _, c := range cumulative {
		assert.Zero(t, c)
	}
}

func TestCumulativeDevelopment_IncrementalsNonNegative(t *testing.T) {
	curve := testCurve()
	cumulative := CumulativeDevelopment(999_999.37, curve)
	prev := 0.0
	for d := 0; d < len(cumulative); d++ {
		incremental := cumulative[d] - prev
		assert.GreaterOrEqual(t, incremental, 0.0)
		prev = cumulative[d]
	}
}

func TestCumulativeDevelopment_RoundedToCurrency(t *testing.T) {
	cumulative := CumulativeDevelopment(1_000_000.123456, testCurve())
	for _, c := range cumulative {
		assert.InDelta(t, c, math.Round(c*100)/100, 1e-9, "cells must be 2dp")
	}
}
