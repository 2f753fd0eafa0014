package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/syndforge/src/catalog"
	"github.com/username/syndforge/src/models"
)

func charges(values ...float64) []models.RiskCharge {
	out := make([]models.RiskCharge, len(values))
	for i, v := range values {
		out[i] = models.RiskCharge{Module: string(rune('A' + i)), Charge: v}
	}
	return out
}

func TestDiversified_IdentityMatrix(t *testing.T) {
	corr := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	total, err := Diversified(charges(300, 400, 0), corr)
	require.NoError(t, err)
	assert.InDelta(t, 500, total, 1e-9) // sqrt(300^2 + 400^2)
}

func TestDiversified_FullCorrelationEqualsSum(t *testing.T) {
	corr := [][]float64{
		{1, 1},
		{1, 1},
	}
	total, err := Diversified(charges(100, 250), corr)
	require.NoError(t, err)
	assert.InDelta(t, 350, total, 1e-9)
}

func TestDiversified_SubAdditive(t *testing.T) {
	cat := catalog.Default()
	cs := charges(1_000_000, 2_500_000, 750_000, 1_250_000, 500_000)

	total, err := Diversified(cs, cat.Correlation)
	require.NoError(t, err)

	var standalone float64
	for _, c := range cs {
		standalone += c.Charge
	}
	assert.LessOrEqual(t, total, standalone)
	assert.GreaterOrEqual(t, total, 0.0)
}

func TestDiversified_OutOfRangeCorrelation(t *testing.T) {
	corr := [][]float64{
		{1, -2},
		{-2, 1},
	}
	_, err := Diversified(charges(100, 100), corr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDomain))
}

func TestDiversified_NegativeRadicand(t *testing.T) {
	// Pairwise rho=-1 over three equal charges is not positive
	// semi-definite: radicand = 3c^2 - 6c^2 < 0.
	corr := [][]float64{
		{1, -1, -1},
		{-1, 1, -1},
		{-1, -1, 1},
	}
	total, err := Diversified(charges(100, 100, 100), corr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDomain))
	assert.Zero(t, total)
	assert.False(t, math.IsNaN(total))
}

func TestDiversified_SizeMismatch(t *testing.T) {
	corr := [][]float64{{1}}
	_, err := Diversified(charges(100, 200), corr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}
