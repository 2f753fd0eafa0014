package sampler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/syndforge/src/models"
	"github.com/username/syndforge/src/randctx"
)

func testKey(field string) Key {
	return Key{Syndicate: 33, Period: models.Period{Year: 2023}, Class: "PROP", Field: field}
}

func TestAmount_SampleOnce(t *testing.T) {
	s := New(randctx.New(42))
	spec := models.DistSpec{Kind: models.DistLogNormal, Mu: 14, Sigma: 0.6}

	first, err := s.Amount(testKey("gross_premium"), spec)
	require.NoError(t, err)
	second, err := s.Amount(testKey("gross_premium"), spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAmount_DeterministicAcrossStores(t *testing.T) {
	spec := models.DistSpec{Kind: models.DistLogNormal, Mu: 14, Sigma: 0.6}

	a := New(randctx.New(42))
	// Draw unrelated keys first so cross-store agreement cannot depend
	// on draw order.
	_, err := a.Amount(testKey("other"), spec)
	require.NoError(t, err)
	got, err := a.Amount(testKey("gross_premium"), spec)
	require.NoError(t, err)

	b := New(randctx.New(42))
	want, err := b.Amount(testKey("gross_premium"), spec)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAmount_ClipBounds(t *testing.T) {
	s := New(randctx.New(42))
	spec := models.DistSpec{Kind: models.DistLogNormal, Mu: 16, Sigma: 2, Lo: 1_000, Hi: 5_000}

	for i := 0; i < 50; i++ {
		key := Key{Syndicate: models.Syndicate(i), Period: models.Period{Year: 2023}, Field: "amt"}
		v, err := s.Amount(key, spec)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1_000.0)
		assert.LessOrEqual(t, v, 5_000.0)
	}
}

func TestAmount_GateForcesZero(t *testing.T) {
	s := New(randctx.New(42))
	// Gate of 1 always fires; the clip floor must not resurrect the value.
	spec := models.DistSpec{Kind: models.DistLogNormal, Mu: 14, Sigma: 0.5, Lo: 1_000, Hi: 5_000, Gate: 1}

	v, err := s.Amount(testKey("gated"), spec)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestAmount_UniformWithinRange(t *testing.T) {
	s := New(randctx.New(42))
	spec := models.DistSpec{Kind: models.DistUniform, A: 0.3, B: 0.7}

	for i := 0; i < 50; i++ {
		key := Key{Syndicate: models.Syndicate(i), Period: models.Period{Year: 2023}, Field: "ratio"}
		v, err := s.Amount(key, spec)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.3)
		assert.Less(t, v, 0.7)
	}
}

func TestAmount_Bernoulli(t *testing.T) {
	s := New(randctx.New(42))
	spec := models.DistSpec{Kind: models.DistBernoulli, P: 0.5}

	seen := map[float64]bool{}
	for i := 0; i < 100; i++ {
		key := Key{Syndicate: models.Syndicate(i), Period: models.Period{Year: 2023}, Field: "flag"}
		v, err := s.Amount(key, spec)
		require.NoError(t, err)
		require.Contains(t, []float64{0, 1}, v)
		seen[v] = true
	}
	assert.True(t, seen[0] && seen[1], "expected both outcomes across 100 keys")
}

func TestAmount_InvertedBounds(t *testing.T) {
	s := New(randctx.New(42))
	spec := models.DistSpec{Kind: models.DistUniform, A: 0, B: 1, Lo: 10, Hi: 5}

	_, err := s.Amount(testKey("bad"), spec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDomain))
}

func TestAmount_CategoricalNotNumeric(t *testing.T) {
	s := New(randctx.New(42))
	_, err := s.Amount(testKey("cat"), models.DistSpec{Kind: models.DistCategorical})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestPick_MemberAndDeterministic(t *testing.T) {
	codes := []models.Code{
		{Code: "GBP", Weight: 0.5},
		{Code: "USD", Weight: 0.4},
		{Code: "EUR", Weight: 0.1},
	}

	a := New(randctx.New(42))
	first, err := a.Pick(testKey("currency"), codes)
	require.NoError(t, err)
	assert.Contains(t, []string{"GBP", "USD", "EUR"}, first)

	again, err := a.Pick(testKey("currency"), codes)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	b := New(randctx.New(42))
	fresh, err := b.Pick(testKey("currency"), codes)
	require.NoError(t, err)
	assert.Equal(t, first, fresh)
}

func TestPick_NoPositiveWeights(t *testing.T) {
	s := New(randctx.New(42))
	_, err := s.Pick(testKey("currency"), []models.Code{{Code: "GBP", Weight: 0}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}
