package randctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawN(ctx *Context, n int, parts ...string) []float64 {
	stream := ctx.Stream(parts...)
	out := make([]float64, n)
	for i := range out {
		out[i] = stream.Float64()
	}
	return out
}

func TestStream_SameKeySameSequence(t *testing.T) {
	a := drawN(New(42), 10, "33", "2023", "PROP", "gross_premium")
	b := drawN(New(42), 10, "33", "2023", "PROP", "gross_premium")
	assert.Equal(t, a, b)
}

func TestStream_OrderIndependent(t *testing.T) {
	// Drawing from other keys first must not disturb a key's stream.
	ctx := New(42)
	_ = drawN(ctx, 100, "623", "2024", "MAR", "ultimate_loss")
	_ = drawN(ctx, 3, "33", "2023")
	interleaved := drawN(ctx, 10, "33", "2023", "PROP", "gross_premium")

	fresh := drawN(New(42), 10, "33", "2023", "PROP", "gross_premium")
	assert.Equal(t, fresh, interleaved)
}

func TestStream_DistinctKeysDistinctStreams(t *testing.T) {
	ctx := New(42)
	a := drawN(ctx, 5, "33", "2023", "PROP", "gross_premium")
	b := drawN(ctx, 5, "33", "2023", "PROP", "net_premium")
	assert.NotEqual(t, a, b)
}

func TestStream_KeyPartBoundaries(t *testing.T) {
	// ("ab","c") and ("a","bc") concatenate identically; the separator
	// must still keep them apart.
	ctx := New(42)
	a := drawN(ctx, 5, "ab", "c")
	b := drawN(ctx, 5, "a", "bc")
	assert.NotEqual(t, a, b)
}

func TestStream_SeedChangesStream(t *testing.T) {
	a := drawN(New(42), 5, "33", "2023", "PROP", "gross_premium")
	b := drawN(New(7), 5, "33", "2023", "PROP", "gross_premium")
	assert.NotEqual(t, a, b)
}

func TestSeed(t *testing.T) {
	require.Equal(t, int64(42), New(42).Seed())
}
