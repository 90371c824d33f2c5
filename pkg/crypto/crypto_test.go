package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_RandSample(t *testing.T) {
	items := []string{"a", "b", "c", "d"}

	sample := RandSample(items, 2)
	require.Len(t, sample, 2)
	require.NotEqual(t, sample[0], sample[1])
	require.Subset(t, items, sample)

	// Oversized and negative counts clamp instead of panicking.
	require.Len(t, RandSample(items, 10), len(items))
	require.Empty(t, RandSample(items, -1))
	require.Empty(t, RandSample(items, 0))
	require.Empty(t, RandSample([]string{}, 3))
}

func Test_RandFloat(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := RandFloat()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}
