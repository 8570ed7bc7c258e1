package hostinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNvidiaSMI(t *testing.T) {
	t.Run("TwoDevices", func(t *testing.T) {
		out := []byte("35, 2048, 16384\n100, 16384, 16384\n")
		gpus, err := parseNvidiaSMI(out)
		require.NoError(t, err)
		require.Len(t, gpus, 2)

		assert.Equal(t, 35.0, gpus[0].Load)
		assert.InDelta(t, 0.125, gpus[0].Memory, 0.0001)
		assert.Equal(t, 100.0, gpus[1].Load)
		assert.InDelta(t, 1.0, gpus[1].Memory, 0.0001)
	})

	t.Run("EmptyOutput", func(t *testing.T) {
		gpus, err := parseNvidiaSMI([]byte("\n"))
		require.NoError(t, err)
		assert.Empty(t, gpus)
	})

	t.Run("ZeroTotalMemory", func(t *testing.T) {
		gpus, err := parseNvidiaSMI([]byte("10, 0, 0"))
		require.NoError(t, err)
		require.Len(t, gpus, 1)
		assert.Zero(t, gpus[0].Memory)
	})

	t.Run("MalformedLines", func(t *testing.T) {
		for _, out := range []string{"nonsense", "1, 2", "a, b, c"} {
			_, err := parseNvidiaSMI([]byte(out))
			assert.Error(t, err)
		}
	})
}

func TestCollectGPUsRequiresManager(t *testing.T) {
	_, err := collectGPUs(t.Context(), nil)
	assert.Error(t, err)
}
