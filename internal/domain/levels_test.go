package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scaleFromValues(vals ...float64) LevelScale {
	means := make(map[string]float64, len(vals))
	for i, v := range vals {
		means[string(rune('a'+i))] = v
	}
	return BuildLevelScale(means, DefaultLevelCount)
}

func TestBuildLevelScale(t *testing.T) {
	t.Run("five thresholds for six levels", func(t *testing.T) {
		s := scaleFromValues(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)

		require.Len(t, s.Thresholds, 5)
		assert.InDelta(t, 2.8333, s.Thresholds[0], 1e-3)
		assert.InDelta(t, 4.6667, s.Thresholds[1], 1e-3)
		assert.InDelta(t, 6.5, s.Thresholds[2], 1e-3)
		assert.InDelta(t, 8.3333, s.Thresholds[3], 1e-3)
		assert.InDelta(t, 10.1667, s.Thresholds[4], 1e-3)
		assert.True(t, s.Lo <= s.Hi)
		assert.GreaterOrEqual(t, s.Lo, 1.0)
		assert.LessOrEqual(t, s.Hi, 12.0)
	})

	t.Run("thresholds are ordered", func(t *testing.T) {
		s := scaleFromValues(3, 1, 41, 5, 9, 2, 6, 5.3)
		for i := 1; i < len(s.Thresholds); i++ {
			assert.LessOrEqual(t, s.Thresholds[i-1], s.Thresholds[i])
		}
	})

	t.Run("non-positive and non-finite values are ignored", func(t *testing.T) {
		s := scaleFromValues(0, -3, math.NaN(), math.Inf(1), 5)
		// A single usable value degenerates every quantile to it.
		require.Len(t, s.Thresholds, 5)
		for _, th := range s.Thresholds {
			assert.Equal(t, 5.0, th)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		s := BuildLevelScale(nil, DefaultLevelCount)
		assert.Empty(t, s.Thresholds)
		assert.Equal(t, DefaultLevelCount, s.N)
	})
}

func TestClassify(t *testing.T) {
	s := scaleFromValues(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)

	t.Run("non-positive and non-finite map to zero", func(t *testing.T) {
		assert.Equal(t, 0, s.Classify(0))
		assert.Equal(t, 0, s.Classify(-4))
		assert.Equal(t, 0, s.Classify(math.NaN()))
		assert.Equal(t, 0, s.Classify(math.Inf(1)))
	})

	t.Run("at or below the first threshold is level one", func(t *testing.T) {
		assert.Equal(t, 1, s.Classify(0.5))
		assert.Equal(t, 1, s.Classify(s.Thresholds[0]))
	})

	t.Run("above every threshold is the top level", func(t *testing.T) {
		assert.Equal(t, s.N, s.Classify(100))
	})

	t.Run("monotonic", func(t *testing.T) {
		values := []float64{0.1, 1, 2.8, 3, 4.7, 6.5, 6.6, 9, 10.2, 50}
		prev := 0
		for _, v := range values {
			lvl := s.Classify(v)
			assert.GreaterOrEqual(t, lvl, prev, "value %v", v)
			assert.LessOrEqual(t, lvl, s.N)
			prev = lvl
		}
	})

	t.Run("degenerate scale always reports zero", func(t *testing.T) {
		empty := BuildLevelScale(nil, DefaultLevelCount)
		for _, v := range []float64{-1, 0, 0.01, 5, math.Inf(1)} {
			assert.Equal(t, 0, empty.Classify(v))
		}
	})
}
