package domain

import (
	"math"
	"sort"
)

// DefaultLevelCount is the number of odor intensity levels above "no data".
const DefaultLevelCount = 6

// LevelScale classifies odor means into discrete levels 0..N.
// Thresholds are the i/N quantiles (i = 1..N-1) of the positive
// all-time region means; Lo and Hi are the 2% and 98% quantiles of the
// same values, exposed so the renderer can clamp its color ramp.
// The scale is built once at load and never rebuilt.
type LevelScale struct {
	Thresholds []float64 `json:"thresholds"`
	N          int       `json:"n"`
	Lo         float64   `json:"lo"`
	Hi         float64   `json:"hi"`
}

// BuildLevelScale derives a LevelScale from per-region means. Only
// positive finite values participate. An empty value set yields empty
// thresholds, and Classify then reports 0 for every input.
func BuildLevelScale(regionMeans map[string]float64, n int) LevelScale {
	vals := make([]float64, 0, len(regionMeans))
	for _, v := range regionMeans {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)

	scale := LevelScale{N: n}
	if len(vals) == 0 {
		scale.Hi = 1 // keep the renderer's color domain non-degenerate
		return scale
	}

	for i := 1; i < n; i++ {
		scale.Thresholds = append(scale.Thresholds, quantile(vals, float64(i)/float64(n)))
	}
	scale.Lo = quantile(vals, 0.02)
	scale.Hi = quantile(vals, 0.98)
	return scale
}

// Classify maps a value to a level: 0 for non-finite or non-positive
// values (and always, when the scale is degenerate), else the smallest
// level whose threshold the value does not exceed, else N.
func (s LevelScale) Classify(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || len(s.Thresholds) == 0 {
		return 0
	}
	lvl := 1
	for lvl <= len(s.Thresholds) && v > s.Thresholds[lvl-1] {
		lvl++
	}
	if lvl > s.N {
		return s.N
	}
	return lvl
}

// quantile interpolates linearly between the order statistics of a
// sorted slice (type-7 quantile), matching the scale the observed
// thresholds were calibrated against.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := p * float64(len(sorted)-1)
	i := int(math.Floor(h))
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}
