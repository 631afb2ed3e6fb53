package domain

import (
	"encoding/json"
	"math"
	"sort"
)

// Distribution is a probability mass function per instrument: discretized
// impact level → aggregate probability mass. Keys are canonical multiples of
// the binning granularity, so equal levels compare equal as map keys.
type Distribution map[float64]float64

// Levels returns the impact levels in ascending order.
func (d Distribution) Levels() []float64 {
	levels := make([]float64, 0, len(d))
	for level := range d {
		levels = append(levels, level)
	}
	sort.Float64s(levels)
	return levels
}

// TotalMass returns the sum of all probability masses. Expected to be 1
// within rounding tolerance for a well-formed PMF.
func (d Distribution) TotalMass() float64 {
	total := 0.0
	for _, p := range d {
		total += p
	}
	return total
}

// Clone returns an independent copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for level, p := range d {
		out[level] = p
	}
	return out
}

// DistributionPoint is one (impact level, probability) entry of a PMF in
// renderable table form.
type DistributionPoint struct {
	Impact      float64 `json:"impact"`
	Probability float64 `json:"probability"`
}

// Points returns the PMF as a sorted table for rendering or export.
func (d Distribution) Points() []DistributionPoint {
	levels := d.Levels()
	points := make([]DistributionPoint, len(levels))
	for i, level := range levels {
		points[i] = DistributionPoint{Impact: level, Probability: d[level]}
	}
	return points
}

// CumulativePoint is one step of a cumulative distribution.
type CumulativePoint struct {
	Impact     float64 `json:"impact"`
	Cumulative float64 `json:"cumulative"`
}

// CumulativeDistribution is a monotone non-decreasing step function of impact
// level, ordered ascending by impact. Built by prefix-summing a PMF; used by
// the dominance filter and exposed for CDF chart rendering.
type CumulativeDistribution []CumulativePoint

// Portfolio is one randomly drawn weight vector with its risk/return scores.
// Score is NaN when volatility is zero (risk-adjusted ratio undefined).
type Portfolio struct {
	Weights       map[string]float64 `json:"weights"`
	ExpectedValue float64            `json:"expected_value"`
	Volatility    float64            `json:"volatility"`
	Score         float64            `json:"score"`
}

// MarshalJSON renders an undefined (NaN) score as null so result tables stay
// exportable; encoding/json rejects NaN otherwise.
func (p Portfolio) MarshalJSON() ([]byte, error) {
	type alias struct {
		Weights       map[string]float64 `json:"weights"`
		ExpectedValue float64            `json:"expected_value"`
		Volatility    float64            `json:"volatility"`
		Score         *float64           `json:"score"`
	}
	a := alias{
		Weights:       p.Weights,
		ExpectedValue: p.ExpectedValue,
		Volatility:    p.Volatility,
	}
	if !math.IsNaN(p.Score) {
		score := p.Score
		a.Score = &score
	}
	return json.Marshal(a)
}
