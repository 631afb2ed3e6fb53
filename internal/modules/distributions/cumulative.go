package distributions

import (
	"github.com/aristath/foresight/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// Cumulative builds the cumulative distribution of a PMF: levels sorted
// ascending, probabilities prefix-summed. The result is monotone
// non-decreasing and its last value is the PMF's total mass (1 within
// rounding tolerance for a well-formed PMF).
func Cumulative(pmf domain.Distribution) domain.CumulativeDistribution {
	levels := pmf.Levels()
	masses := make([]float64, len(levels))
	for i, level := range levels {
		masses[i] = pmf[level]
	}
	floats.CumSum(masses, masses)

	cdf := make(domain.CumulativeDistribution, len(levels))
	for i, level := range levels {
		cdf[i] = domain.CumulativePoint{Impact: level, Cumulative: masses[i]}
	}
	return cdf
}

// CumulativeAll builds the cumulative distribution for every instrument.
func CumulativeAll(pmfs map[string]domain.Distribution) map[string]domain.CumulativeDistribution {
	cdfs := make(map[string]domain.CumulativeDistribution, len(pmfs))
	for instrument, pmf := range pmfs {
		cdfs[instrument] = Cumulative(pmf)
	}
	return cdfs
}
