// Package dominance implements the first-order stochastic dominance filter:
// an instrument is discarded when its cumulative curve is never below some
// other instrument's, meaning that other instrument carries at least as much
// probability of better outcomes at every impact level.
package dominance

import (
	"fmt"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
)

// Filter eliminates stochastically dominated instruments.
type Filter struct {
	log zerolog.Logger
}

// NewFilter creates a dominance filter.
func NewFilter(log zerolog.Logger) *Filter {
	return &Filter{log: log.With().Str("component", "dominance_filter").Logger()}
}

// Apply returns the instruments from order whose cumulative distribution is
// not dominated by any other instrument's. All curves must be defined over
// the same ascending level set (see distributions.FillUnion).
//
// Instrument A is eliminated when some B exists with max(CDF_B − CDF_A) ≤ 0
// across all levels: B's curve never sits above A's, so B's outcomes are at
// least as good at every probability level. Each instrument's verdict is
// computed independently from read-only inputs, then the survivors are
// filtered out in one pass.
//
// Tie-break: two identical curves would eliminate each other under the raw
// rule, which could empty the universe. Instead only the later instrument in
// the given order is eliminated; the first-encountered one survives. For a
// non-empty input at least one instrument always survives.
func (f *Filter) Apply(curves map[string]domain.CumulativeDistribution, order []string) ([]string, error) {
	for _, instrument := range order {
		if _, ok := curves[instrument]; !ok {
			return nil, fmt.Errorf("no cumulative distribution for instrument %s", instrument)
		}
	}

	survivors := make([]string, 0, len(order))
	for i, instrument := range order {
		dominated, by := f.isDominated(curves, order, i)
		if dominated {
			f.log.Debug().
				Str("instrument", instrument).
				Str("dominated_by", by).
				Msg("Instrument eliminated")
			continue
		}
		survivors = append(survivors, instrument)
	}

	f.log.Debug().
		Int("universe", len(order)).
		Int("survivors", len(survivors)).
		Msg("Dominance filter applied")

	return survivors, nil
}

// isDominated reports whether order[i] is dominated by any other instrument,
// and by which. Comparison stops at the first dominating counterpart.
func (f *Filter) isDominated(curves map[string]domain.CumulativeDistribution, order []string, i int) (bool, string) {
	self := curves[order[i]]
	for j, other := range order {
		if j == i {
			continue
		}
		maxDiff, identical := curveGap(curves[other], self)
		if maxDiff > 0 {
			continue
		}
		// Identical curves: only the later-ordered instrument yields.
		if identical && j > i {
			continue
		}
		return true, other
	}
	return false, ""
}

// curveGap returns the maximum of (other − self) across all levels and
// whether the two curves are identical. Both curves share the same level set.
func curveGap(other, self domain.CumulativeDistribution) (float64, bool) {
	maxDiff := 0.0
	identical := true
	for k := range self {
		diff := other[k].Cumulative - self[k].Cumulative
		if diff != 0 {
			identical = false
		}
		if k == 0 || diff > maxDiff {
			maxDiff = diff
		}
	}
	return maxDiff, identical
}
