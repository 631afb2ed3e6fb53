// Package distributions turns per-path instrument impacts into probability
// mass functions: impacts are binned to a fixed granularity, adjusted for the
// instrument's valuation state, and re-binned.
package distributions

import (
	"context"
	"fmt"

	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Aggregator builds per-instrument PMFs.
type Aggregator struct {
	granularity float64
	factor      float64
	workers     int
	log         zerolog.Logger
}

// NewAggregator creates an aggregator with the given bin granularity and
// valuation scale factor.
func NewAggregator(granularity, factor float64, workers int, log zerolog.Logger) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		granularity: granularity,
		factor:      factor,
		workers:     workers,
		log:         log.With().Str("component", "distribution_aggregator").Logger(),
	}
}

// Aggregate builds the valuation-adjusted PMF for every instrument.
// Each impacts row is aligned index-for-index with paths; the path
// probability is the mass contributed to the bin its impact rounds into.
// Instruments are independent and processed concurrently.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	paths []domain.ScenarioPath,
	impacts map[string][]float64,
	valuations domain.ValuationSource,
) (map[string]domain.Distribution, error) {
	if valuations == nil {
		valuations = domain.Valuations(nil)
	}

	instruments := make([]string, 0, len(impacts))
	for instrument := range impacts {
		instruments = append(instruments, instrument)
	}

	pmfs := make(map[string]domain.Distribution, len(instruments))
	results := make([]domain.Distribution, len(instruments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, instrument := range instruments {
		i, instrument := i, instrument
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := impacts[instrument]
			if len(row) != len(paths) {
				return fmt.Errorf("instrument %s has %d impacts for %d paths", instrument, len(row), len(paths))
			}
			raw := a.binImpacts(paths, row)
			results[i] = a.adjust(raw, valuations.State(instrument))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, instrument := range instruments {
		pmfs[instrument] = results[i]
	}
	return pmfs, nil
}

// binImpacts rounds each path impact to the nearest granularity and sums the
// probabilities of paths landing in the same bin.
func (a *Aggregator) binImpacts(paths []domain.ScenarioPath, row []float64) domain.Distribution {
	pmf := make(domain.Distribution)
	for p, impact := range row {
		bin := formulas.RoundToGranularity(impact, a.granularity)
		pmf[bin] += paths[p].Probability
	}
	return pmf
}

// adjust applies the valuation scale factor to every impact level and
// re-bins. Rich compresses upside and amplifies downside; cheap is the
// mirror image; par and unknown leave the PMF untouched. The second rounding
// pass matters: the adjustment can map two previously distinct bins onto the
// same level, and their masses must be summed.
func (a *Aggregator) adjust(pmf domain.Distribution, state domain.ValuationState) domain.Distribution {
	if state != domain.ValuationRich && state != domain.ValuationCheap {
		return pmf
	}

	adjusted := make(domain.Distribution, len(pmf))
	for impact, mass := range pmf {
		adjusted[formulas.RoundToGranularity(a.adjustImpact(impact, state), a.granularity)] += mass
	}
	return adjusted
}

func (a *Aggregator) adjustImpact(impact float64, state domain.ValuationState) float64 {
	switch {
	case state == domain.ValuationRich && impact >= 0:
		return impact / a.factor
	case state == domain.ValuationRich:
		return impact * a.factor
	case state == domain.ValuationCheap && impact >= 0:
		return impact * a.factor
	case state == domain.ValuationCheap:
		return impact / a.factor
	default:
		return impact
	}
}

// FillUnion extends every PMF with zero-probability entries so that all
// instruments are defined over the same superset of impact levels. Required
// before cumulative distributions are compared pairwise.
func FillUnion(pmfs map[string]domain.Distribution) map[string]domain.Distribution {
	union := make(map[float64]struct{})
	for _, pmf := range pmfs {
		for level := range pmf {
			union[level] = struct{}{}
		}
	}

	filled := make(map[string]domain.Distribution, len(pmfs))
	for instrument, pmf := range pmfs {
		out := pmf.Clone()
		for level := range union {
			if _, ok := out[level]; !ok {
				out[level] = 0
			}
		}
		filled[instrument] = out
	}
	return filled
}
