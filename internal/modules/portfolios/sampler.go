// Package portfolios draws randomly weighted portfolios over the instrument
// universe and ranks them by risk-adjusted return.
package portfolios

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config holds the sampling parameters.
type Config struct {
	Draws          int    // number of portfolios to generate
	Size           int    // distinct instruments per portfolio (k)
	TopM           int    // size of the top-ranked subset
	WeightDecimals int    // rounding precision for weights
	Seed           uint64 // base seed; each draw uses Seed+drawIndex
	Workers        int
}

// Ranking is the sampler output: every generated portfolio in draw order,
// plus the top-M subset sorted by descending score.
type Ranking struct {
	Portfolios []domain.Portfolio
	Top        []domain.Portfolio
}

// Sampler generates and scores random portfolios.
type Sampler struct {
	cfg Config
	log zerolog.Logger
}

// NewSampler creates a portfolio sampler.
func NewSampler(cfg Config, log zerolog.Logger) *Sampler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Sampler{
		cfg: cfg,
		log: log.With().Str("component", "portfolio_sampler").Logger(),
	}
}

// Sample draws cfg.Draws random portfolios from the universe and ranks them.
// Each draw picks cfg.Size distinct instruments uniformly without
// replacement, draws uniform weights, normalizes them to sum to 1, and
// rounds to cfg.WeightDecimals. Rounding is deliberately not followed by a
// second normalization, so weight sums drift from 1 by at most
// Size × half an ulp of the rounding precision.
//
// Draws run concurrently but are reproducible: draw i uses an RNG seeded
// with Seed+i, so the result is independent of scheduling.
//
// A universe smaller than the portfolio size is a configuration error.
func (s *Sampler) Sample(ctx context.Context, universe []string, pmfs map[string]domain.Distribution) (*Ranking, error) {
	if len(universe) < s.cfg.Size {
		return nil, fmt.Errorf("cannot draw %d distinct instruments from a universe of %d", s.cfg.Size, len(universe))
	}
	for _, instrument := range universe {
		if _, ok := pmfs[instrument]; !ok {
			return nil, fmt.Errorf("no distribution for instrument %s", instrument)
		}
	}

	portfolios := make([]domain.Portfolio, s.cfg.Draws)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	chunk := (s.cfg.Draws + s.cfg.Workers - 1) / s.cfg.Workers
	for start := 0; start < s.cfg.Draws; start += chunk {
		end := start + chunk
		if end > s.cfg.Draws {
			end = s.cfg.Draws
		}
		start := start
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				portfolios[i] = s.draw(s.cfg.Seed+uint64(i), universe, pmfs)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	top := rank(portfolios, s.cfg.TopM)

	undefined := 0
	for _, p := range portfolios {
		if math.IsNaN(p.Score) {
			undefined++
		}
	}
	if undefined > 0 {
		s.log.Warn().
			Int("count", undefined).
			Msg("Portfolios with zero volatility carry an undefined score")
	}
	s.log.Debug().
		Int("draws", s.cfg.Draws).
		Int("universe", len(universe)).
		Int("top", len(top)).
		Msg("Portfolios sampled")

	return &Ranking{Portfolios: portfolios, Top: top}, nil
}

// draw generates and scores a single portfolio.
func (s *Sampler) draw(seed uint64, universe []string, pmfs map[string]domain.Distribution) domain.Portfolio {
	rng := rand.New(rand.NewSource(seed))
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: rng}

	// k distinct instruments, uniformly without replacement.
	picks := rng.Perm(len(universe))[:s.cfg.Size]

	raw := make([]float64, s.cfg.Size)
	for i := range raw {
		raw[i] = uniform.Rand()
	}
	total := formulas.Sum(raw)

	chosen := make([]string, s.cfg.Size)
	weights := make(map[string]float64, s.cfg.Size)
	for i, pick := range picks {
		chosen[i] = universe[pick]
		weights[chosen[i]] = formulas.RoundTo(raw[i]/total, s.cfg.WeightDecimals)
	}

	return s.score(chosen, weights, pmfs)
}

// score computes expected value, volatility and the ranking score of a
// weight vector. The weighted series is impact × probability × weight over
// every (instrument, impact level) of the portfolio's instruments; expected
// value is its sum and volatility its sample standard deviation. Instruments
// are visited in pick order so repeated runs accumulate identically.
func (s *Sampler) score(chosen []string, weights map[string]float64, pmfs map[string]domain.Distribution) domain.Portfolio {
	var series []float64
	for _, instrument := range chosen {
		weight := weights[instrument]
		pmf := pmfs[instrument]
		for _, level := range pmf.Levels() {
			series = append(series, level*pmf[level]*weight)
		}
	}

	ev := formulas.Sum(series)
	vol := formulas.StdDev(series)
	return domain.Portfolio{
		Weights:       weights,
		ExpectedValue: ev,
		Volatility:    vol,
		Score:         formulas.SharpeLikeRatio(ev, vol),
	}
}

// rank returns the top-M portfolios by descending score. Undefined (NaN)
// scores sort last; ties keep draw order so the ranking is deterministic.
func rank(portfolios []domain.Portfolio, topM int) []domain.Portfolio {
	ranked := make([]domain.Portfolio, len(portfolios))
	copy(ranked, portfolios)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].Score, ranked[j].Score
		if math.IsNaN(si) {
			return false
		}
		if math.IsNaN(sj) {
			return true
		}
		return si > sj
	})
	if topM > len(ranked) {
		topM = len(ranked)
	}
	return ranked[:topM]
}
