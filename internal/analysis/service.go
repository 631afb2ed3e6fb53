// Package analysis wires the four pipeline stages together: scenario tree
// enumeration, impact linking, distribution aggregation with the dominance
// filter, and portfolio sampling. One Run consumes one in-memory dataset and
// produces one in-memory report.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/foresight/internal/config"
	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/internal/modules/distributions"
	"github.com/aristath/foresight/internal/modules/dominance"
	"github.com/aristath/foresight/internal/modules/impacts"
	"github.com/aristath/foresight/internal/modules/portfolios"
	"github.com/aristath/foresight/internal/modules/scenarios"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service runs the analysis pipeline.
type Service struct {
	cfg        *config.Config
	builder    *scenarios.Builder
	linker     *impacts.Linker
	aggregator *distributions.Aggregator
	filter     *dominance.Filter
	sampler    *portfolios.Sampler
	log        zerolog.Logger
}

// New wires a Service from configuration.
func New(cfg *config.Config, log zerolog.Logger) *Service {
	return &Service{
		cfg:        cfg,
		builder:    scenarios.NewBuilder(cfg.MaxPaths, log),
		linker:     impacts.NewLinker(cfg.Workers, log),
		aggregator: distributions.NewAggregator(cfg.Granularity, cfg.ValuationFactor, cfg.Workers, log),
		filter:     dominance.NewFilter(log),
		sampler: portfolios.NewSampler(portfolios.Config{
			Draws:          cfg.Draws,
			Size:           cfg.PortfolioSize,
			TopM:           cfg.TopM,
			WeightDecimals: cfg.WeightDecimals,
			Seed:           cfg.Seed,
			Workers:        cfg.Workers,
		}, log),
		log: log.With().Str("component", "analysis").Logger(),
	}
}

// Run executes one full analysis over the dataset. Configuration errors
// (invalid categories, path ceiling, universe smaller than the portfolio
// size) abort the run; missing impact data excludes only the affected
// instrument, which is listed in the report's skipped section.
func (s *Service) Run(ctx context.Context, dataset *domain.Dataset) (*Report, error) {
	runID := uuid.New().String()
	log := s.log.With().Str("run_id", runID).Logger()
	started := time.Now()

	if err := dataset.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	paths, err := s.builder.Build(dataset.Categories)
	if err != nil {
		return nil, fmt.Errorf("building scenario tree: %w", err)
	}

	linked, err := s.linker.Link(ctx, paths, dataset.Impacts)
	if err != nil {
		return nil, fmt.Errorf("linking impacts: %w", err)
	}
	if len(linked.Instruments) == 0 {
		return nil, fmt.Errorf("all %d instruments were skipped", len(linked.Skipped))
	}

	pmfs, err := s.aggregator.Aggregate(ctx, paths, linked.Impacts, dataset.Valuations)
	if err != nil {
		return nil, fmt.Errorf("aggregating distributions: %w", err)
	}

	// The dominance comparison needs every curve on the same level set; the
	// sampler scores each instrument on its own observed bins.
	cdfs := distributions.CumulativeAll(distributions.FillUnion(pmfs))
	survivors, err := s.filter.Apply(cdfs, linked.Instruments)
	if err != nil {
		return nil, fmt.Errorf("applying dominance filter: %w", err)
	}

	universe := survivors
	if s.cfg.UseFullUniverse {
		universe = linked.Instruments
	}
	ranking, err := s.sampler.Sample(ctx, universe, pmfs)
	if err != nil {
		return nil, fmt.Errorf("sampling portfolios: %w", err)
	}

	log.Info().
		Int("categories", len(dataset.Categories)).
		Int("paths", len(paths)).
		Int("instruments", len(linked.Instruments)).
		Int("skipped", len(linked.Skipped)).
		Int("non_dominated", len(survivors)).
		Int("portfolios", len(ranking.Portfolios)).
		Dur("elapsed", time.Since(started)).
		Msg("Analysis complete")

	return &Report{
		RunID:         runID,
		Categories:    len(dataset.Categories),
		Paths:         len(paths),
		Instruments:   linked.Instruments,
		Skipped:       linked.Skipped,
		Distributions: distributionTables(pmfs),
		Cumulatives:   cumulativeTables(cdfs),
		NonDominated:  survivors,
		Portfolios:    ranking.Portfolios,
		Top:           ranking.Top,
	}, nil
}
