// Package impacts links instruments to scenario paths: for every instrument
// and every path it sums the instrument's per-outcome impacts across the
// outcomes composing the path.
package impacts

import (
	"context"
	"fmt"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result holds one net impact per (instrument, path). Impacts rows are
// aligned index-for-index with Paths, whose probabilities are carried
// through unchanged. Instruments with missing impact data are absent from
// Impacts and listed in Skipped instead.
type Result struct {
	Paths       []domain.ScenarioPath
	Impacts     map[string][]float64
	Instruments []string // instruments present in Impacts, sorted
	Skipped     []domain.SkippedInstrument
}

// Linker computes per-instrument path impacts.
type Linker struct {
	workers int
	log     zerolog.Logger
}

// NewLinker creates a linker that fans out across at most workers goroutines.
func NewLinker(workers int, log zerolog.Logger) *Linker {
	if workers < 1 {
		workers = 1
	}
	return &Linker{
		workers: workers,
		log:     log.With().Str("component", "impact_linker").Logger(),
	}
}

// Link computes the net impact of every path on every instrument in the
// table. A missing (instrument, outcome) impact is a data error for that
// instrument only: defaulting it to zero would misstate the distribution, so
// the instrument is excluded and reported, and the run continues for the
// rest.
//
// Instruments are processed concurrently; paths are shared read-only and
// every instrument writes to its own pre-allocated slot.
func (l *Linker) Link(ctx context.Context, paths []domain.ScenarioPath, table domain.ImpactTable) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario paths provided")
	}

	instruments := table.Instruments()
	rows := make([][]float64, len(instruments))
	skips := make([]*domain.SkippedInstrument, len(instruments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, instrument := range instruments {
		i, instrument := i, instrument
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, missing := l.linkInstrument(paths, table, instrument)
			if missing != "" {
				skips[i] = &domain.SkippedInstrument{
					Instrument: instrument,
					Reason:     fmt.Sprintf("missing impact value for outcome %q", missing),
				}
				return nil
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Paths:   paths,
		Impacts: make(map[string][]float64, len(instruments)),
	}
	for i, instrument := range instruments {
		if skips[i] != nil {
			result.Skipped = append(result.Skipped, *skips[i])
			l.log.Warn().
				Str("instrument", instrument).
				Str("reason", skips[i].Reason).
				Msg("Instrument skipped")
			continue
		}
		result.Impacts[instrument] = rows[i]
		result.Instruments = append(result.Instruments, instrument)
	}

	l.log.Debug().
		Int("instruments", len(result.Instruments)).
		Int("skipped", len(result.Skipped)).
		Int("paths", len(paths)).
		Msg("Impacts linked")

	return result, nil
}

// linkInstrument sums the instrument's impact across each path's outcomes.
// Returns the ID of the first missing outcome, if any.
func (l *Linker) linkInstrument(paths []domain.ScenarioPath, table domain.ImpactTable, instrument string) ([]float64, string) {
	row := make([]float64, len(paths))
	for p, path := range paths {
		total := 0.0
		for _, outcomeID := range path.OutcomeIDs {
			impact, ok := table.Impact(instrument, outcomeID)
			if !ok {
				return nil, outcomeID
			}
			total += impact
		}
		row[p] = total
	}
	return row, ""
}
