// Package scenarios builds the joint scenario tree: the Cartesian product of
// all scenario categories' outcomes, with multiplied probabilities.
package scenarios

import (
	"errors"
	"fmt"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
)

// ErrTooManyPaths is returned when the Cartesian product would exceed the
// configured ceiling. The builder fails fast rather than truncating.
var ErrTooManyPaths = errors.New("scenario path count exceeds ceiling")

// Builder enumerates scenario paths.
type Builder struct {
	maxPaths int
	log      zerolog.Logger
}

// NewBuilder creates a path builder with the given path-count ceiling.
func NewBuilder(maxPaths int, log zerolog.Logger) *Builder {
	return &Builder{
		maxPaths: maxPaths,
		log:      log.With().Str("component", "scenario_builder").Logger(),
	}
}

// Build enumerates every joint outcome path across the given categories.
// Each path selects exactly one outcome per category, identified by the
// ordered tuple of outcome IDs; its probability is the product of the
// selected outcomes' probabilities.
//
// All validation runs before any enumeration: empty categories and outcome
// probabilities not summing to 1 are configuration errors, as is a projected
// path count above the ceiling. The sum of all returned path probabilities
// is 1 within domain.ProbabilityTolerance.
func (b *Builder) Build(categories []domain.ScenarioCategory) ([]domain.ScenarioPath, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no scenario categories provided")
	}

	total := 1
	for _, cat := range categories {
		if err := cat.Validate(); err != nil {
			return nil, err
		}
		// Overflow-safe ceiling check: divide instead of multiply.
		if len(cat.Outcomes) > 0 && total > b.maxPaths/len(cat.Outcomes) {
			return nil, fmt.Errorf("%w: %d categories would produce more than %d paths", ErrTooManyPaths, len(categories), b.maxPaths)
		}
		total *= len(cat.Outcomes)
	}

	// Explicit fold: each step produces a fresh path set, never mutating the
	// previous one. Start from the unit path (empty tuple, probability 1).
	paths := []domain.ScenarioPath{{Probability: 1}}
	for _, cat := range categories {
		next := make([]domain.ScenarioPath, 0, len(paths)*len(cat.Outcomes))
		for _, path := range paths {
			for _, outcome := range cat.Outcomes {
				ids := make([]string, len(path.OutcomeIDs), len(path.OutcomeIDs)+1)
				copy(ids, path.OutcomeIDs)
				next = append(next, domain.ScenarioPath{
					OutcomeIDs:  append(ids, outcome.ID),
					Probability: path.Probability * outcome.Probability,
				})
			}
		}
		paths = next
	}

	b.log.Debug().
		Int("categories", len(categories)).
		Int("paths", len(paths)).
		Msg("Scenario tree built")

	return paths, nil
}
