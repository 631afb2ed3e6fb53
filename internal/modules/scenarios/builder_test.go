package scenarios

import (
	"testing"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []domain.ScenarioCategory {
	return []domain.ScenarioCategory{
		{
			Name: "Rates",
			Outcomes: []domain.Outcome{
				{ID: "rates_up", Probability: 0.4},
				{ID: "rates_down", Probability: 0.6},
			},
		},
		{
			Name: "Growth",
			Outcomes: []domain.Outcome{
				{ID: "growth_high", Probability: 0.5},
				{ID: "growth_low", Probability: 0.5},
			},
		},
	}
}

func TestBuild_TwoCategories(t *testing.T) {
	builder := NewBuilder(1000, zerolog.Nop())

	paths, err := builder.Build(testCategories())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	// Paths are identified by the ordered tuple of selected outcomes.
	byKey := make(map[string]float64)
	for _, p := range paths {
		require.Len(t, p.OutcomeIDs, 2)
		byKey[p.OutcomeIDs[0]+"/"+p.OutcomeIDs[1]] = p.Probability
	}
	assert.InDelta(t, 0.20, byKey["rates_up/growth_high"], 1e-12)
	assert.InDelta(t, 0.20, byKey["rates_up/growth_low"], 1e-12)
	assert.InDelta(t, 0.30, byKey["rates_down/growth_high"], 1e-12)
	assert.InDelta(t, 0.30, byKey["rates_down/growth_low"], 1e-12)

	sum := 0.0
	for _, p := range paths {
		sum += p.Probability
	}
	assert.InDelta(t, 1.0, sum, domain.ProbabilityTolerance, "path probabilities must sum to 1")
}

func TestBuild_SingleCategory(t *testing.T) {
	builder := NewBuilder(1000, zerolog.Nop())

	paths, err := builder.Build(testCategories()[:1])
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"rates_up"}, paths[0].OutcomeIDs)
	assert.InDelta(t, 0.4, paths[0].Probability, 1e-12)
}

func TestBuild_ProbabilitySumInvariant(t *testing.T) {
	// Three categories with uneven outcome counts.
	categories := append(testCategories(), domain.ScenarioCategory{
		Name: "Inflation",
		Outcomes: []domain.Outcome{
			{ID: "infl_high", Probability: 0.2},
			{ID: "infl_mid", Probability: 0.3},
			{ID: "infl_low", Probability: 0.5},
		},
	})
	builder := NewBuilder(1000, zerolog.Nop())

	paths, err := builder.Build(categories)
	require.NoError(t, err)
	require.Len(t, paths, 12)

	sum := 0.0
	for _, p := range paths {
		sum += p.Probability
	}
	assert.InDelta(t, 1.0, sum, domain.ProbabilityTolerance)
}

func TestBuild_NoCategories(t *testing.T) {
	builder := NewBuilder(1000, zerolog.Nop())
	_, err := builder.Build(nil)
	assert.Error(t, err)
}

func TestBuild_EmptyCategoryIsFatal(t *testing.T) {
	categories := append(testCategories(), domain.ScenarioCategory{Name: "Broken"})
	builder := NewBuilder(1000, zerolog.Nop())

	_, err := builder.Build(categories)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no outcomes")
}

func TestBuild_InvalidProbabilitiesReportedBeforeEnumeration(t *testing.T) {
	categories := []domain.ScenarioCategory{
		{
			Name: "Rates",
			Outcomes: []domain.Outcome{
				{ID: "up", Probability: 0.4},
				{ID: "down", Probability: 0.4},
			},
		},
	}
	builder := NewBuilder(1000, zerolog.Nop())

	_, err := builder.Build(categories)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to")
}

func TestBuild_CeilingExceeded(t *testing.T) {
	builder := NewBuilder(3, zerolog.Nop())

	_, err := builder.Build(testCategories())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyPaths)
}
