package analysis

import (
	"context"
	"testing"

	"github.com/aristath/foresight/internal/config"
	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:        "error",
		MaxPaths:        config.DefaultMaxPaths,
		Granularity:     config.DefaultGranularity,
		ValuationFactor: config.DefaultValuationFactor,
		Draws:           200,
		PortfolioSize:   2,
		TopM:            10,
		WeightDecimals:  config.DefaultWeightDecimals,
		Seed:            7,
		Workers:         2,
	}
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Categories: []domain.ScenarioCategory{
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
		},
		Impacts: domain.ImpactTable{
			"AAA": {"rates_up": 4.0, "rates_down": -2.0, "growth_high": 6.0, "growth_low": -4.0},
			"BBB": {"rates_up": -1.0, "rates_down": 2.0, "growth_high": 3.0, "growth_low": -2.0},
			"CCC": {"rates_up": 1.0, "rates_down": 1.5, "growth_high": 2.0, "growth_low": 0.5},
		},
		Valuations: domain.Valuations{
			"AAA": domain.ValuationRich,
			"BBB": domain.ValuationCheap,
			"CCC": domain.ValuationPar,
		},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	svc := New(testConfig(), zerolog.Nop())

	report, err := svc.Run(context.Background(), testDataset())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Categories)
	assert.Equal(t, 4, report.Paths)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, report.Instruments)
	assert.Empty(t, report.Skipped)

	require.Len(t, report.Distributions, 3)
	for _, table := range report.Distributions {
		total := 0.0
		for _, point := range table.Points {
			total += point.Probability
		}
		assert.InDelta(t, 1.0, total, 1e-9, "PMF of %s must sum to 1", table.Instrument)
	}

	require.Len(t, report.Cumulatives, 3)
	for _, table := range report.Cumulatives {
		require.NotEmpty(t, table.Points)
		last := table.Points[len(table.Points)-1]
		assert.InDelta(t, 1.0, last.Cumulative, 1e-9, "CDF of %s must end at 1", table.Instrument)
	}

	assert.NotEmpty(t, report.NonDominated)
	assert.Len(t, report.Portfolios, 200)
	assert.Len(t, report.Top, 10)
}

func TestRun_SkippedInstrumentReported(t *testing.T) {
	dataset := testDataset()
	delete(dataset.Impacts["BBB"], "growth_low")

	svc := New(testConfig(), zerolog.Nop())
	report, err := svc.Run(context.Background(), dataset)
	require.NoError(t, err, "a per-instrument data error must not abort the run")

	assert.Equal(t, []string{"AAA", "CCC"}, report.Instruments)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "BBB", report.Skipped[0].Instrument)
}

func TestRun_InvalidDatasetAborts(t *testing.T) {
	dataset := testDataset()
	dataset.Categories[0].Outcomes[0].Probability = 0.9 // sums to 1.5

	svc := New(testConfig(), zerolog.Nop())
	_, err := svc.Run(context.Background(), dataset)
	assert.Error(t, err)
}

func TestRun_PortfolioSizeLargerThanUniverse(t *testing.T) {
	cfg := testConfig()
	cfg.PortfolioSize = 5
	cfg.UseFullUniverse = true

	dataset := testDataset()
	dataset.Impacts = domain.ImpactTable{
		"AAA": dataset.Impacts["AAA"],
	}

	svc := New(cfg, zerolog.Nop())
	_, err := svc.Run(context.Background(), dataset)
	require.Error(t, err, "a single-instrument universe cannot fill a 5-instrument portfolio")
}

func TestRun_FullUniverseIncludesDominated(t *testing.T) {
	cfg := testConfig()
	cfg.UseFullUniverse = true

	svc := New(cfg, zerolog.Nop())
	report, err := svc.Run(context.Background(), testDataset())
	require.NoError(t, err)

	// With the full universe selected, portfolios may hold instruments that
	// the dominance filter would have discarded.
	assert.Len(t, report.Portfolios, 200)
}

func TestRun_Reproducible(t *testing.T) {
	svc := New(testConfig(), zerolog.Nop())

	first, err := svc.Run(context.Background(), testDataset())
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), testDataset())
	require.NoError(t, err)

	assert.Equal(t, first.Portfolios, second.Portfolios, "seeded runs must be reproducible")
	assert.Equal(t, first.NonDominated, second.NonDominated)
	assert.Equal(t, first.Distributions, second.Distributions)
}
