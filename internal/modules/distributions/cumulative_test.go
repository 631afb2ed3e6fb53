package distributions

import (
	"testing"

	"github.com/aristath/foresight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulative_MonotoneEndsAtOne(t *testing.T) {
	pmf := domain.Distribution{-2.0: 0.1, 0.0: 0.4, 1.5: 0.3, 3.0: 0.2}

	cdf := Cumulative(pmf)
	require.Len(t, cdf, 4)

	prev := 0.0
	for _, point := range cdf {
		assert.GreaterOrEqual(t, point.Cumulative, prev, "cumulative curve must be monotone non-decreasing")
		prev = point.Cumulative
	}
	assert.InDelta(t, 1.0, cdf[len(cdf)-1].Cumulative, 1e-9, "cumulative curve must end at 1")

	assert.Equal(t, -2.0, cdf[0].Impact)
	assert.InDelta(t, 0.1, cdf[0].Cumulative, 1e-12)
	assert.InDelta(t, 0.5, cdf[1].Cumulative, 1e-12)
}

func TestCumulative_Empty(t *testing.T) {
	assert.Empty(t, Cumulative(domain.Distribution{}))
}

func TestCumulativeAll(t *testing.T) {
	pmfs := map[string]domain.Distribution{
		"AAA": {1.0: 1.0},
		"BBB": {-1.0: 0.5, 1.0: 0.5},
	}
	cdfs := CumulativeAll(pmfs)
	require.Len(t, cdfs, 2)
	assert.Len(t, cdfs["AAA"], 1)
	assert.Len(t, cdfs["BBB"], 2)
}
