package analysis

import (
	"sort"

	"github.com/aristath/foresight/internal/domain"
)

// DistributionTable is one instrument's PMF in renderable form.
type DistributionTable struct {
	Instrument string                     `json:"instrument"`
	Points     []domain.DistributionPoint `json:"points"`
}

// CumulativeTable is one instrument's cumulative distribution in renderable
// form, over the shared (union) impact level set.
type CumulativeTable struct {
	Instrument string                        `json:"instrument"`
	Points     domain.CumulativeDistribution `json:"points"`
}

// Report is the full output of one analysis run: every table the core hands
// to renderers or exporters, plus run metadata.
type Report struct {
	RunID       string                     `json:"run_id"`
	Categories  int                        `json:"categories"`
	Paths       int                        `json:"paths"`
	Instruments []string                   `json:"instruments"`
	Skipped     []domain.SkippedInstrument `json:"skipped,omitempty"`

	Distributions []DistributionTable `json:"distributions"`
	Cumulatives   []CumulativeTable   `json:"cumulatives"`
	NonDominated  []string            `json:"non_dominated"`

	Portfolios []domain.Portfolio `json:"portfolios"`
	Top        []domain.Portfolio `json:"top"`
}

func distributionTables(pmfs map[string]domain.Distribution) []DistributionTable {
	tables := make([]DistributionTable, 0, len(pmfs))
	for instrument, pmf := range pmfs {
		tables = append(tables, DistributionTable{Instrument: instrument, Points: pmf.Points()})
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Instrument < tables[j].Instrument })
	return tables
}

func cumulativeTables(cdfs map[string]domain.CumulativeDistribution) []CumulativeTable {
	tables := make([]CumulativeTable, 0, len(cdfs))
	for instrument, cdf := range cdfs {
		tables = append(tables, CumulativeTable{Instrument: instrument, Points: cdf})
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Instrument < tables[j].Instrument })
	return tables
}
