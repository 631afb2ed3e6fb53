// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"math"
	"sort"
)

// ProbabilityTolerance is the allowed deviation when a set of probabilities
// must sum to 1 (outcome probabilities within a category, path probabilities
// across the full scenario tree).
const ProbabilityTolerance = 1e-6

// ValuationState classifies an instrument's current price relative to its own
// historical distribution. Supplied by an external classification service or a
// static table; the core only consumes the label.
type ValuationState string

const (
	ValuationRich    ValuationState = "rich"
	ValuationCheap   ValuationState = "cheap"
	ValuationPar     ValuationState = "par"
	ValuationUnknown ValuationState = "unknown"
)

// ValuationSource supplies the valuation state for an instrument.
// Instruments without a known state report ValuationUnknown.
type ValuationSource interface {
	State(instrument string) ValuationState
}

// Valuations is a static, table-sourced ValuationSource.
type Valuations map[string]ValuationState

// State implements ValuationSource.
func (v Valuations) State(instrument string) ValuationState {
	if s, ok := v[instrument]; ok && s != "" {
		return s
	}
	return ValuationUnknown
}

// Outcome is one mutually exclusive result within a scenario category.
// IDs must be unique across the whole dataset: the per-instrument impact
// table and the scenario paths both reference outcomes by ID.
type Outcome struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// ScenarioCategory is an independent axis of market uncertainty with
// mutually exclusive, exhaustive outcomes.
type ScenarioCategory struct {
	Name     string    `json:"name"`
	Outcomes []Outcome `json:"outcomes"`
}

// Validate checks the category invariants: at least one outcome, and outcome
// probabilities summing to 1 within ProbabilityTolerance. Violations are
// configuration errors and abort the run.
func (c ScenarioCategory) Validate() error {
	if len(c.Outcomes) == 0 {
		return fmt.Errorf("scenario category %q has no outcomes", c.Name)
	}
	sum := 0.0
	for _, o := range c.Outcomes {
		if o.Probability < 0 {
			return fmt.Errorf("scenario category %q: outcome %q has negative probability %f", c.Name, o.ID, o.Probability)
		}
		sum += o.Probability
	}
	if math.Abs(sum-1.0) > ProbabilityTolerance {
		return fmt.Errorf("scenario category %q: outcome probabilities sum to %f, expected 1", c.Name, sum)
	}
	return nil
}

// ScenarioPath is one selection of exactly one outcome per category.
// OutcomeIDs is ordered by category; Probability is the product of the
// selected outcomes' probabilities. Paths are immutable once built.
type ScenarioPath struct {
	OutcomeIDs  []string `json:"outcome_ids"`
	Probability float64  `json:"probability"`
}

// ImpactTable maps instrument → outcome ID → signed performance impact
// (percentage points).
type ImpactTable map[string]map[string]float64

// Impact returns the impact of an outcome on an instrument. The second
// return value reports whether the value is present; missing impact data is
// a per-instrument data error, never an implicit zero.
func (t ImpactTable) Impact(instrument, outcomeID string) (float64, bool) {
	row, ok := t[instrument]
	if !ok {
		return 0, false
	}
	v, ok := row[outcomeID]
	return v, ok
}

// Instruments returns the instrument universe in deterministic (sorted) order.
func (t ImpactTable) Instruments() []string {
	out := make([]string, 0, len(t))
	for name := range t {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SkippedInstrument records an instrument excluded from the run and why.
type SkippedInstrument struct {
	Instrument string `json:"instrument"`
	Reason     string `json:"reason"`
}

// Dataset is the full in-memory input for one analysis run.
type Dataset struct {
	Categories []ScenarioCategory `json:"categories"`
	Impacts    ImpactTable        `json:"impacts"`
	Valuations Valuations         `json:"valuations,omitempty"`
}

// Validate checks the dataset-level configuration invariants. Outcome IDs
// must be unique across categories because paths and the impact table
// reference them globally.
func (d *Dataset) Validate() error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("dataset has no scenario categories")
	}
	if len(d.Impacts) == 0 {
		return fmt.Errorf("dataset has no instruments")
	}
	seen := make(map[string]string)
	for _, cat := range d.Categories {
		if err := cat.Validate(); err != nil {
			return err
		}
		for _, o := range cat.Outcomes {
			if prev, dup := seen[o.ID]; dup {
				return fmt.Errorf("outcome ID %q appears in categories %q and %q", o.ID, prev, cat.Name)
			}
			seen[o.ID] = cat.Name
		}
	}
	return nil
}
