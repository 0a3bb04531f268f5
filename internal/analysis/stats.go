package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/synthlab/internal/parser"
)

// ColumnStats holds descriptive statistics over the numeric values of one
// column. On a degenerate column (Count == 0) every float field is NaN.
type ColumnStats struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64 // population
	Min    float64
	Max    float64

	// Simulated scores; nil unless a MetricsProvider is configured.
	*MockMetrics
}

// Degenerate reports whether the column had no numeric values.
func (s ColumnStats) Degenerate() bool { return s.Count == 0 }

// MarshalJSON writes NaN fields as null so degenerate columns stay encodable.
func (s ColumnStats) MarshalJSON() ([]byte, error) {
	type wire struct {
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
		StdDev *float64 `json:"stdDev"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
		*MockMetrics
	}
	return json.Marshal(wire{
		Count:       s.Count,
		Mean:        finite(s.Mean),
		Median:      finite(s.Median),
		StdDev:      finite(s.StdDev),
		Min:         finite(s.Min),
		Max:         finite(s.Max),
		MockMetrics: s.MockMetrics,
	})
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// StatsOptions controls ComputeStats.
type StatsOptions struct {
	// Strict makes a column with no numeric values an error instead of NaN stats.
	Strict bool
	// Metrics, when set, attaches simulated scores to every result.
	Metrics MetricsProvider
}

// Numeric projects cells onto their finite numeric values, preserving order.
func Numeric(values []parser.Cell) []float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float64(); ok {
			xs = append(xs, f)
		}
	}
	return xs
}

// ComputeStats reduces one column to its statistics. The median is the element
// at index n/2 of the sorted values, so for even n it is the upper of the two
// middle values rather than their average.
func ComputeStats(column string, values []parser.Cell, opt StatsOptions) (ColumnStats, error) {
	xs := Numeric(values)
	if len(xs) == 0 && opt.Strict {
		return ColumnStats{}, &InsufficientDataError{Column: column}
	}
	s := ColumnStats{Count: len(xs)}
	if opt.Metrics != nil {
		m := opt.Metrics.Metrics()
		s.MockMetrics = &m
	}
	if len(xs) == 0 {
		nan := math.NaN()
		s.Mean, s.Median, s.StdDev, s.Min, s.Max = nan, nan, nan, nan, nan
		return s, nil
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = sorted[len(sorted)/2]

	// Constant column: exact mean, zero spread, no rounding residue.
	if s.Min == s.Max {
		s.Mean = s.Min
		s.StdDev = 0
		return s, nil
	}
	mean, err := stats.Mean(xs)
	if err != nil {
		return ColumnStats{}, fmt.Errorf("column %q: mean: %w", column, err)
	}
	sd, err := stats.StandardDeviationPopulation(xs)
	if err != nil {
		return ColumnStats{}, fmt.Errorf("column %q: std dev: %w", column, err)
	}
	s.Mean = mean
	s.StdDev = sd
	return s, nil
}
