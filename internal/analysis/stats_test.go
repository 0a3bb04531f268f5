package analysis

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/synthlab/internal/parser"
)

func nums(xs ...float64) []parser.Cell {
	out := make([]parser.Cell, len(xs))
	for i, x := range xs {
		out[i] = parser.Number(x)
	}
	return out
}

func TestComputeStats_Basic(t *testing.T) {
	s, err := ComputeStats("a", nums(1, 3, 5), StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 3.0, s.Median)
	assert.InDelta(t, 1.633, s.StdDev, 1e-3)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Nil(t, s.MockMetrics)
}

func TestComputeStats_EvenMedianTakesUpperMiddle(t *testing.T) {
	s, err := ComputeStats("x", nums(4, 2, 1, 3), StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 2.5, s.Mean)
}

func TestComputeStats_SkipsNonNumeric(t *testing.T) {
	vals := []parser.Cell{
		parser.Number(30), parser.String("n/a"), parser.Null, parser.Bool(true),
		parser.String("25"), parser.Number(math.Inf(1)),
	}
	s, err := ComputeStats("age", vals, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 27.5, s.Mean)
	assert.Equal(t, 2.5, s.StdDev)
}

func TestComputeStats_Degenerate(t *testing.T) {
	s, err := ComputeStats("name", []parser.Cell{parser.String("Alice"), parser.String("Bob")}, StatsOptions{})
	require.NoError(t, err)
	assert.True(t, s.Degenerate())
	for _, f := range []float64{s.Mean, s.Median, s.StdDev, s.Min, s.Max} {
		assert.True(t, math.IsNaN(f))
	}

	s, err = ComputeStats("empty", nil, StatsOptions{})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(s.Mean))
}

func TestComputeStats_Strict(t *testing.T) {
	_, err := ComputeStats("name", []parser.Cell{parser.String("Alice")}, StatsOptions{Strict: true})
	var ide *InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, "name", ide.Column)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = ComputeStats("n", nums(1), StatsOptions{Strict: true})
	assert.NoError(t, err)
}

func TestComputeStats_ConstantColumn(t *testing.T) {
	s, err := ComputeStats("c", nums(0.1, 0.1, 0.1), StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.1, s.Mean)
}

func TestComputeStats_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.IntN(40)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = math.Round(rng.NormFloat64()*1000) / 10
		}
		s, err := ComputeStats("p", nums(xs...), StatsOptions{})
		require.NoError(t, err)

		assert.LessOrEqual(t, s.Min, s.Median)
		assert.LessOrEqual(t, s.Median, s.Max)
		assert.GreaterOrEqual(t, s.StdDev, 0.0)
		allSame := s.Min == s.Max
		assert.Equal(t, allSame, s.StdDev == 0, "values %v", xs)

		shuffled := append([]float64(nil), xs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		p, err := ComputeStats("p", nums(shuffled...), StatsOptions{})
		require.NoError(t, err)
		assert.InDelta(t, s.Mean, p.Mean, 1e-9)
		assert.Equal(t, s.Min, p.Min)
		assert.Equal(t, s.Max, p.Max)
	}
}

func TestComputeStats_MockMetricsAttached(t *testing.T) {
	m := NewUniformMetrics(rand.NewPCG(7, 7))
	s, err := ComputeStats("a", nums(1, 2), StatsOptions{Metrics: m})
	require.NoError(t, err)
	require.NotNil(t, s.MockMetrics)
	assert.Equal(t, 1.5, s.Mean)

	// Degenerate columns still carry simulated scores.
	s, err = ComputeStats("b", nil, StatsOptions{Metrics: m})
	require.NoError(t, err)
	assert.NotNil(t, s.MockMetrics)
}

func TestColumnStatsJSON(t *testing.T) {
	s, err := ComputeStats("a", nums(1, 3, 5), StatsOptions{})
	require.NoError(t, err)
	b, err := s.MarshalJSON()
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 3.0, got["mean"])
	assert.InDelta(t, math.Sqrt(8.0/3.0), got["stdDev"], 1e-12)
	assert.NotContains(t, got, "ksTest")

	deg, err := ComputeStats("x", nil, StatsOptions{})
	require.NoError(t, err)
	b, err = deg.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"mean":null,"median":null,"stdDev":null,"min":null,"max":null}`, string(b))
}
