package analysis

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// MockMetrics are placeholder quality scores kept for output compatibility
// with the dashboard. They are random draws, not computed from data, and
// carry no statistical meaning.
type MockMetrics struct {
	KSTest           float64 `json:"ksTest"`
	ADTest           float64 `json:"adTest"`
	ChiSquare        float64 `json:"chiSquare"`
	StatSimilarity   float64 `json:"statSimilarity"`
	PrivacyScore     float64 `json:"privacyScore"`
	CorrelationScore float64 `json:"correlationScore"`
	MLUtility        float64 `json:"mlUtility"`
	DataDiversity    float64 `json:"dataDiversity"`
	OutlierScore     float64 `json:"outlierScore"`
}

// MetricsProvider produces one set of simulated scores per column.
type MetricsProvider interface {
	Metrics() MockMetrics
}

const (
	mockMetricMin = 0.85
	mockMetricMax = 0.95
)

// UniformMetrics draws every score independently from U[0.85, 0.95).
// Output is non-deterministic unless a seeded source is supplied.
type UniformMetrics struct {
	mu   sync.Mutex
	dist distuv.Uniform
}

// NewUniformMetrics returns a provider backed by src; nil uses the global source.
func NewUniformMetrics(src rand.Source) *UniformMetrics {
	return &UniformMetrics{dist: distuv.Uniform{Min: mockMetricMin, Max: mockMetricMax, Src: src}}
}

func (u *UniformMetrics) Metrics() MockMetrics {
	u.mu.Lock()
	defer u.mu.Unlock()
	return MockMetrics{
		KSTest:           u.dist.Rand(),
		ADTest:           u.dist.Rand(),
		ChiSquare:        u.dist.Rand(),
		StatSimilarity:   u.dist.Rand(),
		PrivacyScore:     u.dist.Rand(),
		CorrelationScore: u.dist.Rand(),
		MLUtility:        u.dist.Rand(),
		DataDiversity:    u.dist.Rand(),
		OutlierScore:     u.dist.Rand(),
	}
}
