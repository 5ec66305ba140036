// Package gate decides whether retrieved context is close enough to a
// query to ground an answer. When the gate says no, the orchestrator
// substitutes a fixed refusal instead of calling the model.
package gate

import (
	"fmt"

	"github.com/parchmentlabs/lectern/pkg/retrieve"
)

// Metric names the polarity of the score a vector store returns.
type Metric string

const (
	// MetricDistance means smaller is closer; passes when the closest
	// match's distance is at or below the threshold.
	MetricDistance Metric = "distance"

	// MetricSimilarity means larger is more similar; passes when the
	// closest match's score is at or above the threshold.
	MetricSimilarity Metric = "similarity"
)

// DefaultThreshold is the default cutoff in cosine-distance units.
const DefaultThreshold = 0.45

// Gate applies a relevance threshold to retrieval results.
type Gate struct {
	metric    Metric
	threshold float64
}

// New creates a gate for the given metric and threshold.
func New(metric Metric, threshold float64) (*Gate, error) {
	switch metric {
	case MetricDistance, MetricSimilarity:
	default:
		return nil, fmt.Errorf("unknown gate metric: %q", metric)
	}

	return &Gate{
		metric:    metric,
		threshold: threshold,
	}, nil
}

// ShouldAnswer reports whether the closest match is relevant enough to
// ground an answer. An empty result never passes.
func (g *Gate) ShouldAnswer(result *retrieve.Result) bool {
	closest, ok := result.Closest()
	if !ok {
		return false
	}

	if g.metric == MetricSimilarity {
		return float64(closest.Distance) >= g.threshold
	}

	return float64(closest.Distance) <= g.threshold
}

// Threshold reports the configured cutoff.
func (g *Gate) Threshold() float64 {
	return g.threshold
}

// Metric reports the configured polarity.
func (g *Gate) Metric() Metric {
	return g.metric
}
