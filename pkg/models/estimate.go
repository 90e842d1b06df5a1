package models

import "math"

// PertEstimate is a PERT three-point duration estimate: optimistic,
// most likely, and pessimistic times.
type PertEstimate struct {
	OptimisticMs  int64 `json:"optimistic_ms" yaml:"optimistic_ms"`
	MostLikelyMs  int64 `json:"most_likely_ms" yaml:"most_likely_ms"`
	PessimisticMs int64 `json:"pessimistic_ms" yaml:"pessimistic_ms"`
}

// NewPertEstimate creates a three-point estimate.
func NewPertEstimate(optimisticMs, mostLikelyMs, pessimisticMs int64) PertEstimate {
	return PertEstimate{
		OptimisticMs:  optimisticMs,
		MostLikelyMs:  mostLikelyMs,
		PessimisticMs: pessimisticMs,
	}
}

// ExpectedMs returns the PERT expected duration (O + 4M + P) / 6.
func (e PertEstimate) ExpectedMs() float64 {
	return float64(e.OptimisticMs+4*e.MostLikelyMs+e.PessimisticMs) / 6.0
}

// VarianceMs returns the PERT variance ((P - O) / 6)^2.
func (e PertEstimate) VarianceMs() float64 {
	d := float64(e.PessimisticMs-e.OptimisticMs) / 6.0
	return d * d
}

// StdDevMs returns the PERT standard deviation (P - O) / 6.
func (e PertEstimate) StdDevMs() float64 {
	return math.Sqrt(e.VarianceMs())
}
