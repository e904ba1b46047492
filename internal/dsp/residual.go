package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Residual subtracts the resynthesized tone from samples and returns the
// remainder together with rms(residual)/rms(samples). An all-zero input
// yields a ratio of 0.
func Residual(samples []float64, t Tone, sampleRate float64) ([]float64, float64) {
	if len(samples) == 0 {
		return []float64{}, 0
	}
	residual := make([]float64, len(samples))
	floats.SubTo(residual, samples, t.Synthesize(len(samples), sampleRate))

	ref := rms(samples)
	if ref == 0 {
		return residual, 0
	}
	return residual, rms(residual) / ref
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}
