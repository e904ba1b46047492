package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/window"
)

// HannWindow returns the analysis window used by the tone estimator: a
// symmetric Hann window of length n scaled by 4/(n*sqrt(2)). With this scale a
// sinusoid of amplitude A peaks at A/sqrt(2) in the half spectrum.
// If n is zero or negative, an empty slice is returned.
func HannWindow(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	win := window.Hann(n)
	scale := 4 / (float64(n) * math.Sqrt2)
	for i := range win {
		win[i] *= scale
	}
	return win
}

// ApplyWindow multiplies the input complex samples with the provided window.
// The window length must match the input length.
func ApplyWindow(samples []complex128, win []float64) []complex128 {
	if len(samples) != len(win) {
		return []complex128{}
	}
	out := make([]complex128, len(samples))
	for i, v := range samples {
		out[i] = complex(real(v)*win[i], imag(v)*win[i])
	}
	return out
}

// ApplyWindowReal windows real samples into a complex buffer ready for the
// transform. The window length must match the input length.
func ApplyWindowReal(samples []float64, win []float64) []complex128 {
	if len(samples) != len(win) {
		return []complex128{}
	}
	out := make([]complex128, len(samples))
	for i, v := range samples {
		out[i] = complex(v*win[i], 0)
	}
	return out
}
