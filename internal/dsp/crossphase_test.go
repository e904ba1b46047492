package dsp

import (
	"math"
	"math/cmplx"
	"testing"
)

func tonePair(num int, freqOffset float64, sampleRate float64, phaseDelta float64) ([]complex128, []complex128) {
	rx0 := make([]complex128, num)
	rx1 := make([]complex128, num)
	step := 2 * math.Pi * freqOffset / sampleRate
	shift := phaseDelta * math.Pi / 180
	for i := 0; i < num; i++ {
		phase := step * float64(i)
		rx0[i] = cmplx.Exp(complex(0, phase))
		rx1[i] = cmplx.Exp(complex(0, phase+shift))
	}
	return rx0, rx1
}

func TestCrossPhase(t *testing.T) {
	tests := []struct {
		name       string
		a, b       []complex128
		start, end int
		expected   float64
	}{
		{name: "quadrature", a: []complex128{1, 1}, b: []complex128{1i, 1i}, start: 0, end: 2, expected: 90},
		{name: "neg_quadrature", a: []complex128{1i, 1i}, b: []complex128{1, 1}, start: 0, end: 2, expected: -90},
		{name: "clamped", a: []complex128{1, 1, 1}, b: []complex128{1, -1i, 1}, start: 1, end: 99, expected: -45},
		{name: "empty_band", a: []complex128{1}, b: []complex128{1i}, start: 3, end: 2, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase := CrossPhase(tt.a, tt.b, tt.start, tt.end)
			if math.Abs(phase-tt.expected) > 1e-9 {
				t.Fatalf("expected %f got %f", tt.expected, phase)
			}
		})
	}
}

func TestToneCrossPhase(t *testing.T) {
	rx0, rx1 := tonePair(1024, 200e3, 2e6, 30)
	est := NewEstimator(nil)
	delta, tone, err := est.ToneCrossPhase(rx0, rx1, 2e6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(delta-30) > 0.5 {
		t.Fatalf("expected phase delta near 30, got %.3f", delta)
	}
	if math.Abs(tone.Frequency-200e3) > 2e6/1024 {
		t.Fatalf("expected tone near 200 kHz, got %.1f", tone.Frequency)
	}
}
