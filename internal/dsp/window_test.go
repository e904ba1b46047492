package dsp

import (
	"math"
	"testing"
)

func TestHannWindow(t *testing.T) {
	win := HannWindow(5)
	scale := 4 / (5 * math.Sqrt2)
	expected := []float64{0, 0.5 * scale, scale, 0.5 * scale, 0}
	if len(win) != len(expected) {
		t.Fatalf("unexpected length: %d", len(win))
	}
	for i := range expected {
		if math.Abs(win[i]-expected[i]) > 1e-12 {
			t.Fatalf("index %d expected %.6f got %.6f", i, expected[i], win[i])
		}
	}
	if len(HannWindow(0)) != 0 {
		t.Fatalf("expected empty window for n=0")
	}
}

func TestHannWindowCoherentGain(t *testing.T) {
	// The scaled window sums to sqrt(2)*(n-1)/n, which puts a unit tone at
	// 1/sqrt(2) in the half spectrum.
	n := 1024
	sum := 0.0
	for _, v := range HannWindow(n) {
		sum += v
	}
	want := math.Sqrt2 * float64(n-1) / float64(n)
	if math.Abs(sum-want) > 1e-9 {
		t.Fatalf("window sum %.9f want %.9f", sum, want)
	}
}

func TestApplyWindow(t *testing.T) {
	samples := []complex128{1 + 1i, 2 + 0i}
	win := []float64{0.5, 0.25}
	out := ApplyWindow(samples, win)
	if len(out) != 2 {
		t.Fatalf("length mismatch")
	}
	if real(out[0]) != 0.5 || imag(out[0]) != 0.5 {
		t.Fatalf("unexpected first value %v", out[0])
	}
	if len(ApplyWindow(samples, []float64{1})) != 0 {
		t.Fatalf("expected empty slice when lengths differ")
	}
}

func TestApplyWindowReal(t *testing.T) {
	out := ApplyWindowReal([]float64{2, -4}, []float64{0.5, 0.25})
	if len(out) != 2 || out[0] != 1 || out[1] != -1 {
		t.Fatalf("unexpected output %v", out)
	}
	if len(ApplyWindowReal([]float64{1, 2}, []float64{1})) != 0 {
		t.Fatalf("expected empty slice when lengths differ")
	}
}
