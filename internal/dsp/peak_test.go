package dsp

import (
	"errors"
	"testing"
)

func TestBoundedRange(t *testing.T) {
	tests := []struct {
		name     string
		numBins  int
		fftSize  int
		rate     float64
		freq     float64
		tol      float64
		expected SearchRange
		narrow   bool
	}{
		{name: "ten_percent", numBins: 501, fftSize: 1000, rate: 1000, freq: 100, tol: 10, expected: SearchRange{90, 111}},
		{name: "fine_resolution", numBins: 513, fftSize: 1024, rate: 2048, freq: 200, tol: 5, expected: SearchRange{95, 106}},
		{name: "lower_clamp", numBins: 501, fftSize: 1000, rate: 1000, freq: 2, tol: 100, expected: SearchRange{1, 5}},
		{name: "upper_clamp", numBins: 11, fftSize: 20, rate: 20, freq: 10, tol: 20, expected: SearchRange{8, 10}},
		{name: "zero_tolerance", numBins: 501, fftSize: 1000, rate: 1000, freq: 10, tol: 0, expected: FullRange(501), narrow: true},
		{name: "below_first_bin", numBins: 501, fftSize: 1000, rate: 1000, freq: 0.5, tol: 10, expected: FullRange(501), narrow: true},
		{name: "bad_rate", numBins: 501, fftSize: 1000, rate: 0, freq: 10, tol: 10, expected: FullRange(501), narrow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := BoundedRange(tt.numBins, tt.fftSize, tt.rate, tt.freq, tt.tol)
			if tt.narrow != errors.Is(err, ErrSearchRangeTooNarrow) {
				t.Fatalf("narrow=%v but err=%v", tt.narrow, err)
			}
			if r != tt.expected {
				t.Fatalf("expected %+v got %+v", tt.expected, r)
			}
		})
	}
}

func TestFindPeak(t *testing.T) {
	mag := []float64{9, 1, 3, 7, 2, 7, 0}
	if got := FindPeak(mag, FullRange(len(mag))); got != 0 {
		t.Fatalf("full search: expected 0 got %d", got)
	}
	if got := FindPeak(mag, SearchRange{1, 6}); got != 3 {
		t.Fatalf("bounded search: expected first maximum at 3 got %d", got)
	}
	if got := FindPeak(mag, SearchRange{4, 100}); got != 5 {
		t.Fatalf("clamped search: expected 5 got %d", got)
	}
	if got := FindPeak(nil, FullRange(0)); got != 0 {
		t.Fatalf("empty spectrum: expected 0 got %d", got)
	}
}

func TestNewThreeFinger(t *testing.T) {
	mag := []float64{5, 4, 3, 2, 1}
	tests := []struct {
		peak   int
		center int
	}{
		{peak: 0, center: 1},
		{peak: 2, center: 2},
		{peak: 4, center: 3},
	}
	for _, tt := range tests {
		tf, err := NewThreeFinger(mag, tt.peak)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tf.Peak().Index != tt.center {
			t.Fatalf("peak %d: expected centre %d got %d", tt.peak, tt.center, tf.Peak().Index)
		}
		for i, f := range tf {
			if f.Index != tt.center-1+i || f.Magnitude != mag[f.Index] {
				t.Fatalf("finger %d malformed: %+v", i, f)
			}
		}
	}
	if _, err := NewThreeFinger([]float64{1, 2}, 1); !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("expected ErrInsufficientSamples, got %v", err)
	}
}
