package alignment

import (
	"errors"
	"math"
	"testing"

	"github.com/rjboer/phasealign/internal/dsp"
)

func sine(n int, sampleRate, freq, amp, phaseDeg float64) []float64 {
	out := make([]float64, n)
	phase := phaseDeg * math.Pi / 180
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate+phase)
	}
	return out
}

func TestPhaseSeriesSegmentsInOrder(t *testing.T) {
	const (
		rate   = 1000.0
		segLen = 300
	)
	phases := []float64{10, -60, 120}
	var samples []float64
	for _, p := range phases {
		samples = append(samples, sine(segLen, rate, 50, 1, p)...)
	}
	// Remainder that must be ignored.
	samples = append(samples, sine(100, rate, 50, 5, 90)...)

	series, err := PhaseSeries(dsp.NewEstimator(nil), samples, rate, segLen)
	if err != nil {
		t.Fatalf("phase series: %v", err)
	}
	if len(series) != len(samples)/segLen {
		t.Fatalf("expected %d phases, got %d", len(samples)/segLen, len(series))
	}
	for i, want := range phases {
		if d := math.Abs(dsp.NormalizeDegrees(series[i] - want)); d > 2 {
			t.Fatalf("segment %d: phase %.3f want %.3f", i, series[i], want)
		}
	}
}

func TestPhaseSeriesErrors(t *testing.T) {
	if _, err := PhaseSeries(nil, make([]float64, 10), 100, 0); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
	if _, err := PhaseSeries(nil, make([]float64, 10), 100, 2); !errors.Is(err, dsp.ErrInsufficientSamples) {
		t.Fatalf("expected ErrInsufficientSamples, got %v", err)
	}
	series, err := PhaseSeries(nil, make([]float64, 10), 100, 20)
	if err != nil || len(series) != 0 {
		t.Fatalf("short buffer should yield an empty series: %v %v", series, err)
	}
}

func TestPhaseSeriesComplex(t *testing.T) {
	const (
		rate   = 1e6
		segLen = 256
	)
	samples := make([]complex128, 4*segLen+17)
	step := 2 * math.Pi * 100e3 / rate
	for i := range samples {
		samples[i] = complex(math.Cos(step*float64(i)), math.Sin(step*float64(i)))
	}
	series, err := PhaseSeriesComplex(nil, samples, rate, segLen)
	if err != nil {
		t.Fatalf("phase series: %v", err)
	}
	if len(series) != 4 {
		t.Fatalf("expected 4 phases, got %d", len(series))
	}
}

func TestPhaseDifference(t *testing.T) {
	a := []float64{10, -20, 170, -170}
	b := []float64{15, 20, -170, -170}
	ab, err := PhaseDifference(a, b)
	if err != nil {
		t.Fatalf("phase difference: %v", err)
	}
	ba, err := PhaseDifference(b, a)
	if err != nil {
		t.Fatalf("phase difference: %v", err)
	}
	want := []float64{5, 40, 340, 0}
	for i := range want {
		if ab[i] < 0 || ab[i] != ba[i] || ab[i] != want[i] {
			t.Fatalf("index %d: ab=%v ba=%v want %v", i, ab[i], ba[i], want[i])
		}
	}

	if _, err := PhaseDifference([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}
