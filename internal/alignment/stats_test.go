package alignment

import (
	"math"
	"testing"
)

func TestMaxDrift(t *testing.T) {
	tests := []struct {
		name  string
		means []float64
		want  float64
	}{
		{name: "wraps", means: []float64{179, -179}, want: 2},
		{name: "constant", means: []float64{33.5, 33.5, 33.5}, want: 0},
		{name: "constant_negative", means: []float64{-120, -120}, want: 0},
		{name: "plain", means: []float64{1, 4, -2}, want: 6},
		{name: "straddle", means: []float64{170, -175, 178}, want: 15},
		{name: "empty", means: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxDrift(tt.means); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("MaxDrift(%v) = %v, want %v", tt.means, got, tt.want)
			}
		})
	}
}

func TestComputeRunStats(t *testing.T) {
	stats := ComputeRunStats([]float64{10, 12, 8, 10}, 1e9, 1.01e9)
	if math.Abs(stats.Mean-10) > 1e-9 {
		t.Fatalf("mean %v", stats.Mean)
	}
	if math.Abs(stats.StdDev-math.Sqrt(2)) > 1e-6 {
		t.Fatalf("stddev %v", stats.StdDev)
	}
	if stats.Min != 8 || stats.Max != 12 || stats.TestFreq != 1e9 || stats.RunFreq != 1.01e9 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestComputeRunStatsAroundWrap(t *testing.T) {
	stats := ComputeRunStats([]float64{179, -179, 179, -179}, 1, 1)
	if math.Abs(math.Abs(stats.Mean)-180) > 1e-9 {
		t.Fatalf("mean should sit on the wrap, got %v", stats.Mean)
	}
	if math.Abs(stats.StdDev-1) > 1e-6 {
		t.Fatalf("wrapped stddev should be 1, got %v", stats.StdDev)
	}
}

func TestComputeRunStatsEmpty(t *testing.T) {
	stats := ComputeRunStats(nil, 5, 6)
	if stats != (RunStats{TestFreq: 5, RunFreq: 6}) {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
