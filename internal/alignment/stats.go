package alignment

import (
	"github.com/rjboer/phasealign/internal/dsp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RunStats summarises one run's alignment trace. Angles are in degrees,
// frequencies in Hz.
type RunStats struct {
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
	TestFreq float64
	RunFreq  float64
}

// ComputeRunStats summarises an alignment trace. The mean is circular and
// the standard deviation is taken over deviations wrapped into (-180, 180],
// so a trace hovering around +/-180 degrees reports a small spread.
func ComputeRunStats(trace []float64, testFreq, runFreq float64) RunStats {
	rs := RunStats{TestFreq: testFreq, RunFreq: runFreq}
	if len(trace) == 0 {
		return rs
	}

	rad := make([]float64, len(trace))
	for i, v := range trace {
		rad[i] = dsp.Radians(v)
	}
	rs.Mean = dsp.NormalizeDegrees(dsp.Degrees(stat.CircularMean(rad, nil)))

	dev := make([]float64, len(trace))
	for i, v := range trace {
		dev[i] = dsp.NormalizeDegrees(v - rs.Mean)
	}
	_, rs.StdDev = stat.PopMeanStdDev(dev, nil)

	rs.Min = floats.Min(trace)
	rs.Max = floats.Max(trace)
	return rs
}

// MaxDrift returns the spread of mean phases across runs, in degrees. The
// span is taken over the raw values and over the values with negatives
// rotated by +360, and the smaller wins, so {179, -179} drifts by 2.
func MaxDrift(means []float64) float64 {
	if len(means) == 0 {
		return 0
	}
	raw := floats.Max(means) - floats.Min(means)

	rotated := make([]float64, len(means))
	for i, v := range means {
		if v < 0 {
			v += 360
		}
		rotated[i] = v
	}
	corr := floats.Max(rotated) - floats.Min(rotated)
	if corr < raw {
		return corr
	}
	return raw
}
