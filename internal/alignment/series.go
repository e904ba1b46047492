package alignment

import (
	"fmt"
	"math"

	"github.com/rjboer/phasealign/internal/dsp"
)

// PhaseSeries splits samples into floor(N/segmentLen) contiguous segments,
// estimates the tone in each and returns the phases in segment order. The
// trailing N mod segmentLen samples are dropped.
func PhaseSeries(est *dsp.Estimator, samples []float64, sampleRate float64, segmentLen int, opts ...dsp.Option) ([]float64, error) {
	if segmentLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSegment, segmentLen)
	}
	if est == nil {
		est = dsp.NewEstimator(nil)
	}
	count := len(samples) / segmentLen
	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		seg := samples[i*segmentLen : (i+1)*segmentLen]
		tone, err := est.Estimate(seg, sampleRate, opts...)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		out = append(out, tone.Phase)
	}
	return out, nil
}

// PhaseSeriesComplex is PhaseSeries for I/Q buffers.
func PhaseSeriesComplex(est *dsp.Estimator, samples []complex128, sampleRate float64, segmentLen int, opts ...dsp.Option) ([]float64, error) {
	if segmentLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSegment, segmentLen)
	}
	if est == nil {
		est = dsp.NewEstimator(nil)
	}
	count := len(samples) / segmentLen
	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		seg := samples[i*segmentLen : (i+1)*segmentLen]
		tone, err := est.EstimateComplex(seg, sampleRate, opts...)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		out = append(out, tone.Phase)
	}
	return out, nil
}

// PhaseDifference returns |a_i - b_i| for equal-length series.
func PhaseDifference(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d phase values", ErrLengthMismatch, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = math.Abs(a[i] - b[i])
	}
	return out, nil
}
