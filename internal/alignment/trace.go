package alignment

import (
	"fmt"
	"math/cmplx"
	"sort"

	"github.com/rjboer/phasealign/internal/dsp"
	"gonum.org/v1/gonum/stat"
)

// ChannelAlignment returns, per sample, the angle of conj(a)*b in degrees.
func ChannelAlignment(a, b []complex128) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d samples", ErrLengthMismatch, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = dsp.Degrees(cmplx.Phase(cmplx.Conj(a[i]) * b[i]))
	}
	return out, nil
}

// AlignAll computes the alignment trace of every channel against base. The
// base channel itself is omitted from the result.
func AlignAll(channels map[string][]complex128, base string) (map[string][]float64, error) {
	ref, ok := channels[base]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, base)
	}
	names := make([]string, 0, len(channels))
	for name := range channels {
		if name != base {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make(map[string][]float64, len(names))
	for _, name := range names {
		trace, err := ChannelAlignment(ref, channels[name])
		if err != nil {
			return nil, fmt.Errorf("%s to %s: %w", base, name, err)
		}
		out[name] = trace
	}
	return out, nil
}

// AverageAlignment averages consecutive, non-overlapping windows of
// pointsPerWindow trace values.
func AverageAlignment(trace []float64, pointsPerWindow int) ([]float64, error) {
	if pointsPerWindow <= 0 {
		return nil, fmt.Errorf("%w: %d points per window", ErrWindowMismatch, pointsPerWindow)
	}
	if len(trace)%pointsPerWindow != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d points per window (%d left over)",
			ErrWindowMismatch, len(trace), pointsPerWindow, len(trace)%pointsPerWindow)
	}
	out := make([]float64, len(trace)/pointsPerWindow)
	for i := range out {
		out[i] = stat.Mean(trace[i*pointsPerWindow:(i+1)*pointsPerWindow], nil)
	}
	return out, nil
}

// PointsPerWindow returns the number of samples in two periods of
// signalFreq at sampleRate, truncated. Non-positive inputs give 0.
func PointsPerWindow(signalFreq, sampleRate float64) int {
	if signalFreq <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(sampleRate * 2 / signalFreq)
}
