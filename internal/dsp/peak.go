package dsp

import (
	"fmt"
	"math"
)

// SearchRange is a half-open bin interval [Start, End).
type SearchRange struct {
	Start int
	End   int
}

// FullRange covers every bin of an n-bin spectrum.
func FullRange(n int) SearchRange { return SearchRange{Start: 0, End: n} }

// Width returns the number of bins covered.
func (r SearchRange) Width() int { return r.End - r.Start }

// clamp restricts r to [0,n). An empty result collapses to the full range.
func (r SearchRange) clamp(n int) SearchRange {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End <= 0 || r.End > n {
		r.End = n
	}
	if r.Start >= r.End {
		return FullRange(n)
	}
	return r
}

// BoundedRange converts an expected tone frequency and a percent tolerance into
// the bin range [f0/df - tol, f0/df + tol], where df = sampleRate/fftSize and
// tol is tolerancePct percent of f0 expressed in bins. The lower bound never
// drops below bin 1 and the upper bound keeps one neighbour inside the
// spectrum. ErrSearchRangeTooNarrow is returned when fewer than two bins remain.
func BoundedRange(numBins, fftSize int, sampleRate, freqHz, tolerancePct float64) (SearchRange, error) {
	if numBins < minSamples || fftSize <= 0 || sampleRate <= 0 || math.IsNaN(freqHz) || math.IsNaN(tolerancePct) {
		return FullRange(numBins), ErrSearchRangeTooNarrow
	}
	df := sampleRate / float64(fftSize)
	center := freqHz / df
	tol := math.Abs(tolerancePct * 0.01 * freqHz / df)

	lo := math.Floor(center - tol)
	hi := math.Floor(center+tol) + 1
	if lo < 1 {
		lo = 1
	}
	if hi > float64(numBins-1) {
		hi = float64(numBins - 1)
	}
	if hi-lo < 2 {
		return FullRange(numBins), fmt.Errorf("%w: %.1f Hz +/- %.1f%% covers bins [%.0f,%.0f)", ErrSearchRangeTooNarrow, freqHz, tolerancePct, lo, hi)
	}
	return SearchRange{Start: int(lo), End: int(hi)}, nil
}

// FindPeak returns the index of the largest magnitude within r.
// Ties resolve to the lowest index. An empty spectrum yields 0.
func FindPeak(mag []float64, r SearchRange) int {
	if len(mag) == 0 {
		return 0
	}
	r = r.clamp(len(mag))
	best := r.Start
	peak := math.Inf(-1)
	for i := r.Start; i < r.End; i++ {
		if mag[i] > peak {
			peak = mag[i]
			best = i
		}
	}
	return best
}

// Finger is one (bin, magnitude) sample of a three-finger window.
type Finger struct {
	Index     int
	Magnitude float64
}

// ThreeFinger holds the peak bin and its immediate neighbours, in bin order.
type ThreeFinger [3]Finger

// Peak returns the centre finger.
func (t ThreeFinger) Peak() Finger { return t[1] }

// NewThreeFinger builds the window around peak. A peak on the first or last
// bin has no outer neighbour, so the centre is moved inward by one bin.
func NewThreeFinger(mag []float64, peak int) (ThreeFinger, error) {
	if len(mag) < minSamples {
		return ThreeFinger{}, ErrInsufficientSamples
	}
	if peak < 1 {
		peak = 1
	}
	if peak > len(mag)-2 {
		peak = len(mag) - 2
	}
	var tf ThreeFinger
	for i := -1; i <= 1; i++ {
		tf[i+1] = Finger{Index: peak + i, Magnitude: mag[peak+i]}
	}
	return tf, nil
}
