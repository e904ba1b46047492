package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// minSamples is the shortest buffer that still yields a three-finger window.
const minSamples = 3

// Spectrum is a windowed half spectrum, DC to Nyquist inclusive.
// Bin i corresponds to frequency i*fs/N.
type Spectrum struct {
	Bins []complex128
	// N is the length of the transformed time buffer.
	N int
}

// Len returns the number of retained bins.
func (s Spectrum) Len() int { return len(s.Bins) }

// BinWidth returns the bin spacing in Hz for the given sample rate.
func (s Spectrum) BinWidth(sampleRate float64) float64 {
	if s.N == 0 {
		return 0
	}
	return sampleRate / float64(s.N)
}

// Magnitude returns |X[i]| for every bin.
func (s Spectrum) Magnitude() []float64 {
	mag := make([]float64, len(s.Bins))
	for i, v := range s.Bins {
		mag[i] = cmplx.Abs(v)
	}
	return mag
}

// Clone returns a deep copy so corrections never write into the caller's bins.
func (s Spectrum) Clone() Spectrum {
	bins := make([]complex128, len(s.Bins))
	copy(bins, s.Bins)
	return Spectrum{Bins: bins, N: s.N}
}

// halfLength is the number of bins kept for an n-point transform: indices
// 0..(n+1)/2 inclusive, never more than the transform produced.
func halfLength(n int) int {
	l := (n+1)/2 + 1
	if l > n {
		l = n
	}
	return l
}

// halfSpectrum truncates full transform coefficients and applies the DC correction.
func halfSpectrum(coeffs []complex128) Spectrum {
	n := len(coeffs)
	bins := make([]complex128, halfLength(n))
	copy(bins, coeffs)
	bins[0] /= complex(math.Sqrt2, 0)
	return Spectrum{Bins: bins, N: n}
}

// RealSpectrum computes the windowed half spectrum of a real buffer.
// It builds a fresh window and FFT plan on every call; use CachedDSP when the
// same length is transformed repeatedly.
func RealSpectrum(samples []float64) (Spectrum, error) {
	if len(samples) < minSamples {
		return Spectrum{}, ErrInsufficientSamples
	}
	windowed := ApplyWindowReal(samples, HannWindow(len(samples)))
	coeffs := fourier.NewCmplxFFT(len(samples)).Coefficients(nil, windowed)
	return halfSpectrum(coeffs), nil
}

// ComplexSpectrum computes the windowed half spectrum of an I/Q buffer.
// Only DC..Nyquist is retained, matching the real-input convention.
func ComplexSpectrum(samples []complex128) (Spectrum, error) {
	if len(samples) < minSamples {
		return Spectrum{}, ErrInsufficientSamples
	}
	windowed := ApplyWindow(samples, HannWindow(len(samples)))
	coeffs := fourier.NewCmplxFFT(len(samples)).Coefficients(nil, windowed)
	return halfSpectrum(coeffs), nil
}
