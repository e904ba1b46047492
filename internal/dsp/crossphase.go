package dsp

import "math/cmplx"

// binRange clamps [start,end) to [0,n).
// If the resulting interval is empty, it returns (0,0).
func binRange(n, start, end int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > n {
		end = n
	}
	if start >= end {
		return 0, 0
	}
	return start, end
}

// CrossPhase correlates two spectra over bins [start,end) and returns the
// phase of b relative to a in degrees: arg( sum conj(A_k) * B_k ).
// Out-of-range bounds are clamped; an empty band yields 0.
func CrossPhase(a, b []complex128, start, end int) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	s, e := binRange(n, start, end)
	if s == e {
		return 0
	}

	var corr complex128
	for i := s; i < e; i++ {
		corr += cmplx.Conj(a[i]) * b[i]
	}
	return Degrees(cmplx.Phase(corr))
}

// ToneCrossPhase returns the phase of channel b relative to channel a at the
// dominant tone of a, correlating the three bins around the tone.
func (e *Estimator) ToneCrossPhase(a, b []complex128, sampleRate float64, opts ...Option) (float64, Tone, error) {
	specA, err := e.dsp.ComplexSpectrum(a)
	if err != nil {
		return 0, Tone{}, err
	}
	specB, err := e.dsp.ComplexSpectrum(b)
	if err != nil {
		return 0, Tone{}, err
	}
	tone, err := e.fromSpectrum(specA, sampleRate, opts...)
	if err != nil {
		return 0, Tone{}, err
	}
	k := int(tone.Index + 0.5)
	return CrossPhase(specA.Bins, specB.Bins, k-1, k+2), tone, nil
}
