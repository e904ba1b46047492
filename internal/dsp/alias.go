package dsp

import (
	"math"
	"math/cmplx"
)

// aliasBins is how many bins around the estimate are corrected per image.
const aliasBins = 4

// leakage models the Hann side-lobe of a tone image at bin distance x, using
// the sinc(x)/(x^2-1) form. The removable singularity at |x| = 1 is -1/2.
func leakage(x float64) float64 {
	if math.Abs(math.Abs(x)-1) < 1e-12 {
		return -0.5
	}
	return Sinc(x) / (x*x - 1)
}

// CorrectAliasing returns a copy of spec with the leakage of the estimated
// tone's images removed from the four bins floor(index)-1 .. floor(index)+2.
// The first pass removes the image reflected around DC, the second the image
// reflected around Nyquist (spec.N - index). spec itself is never modified.
func CorrectAliasing(spec Spectrum, index, amplitude float64) Spectrum {
	out := spec.Clone()
	if len(out.Bins) == 0 || math.IsNaN(index) || math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
		return out
	}

	base := int(math.Floor(index)) - 1
	fftSize := float64(spec.N)

	for n := 0; n < aliasBins; n++ {
		k := base + n
		if k < 0 || k >= len(out.Bins) {
			continue
		}
		r := amplitude * leakage(float64(k)+index)
		phi := -cmplx.Phase(out.Bins[k]) + math.Pi
		out.Bins[k] -= complex(r, 0) * cmplx.Exp(complex(0, phi))
	}

	for n := 0; n < aliasBins; n++ {
		k := base + n
		if k < 0 || k >= len(out.Bins) {
			continue
		}
		r := amplitude * leakage(float64(k)+index-fftSize)
		phi := -cmplx.Phase(out.Bins[k])
		out.Bins[k] -= complex(r, 0) * cmplx.Exp(complex(0, phi))
	}
	return out
}
