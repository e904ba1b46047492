package dsp

import "math"

// Sinc is the normalized sinc, sin(pi*x)/(pi*x), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// hannGain returns (1-r^2)/sinc(r), the ratio between a Hann main-lobe sample
// at offset r and the true peak. It is continuous at r = +/-1, where it tends to 2.
func hannGain(r float64) float64 {
	if math.Abs(math.Abs(r)-1) < 1e-12 {
		return 2
	}
	return (1 - r*r) / Sinc(r)
}

// Interpolate estimates the fractional bin index and amplitude of a tone from
// its three-finger window. The larger neighbour selects the side; the ratio of
// the centre magnitude to that neighbour gives the offset in closed form for a
// Hann-windowed tone. Equal neighbours return the centre bin unchanged.
func Interpolate(tf ThreeFinger) (index float64, amplitude float64) {
	left, mid, right := tf[0].Magnitude, tf[1].Magnitude, tf[2].Magnitude
	center := float64(tf[1].Index)

	if left == right {
		return center, mid
	}
	if mid == 0 {
		// Centre sits in a null next to a clamped edge; nothing to scale.
		return center, 0
	}

	var r float64
	if left > right {
		r0 := mid / left
		r = (r0 - 2) / (r0 + 1)
	} else {
		r0 := mid / right
		r = (2 - r0) / (r0 + 1)
	}
	return center + r, mid * hannGain(r)
}
