package dsp

import "math"

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// NormalizeDegrees wraps an angle into (-180, 180]. NaN is returned unchanged.
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * radToDeg }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * degToRad }
