package dsp

import "errors"

var (
	// ErrInsufficientSamples is returned when a buffer is too short to form a
	// three-finger window.
	ErrInsufficientSamples = errors.New("dsp: insufficient samples")
	// ErrSearchRangeTooNarrow reports that a bounded peak search covered fewer
	// than two bins. Estimation falls back to a full-spectrum search; the error
	// is only surfaced as a warning.
	ErrSearchRangeTooNarrow = errors.New("dsp: search range too narrow, using full spectrum")
)
