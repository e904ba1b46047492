package alignment

import "errors"

var (
	// ErrLengthMismatch is returned when two series or channels that must be
	// paired sample-for-sample differ in length.
	ErrLengthMismatch = errors.New("alignment: length mismatch")
	// ErrMissingBandStatistic marks a band whose runs carry no test
	// frequency. CheckResults logs it and substitutes 0.
	ErrMissingBandStatistic = errors.New("alignment: missing band statistic")
	// ErrWindowMismatch is returned when an averaging window does not evenly
	// divide an alignment trace.
	ErrWindowMismatch = errors.New("alignment: window does not divide trace")
	// ErrInvalidSegment is returned for a non-positive segment length.
	ErrInvalidSegment = errors.New("alignment: segment length must be positive")
	// ErrUnknownChannel is returned when the base channel is absent.
	ErrUnknownChannel = errors.New("alignment: unknown channel")
)
