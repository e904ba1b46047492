package iqfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnknownFormat is returned for an unsupported sample format name.
	ErrUnknownFormat = errors.New("iqfile: unknown sample format")
	// ErrTruncated is returned when a buffer does not hold a whole number of
	// I/Q pairs.
	ErrTruncated = errors.New("iqfile: truncated sample data")
)

// Format is the on-disk encoding of one I or Q value.
type Format int

const (
	Int16 Format = iota
	Float32
)

func (f Format) String() string {
	switch f {
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int16", "sc16", "":
		return Int16, nil
	case "float32", "fc32":
		return Float32, nil
	default:
		return Format(0), fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FrameSize is the number of bytes of one interleaved I/Q pair.
func (f Format) FrameSize() int {
	switch f {
	case Float32:
		return 8
	default:
		return 4
	}
}

// Options controls decoding.
type Options struct {
	Format Format
	// Offset is the number of leading I/Q pairs to skip.
	Offset int
	// SwapIQ treats the first value of each pair as Q.
	SwapIQ bool
}

// Decode converts little-endian interleaved I/Q data into complex samples.
// Int16 values are normalized by MaxInt16. An offset past the end yields an
// empty slice.
func Decode(buf []byte, opts Options) ([]complex128, error) {
	frame := opts.Format.FrameSize()
	if opts.Format != Int16 && opts.Format != Float32 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, opts.Format)
	}
	if len(buf)%frame != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTruncated, len(buf), frame)
	}

	count := len(buf) / frame
	skip := opts.Offset
	if skip < 0 {
		skip = 0
	}
	if skip >= count {
		return []complex128{}, nil
	}

	out := make([]complex128, count-skip)
	half := frame / 2
	for n := range out {
		off := (n + skip) * frame
		a := decodeValue(buf[off:off+half], opts.Format)
		b := decodeValue(buf[off+half:off+frame], opts.Format)
		if opts.SwapIQ {
			a, b = b, a
		}
		out[n] = complex(a, b)
	}
	return out, nil
}

func decodeValue(b []byte, f Format) float64 {
	if f == Float32 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return float64(int16(binary.LittleEndian.Uint16(b))) / math.MaxInt16
}

// Encode writes samples as little-endian interleaved I/Q. Int16 output is
// clipped to [-1, 1] before scaling.
func Encode(samples []complex128, f Format) ([]byte, error) {
	if f != Int16 && f != Float32 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	frame := f.FrameSize()
	half := frame / 2
	buf := make([]byte, len(samples)*frame)
	for n, s := range samples {
		off := n * frame
		encodeValue(buf[off:off+half], real(s), f)
		encodeValue(buf[off+half:off+frame], imag(s), f)
	}
	return buf, nil
}

func encodeValue(b []byte, v float64, f Format) {
	if f == Float32 {
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		return
	}
	v = math.Max(math.Min(v, 1), -1)
	binary.LittleEndian.PutUint16(b, uint16(int16(math.Round(v*math.MaxInt16))))
}
