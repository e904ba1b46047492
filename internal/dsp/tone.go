package dsp

import (
	"math"
	"math/cmplx"

	"github.com/rjboer/phasealign/internal/logging"
)

// DefaultTolerancePct is the bounded-search tolerance used when WithSearch is
// given a non-positive tolerance.
const DefaultTolerancePct = 10.0

// Tone is the result of a single-tone estimate.
type Tone struct {
	Amplitude float64 // peak amplitude, same units as the input
	Frequency float64 // Hz
	Phase     float64 // degrees in (-180, 180], sine reference
	// Index is the refined fractional bin of the tone.
	Index float64
	// Warnings collects recoverable conditions hit during the estimate,
	// e.g. ErrSearchRangeTooNarrow.
	Warnings []error
}

// Option tunes a single Estimate call.
type Option func(*estimateOptions)

type estimateOptions struct {
	searchFreq   float64
	tolerancePct float64
	bounded      bool
}

// WithSearch restricts the peak search to freqHz +/- tolerancePct percent.
func WithSearch(freqHz, tolerancePct float64) Option {
	return func(o *estimateOptions) {
		if tolerancePct <= 0 {
			tolerancePct = DefaultTolerancePct
		}
		o.searchFreq = freqHz
		o.tolerancePct = tolerancePct
		o.bounded = true
	}
}

// Estimator extracts amplitude, frequency and phase of the dominant tone in a
// buffer. It holds only the plan cache and a logger, so one Estimator can
// serve concurrent callers.
type Estimator struct {
	dsp    *CachedDSP
	logger logging.Logger
}

// NewEstimator builds an estimator. A nil logger discards diagnostics.
func NewEstimator(logger logging.Logger) *Estimator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Estimator{dsp: NewCachedDSP(), logger: logger}
}

// Estimate runs the two-pass estimator over a real buffer.
func (e *Estimator) Estimate(samples []float64, sampleRate float64, opts ...Option) (Tone, error) {
	spec, err := e.dsp.RealSpectrum(samples)
	if err != nil {
		return Tone{}, err
	}
	return e.fromSpectrum(spec, sampleRate, opts...)
}

// EstimateComplex runs the two-pass estimator over an I/Q buffer. Only the
// positive half of the spectrum is searched.
func (e *Estimator) EstimateComplex(samples []complex128, sampleRate float64, opts ...Option) (Tone, error) {
	spec, err := e.dsp.ComplexSpectrum(samples)
	if err != nil {
		return Tone{}, err
	}
	return e.fromSpectrum(spec, sampleRate, opts...)
}

// Spectrum exposes the cached windowed half spectrum of an I/Q buffer.
func (e *Estimator) Spectrum(samples []complex128) (Spectrum, error) {
	return e.dsp.ComplexSpectrum(samples)
}

// Estimate is a convenience wrapper using a throwaway Estimator.
func Estimate(samples []float64, sampleRate float64, opts ...Option) (Tone, error) {
	return NewEstimator(nil).Estimate(samples, sampleRate, opts...)
}

func (e *Estimator) fromSpectrum(spec Spectrum, sampleRate float64, opts ...Option) (Tone, error) {
	var o estimateOptions
	for _, opt := range opts {
		opt(&o)
	}

	var tone Tone
	search := FullRange(spec.Len())
	if o.bounded {
		r, err := BoundedRange(spec.Len(), spec.N, sampleRate, o.searchFreq, o.tolerancePct)
		if err != nil {
			e.logger.Warn("bounded tone search fell back to full spectrum",
				logging.Field{Key: "subsystem", Value: "dsp"},
				logging.Field{Key: "search_hz", Value: o.searchFreq},
				logging.Field{Key: "tolerance_pct", Value: o.tolerancePct},
				logging.Field{Key: "samples", Value: spec.N},
			)
			tone.Warnings = append(tone.Warnings, err)
		}
		search = r
	}

	// First pass on the raw spectrum.
	rawIdx, rawAmp, err := interpolatePeak(spec.Magnitude(), search)
	if err != nil {
		return Tone{}, err
	}

	// Second pass on the alias-corrected spectrum.
	cleaned := CorrectAliasing(spec, rawIdx, rawAmp)
	idx, amp, err := interpolatePeak(cleaned.Magnitude(), search)
	if err != nil {
		return Tone{}, err
	}

	phaseBin := int(math.Floor(rawIdx))
	if phaseBin < 0 {
		phaseBin = 0
	}
	if phaseBin >= cleaned.Len() {
		phaseBin = cleaned.Len() - 1
	}
	frac := idx - math.Floor(idx)
	phase := cmplx.Phase(cleaned.Bins[phaseBin])*radToDeg - 180*frac + 90

	tone.Amplitude = amp * math.Sqrt2
	tone.Frequency = idx * spec.BinWidth(sampleRate)
	tone.Phase = NormalizeDegrees(phase)
	tone.Index = idx

	e.logger.Debug("tone estimate",
		logging.Field{Key: "subsystem", Value: "dsp"},
		logging.Field{Key: "amplitude", Value: tone.Amplitude},
		logging.Field{Key: "frequency_hz", Value: tone.Frequency},
		logging.Field{Key: "phase_deg", Value: tone.Phase},
	)
	return tone, nil
}

func interpolatePeak(mag []float64, search SearchRange) (float64, float64, error) {
	tf, err := NewThreeFinger(mag, FindPeak(mag, search))
	if err != nil {
		return 0, 0, err
	}
	idx, amp := Interpolate(tf)
	return idx, amp, nil
}

// Synthesize renders the tone as A*sin(2*pi*f*t + phase) for n samples.
func (t Tone) Synthesize(n int, sampleRate float64) []float64 {
	if n <= 0 || sampleRate <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	phase := t.Phase * degToRad
	step := 2 * math.Pi * t.Frequency / sampleRate
	for i := range out {
		out[i] = t.Amplitude * math.Sin(step*float64(i)+phase)
	}
	return out
}
