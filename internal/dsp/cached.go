package dsp

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// CachedDSP caches analysis windows and FFT plans keyed by buffer length.
// Windows are read-only once built. FFT plans carry scratch space, so each
// plan is guarded by its own mutex; a CachedDSP is safe for concurrent use.
type CachedDSP struct {
	mu    sync.RWMutex
	plans map[int]*fftPlan
}

type fftPlan struct {
	mu     sync.Mutex
	window []float64
	fft    *fourier.CmplxFFT
}

// NewCachedDSP creates a cache, optionally pre-building plans for sizes.
func NewCachedDSP(sizes ...int) *CachedDSP {
	c := &CachedDSP{plans: make(map[int]*fftPlan)}
	for _, n := range sizes {
		if n >= minSamples {
			c.plan(n)
		}
	}
	return c
}

func (c *CachedDSP) plan(n int) *fftPlan {
	c.mu.RLock()
	p, ok := c.plans[n]
	c.mu.RUnlock()
	if ok {
		return p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.plans[n]; ok {
		return p
	}
	p = &fftPlan{
		window: HannWindow(n),
		fft:    fourier.NewCmplxFFT(n),
	}
	c.plans[n] = p
	return p
}

func (p *fftPlan) transform(windowed []complex128) Spectrum {
	p.mu.Lock()
	coeffs := p.fft.Coefficients(nil, windowed)
	p.mu.Unlock()
	return halfSpectrum(coeffs)
}

// RealSpectrum is the cached equivalent of the package-level RealSpectrum.
func (c *CachedDSP) RealSpectrum(samples []float64) (Spectrum, error) {
	if len(samples) < minSamples {
		return Spectrum{}, ErrInsufficientSamples
	}
	p := c.plan(len(samples))
	return p.transform(ApplyWindowReal(samples, p.window)), nil
}

// ComplexSpectrum is the cached equivalent of the package-level ComplexSpectrum.
func (c *CachedDSP) ComplexSpectrum(samples []complex128) (Spectrum, error) {
	if len(samples) < minSamples {
		return Spectrum{}, ErrInsufficientSamples
	}
	p := c.plan(len(samples))
	return p.transform(ApplyWindow(samples, p.window)), nil
}

// Sizes returns the cached buffer lengths in ascending order.
func (c *CachedDSP) Sizes() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sizes := make([]int, 0, len(c.plans))
	for n := range c.plans {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)
	return sizes
}
