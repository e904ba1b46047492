package siggen

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Config describes the synthetic tone.
type Config struct {
	SampleRate float64 // Hz, defaults to 2e6
	Frequency  float64 // tone frequency in Hz
	Amplitude  float64 // defaults to 1
	NumSamples int     // defaults to 1024
	PhaseDelta float64 // per-channel phase step in degrees
	NoiseStd   float64 // standard deviation of additive Gaussian noise
	Seed       int64
}

// Generator synthesizes real or I/Q tones with a controllable inter-channel
// phase offset.
type Generator struct {
	mu  sync.Mutex
	cfg Config
	rng *rand.Rand
}

// New returns a generator seeded from cfg.Seed.
func New(cfg Config) *Generator {
	if cfg.NumSamples == 0 {
		cfg.NumSamples = 1024
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 2e6
	}
	if cfg.Amplitude == 0 {
		cfg.Amplitude = 1
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// SetPhaseDelta updates the per-channel phase step in degrees.
func (g *Generator) SetPhaseDelta(phaseDeltaDeg float64) {
	g.mu.Lock()
	g.cfg.PhaseDelta = phaseDeltaDeg
	g.mu.Unlock()
}

// PhaseDelta returns the current per-channel phase step.
func (g *Generator) PhaseDelta() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg.PhaseDelta
}

// Real returns A*sin(2*pi*f*t + phase) plus noise.
func (g *Generator) Real(phaseDeg float64) []float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	cfg := g.cfg
	out := make([]float64, cfg.NumSamples)
	step := 2 * math.Pi * cfg.Frequency / cfg.SampleRate
	phase := phaseDeg * math.Pi / 180
	for i := range out {
		out[i] = cfg.Amplitude*math.Sin(step*float64(i)+phase) + g.noise()
	}
	return out
}

// Complex returns A*exp(j*(2*pi*f*t + phase)) plus independent I and Q noise.
func (g *Generator) Complex(phaseDeg float64) []complex128 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.complexLocked(phaseDeg)
}

func (g *Generator) complexLocked(phaseDeg float64) []complex128 {
	cfg := g.cfg
	out := make([]complex128, cfg.NumSamples)
	step := 2 * math.Pi * cfg.Frequency / cfg.SampleRate
	phase := phaseDeg * math.Pi / 180
	for i := range out {
		p := step*float64(i) + phase
		out[i] = complex(cfg.Amplitude*math.Cos(p)+g.noise(), cfg.Amplitude*math.Sin(p)+g.noise())
	}
	return out
}

// Pair returns two I/Q channels, the second shifted by PhaseDelta.
func (g *Generator) Pair() ([]complex128, []complex128) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.complexLocked(0), g.complexLocked(g.cfg.PhaseDelta)
}

// Channels returns n I/Q channels keyed rx_00, rx_01, ...; channel k is
// shifted by k*PhaseDelta.
func (g *Generator) Channels(n int) map[string][]complex128 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string][]complex128, n)
	for k := 0; k < n; k++ {
		out[ChannelName(k)] = g.complexLocked(float64(k) * g.cfg.PhaseDelta)
	}
	return out
}

// ChannelName formats the rx label of channel k.
func ChannelName(k int) string { return fmt.Sprintf("rx_%02d", k) }

func (g *Generator) noise() float64 {
	if g.cfg.NoiseStd == 0 {
		return 0
	}
	return g.rng.NormFloat64() * g.cfg.NoiseStd
}
