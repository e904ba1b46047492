package siggen

import (
	"math"
	"testing"

	"github.com/rjboer/phasealign/internal/alignment"
	"github.com/rjboer/phasealign/internal/dsp"
)

func TestGeneratorPairPhaseDelta(t *testing.T) {
	gen := New(Config{SampleRate: 2e6, Frequency: 200e3, NumSamples: 512, PhaseDelta: 45, NoiseStd: 1e-4, Seed: 1})
	ch0, ch1 := gen.Pair()
	if len(ch0) != 512 || len(ch1) != 512 {
		t.Fatalf("unexpected sample count")
	}
	trace, err := alignment.ChannelAlignment(ch0, ch1)
	if err != nil {
		t.Fatalf("alignment: %v", err)
	}
	stats := alignment.ComputeRunStats(trace, 200e3, 200e3)
	if math.Abs(stats.Mean-45) > 0.1 {
		t.Fatalf("expected mean near 45, got %.3f", stats.Mean)
	}
	if stats.StdDev > 0.1 {
		t.Fatalf("noise too large: %.3f", stats.StdDev)
	}
}

func TestGeneratorDefaulting(t *testing.T) {
	gen := New(Config{})
	cfg := gen.Config()
	if cfg.NumSamples != 1024 || cfg.SampleRate != 2e6 || cfg.Amplitude != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	gen.SetPhaseDelta(-30)
	if gen.PhaseDelta() != -30 {
		t.Fatalf("phase delta not updated")
	}
	if len(gen.Complex(0)) != 1024 {
		t.Fatalf("expected default buffer")
	}
}

func TestGeneratorRealTone(t *testing.T) {
	gen := New(Config{SampleRate: 1000, Frequency: 10, NumSamples: 1000})
	tone, err := dsp.Estimate(gen.Real(45), 1000)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if math.Abs(tone.Amplitude-1) > 0.01 || math.Abs(tone.Frequency-10) > 1 || math.Abs(tone.Phase-45) > 2 {
		t.Fatalf("unexpected tone %+v", tone)
	}
}

func TestGeneratorChannels(t *testing.T) {
	gen := New(Config{Frequency: 100e3, NumSamples: 64, PhaseDelta: 20})
	chans := gen.Channels(3)
	if len(chans) != 3 {
		t.Fatalf("expected 3 channels")
	}
	traces, err := alignment.AlignAll(chans, ChannelName(0))
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if math.Abs(traces["rx_02"][10]-40) > 1e-9 {
		t.Fatalf("rx_02 should lead by 40 degrees, got %v", traces["rx_02"][10])
	}
}

func TestGeneratorSeedIsDeterministic(t *testing.T) {
	a := New(Config{Frequency: 1e3, NumSamples: 16, NoiseStd: 0.1, Seed: 9}).Real(0)
	b := New(Config{Frequency: 1e3, NumSamples: 16, NoiseStd: 0.1, Seed: 9}).Real(0)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs", i)
		}
	}
}
