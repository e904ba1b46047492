package app

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rjboer/phasealign/internal/alignment"
	"github.com/rjboer/phasealign/internal/config"
	"github.com/rjboer/phasealign/internal/dsp"
	"github.com/rjboer/phasealign/internal/iqfile"
	"github.com/rjboer/phasealign/internal/logging"
	"github.com/rjboer/phasealign/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// Config captures application level configuration.
type Config struct {
	SampleRate      float64
	SearchFreq      float64 // 0 searches the full spectrum
	TolerancePct    float64
	SegmentLength   int
	PointsPerWindow int // 0 disables window averaging
	BaseChannel     string
	Decode          iqfile.Options
	Thresholds      alignment.Thresholds
	Workers         int
}

// FromConfig maps the loaded configuration onto the analyzer's.
func FromConfig(c *config.Config) (Config, error) {
	dec, err := c.DecodeOptions()
	if err != nil {
		return Config{}, err
	}
	return Config{
		SampleRate:      c.Analysis.SampleRate,
		SearchFreq:      c.Analysis.SearchFreq,
		TolerancePct:    c.Analysis.TolerancePct,
		SegmentLength:   c.Analysis.SegmentLength,
		PointsPerWindow: c.PointsPerWindow(),
		BaseChannel:     c.Analysis.BaseChannel,
		Decode:          dec,
		Thresholds: alignment.Thresholds{
			Drift:  c.Thresholds.DriftDeg,
			StdDev: c.Thresholds.StdDevDeg,
		},
		Workers: c.Workers,
	}, nil
}

// Run is one recorded trial: every channel captured for one transmission.
type Run struct {
	Name     string
	Band     float64 // Hz, groups runs for drift checks
	TestFreq float64 // Hz, nominal test frequency
	Channels map[string][]complex128
}

// PairReport holds the check result of one channel against the base.
type PairReport struct {
	Base    string
	Channel string
	Result  alignment.Result
}

// Report is the outcome of a multi-run check.
type Report struct {
	Pairs []PairReport
}

// Passed is true iff every channel pair passed.
func (r Report) Passed() bool {
	for _, p := range r.Pairs {
		if !p.Result.Passed() {
			return false
		}
	}
	return true
}

// String renders every pair's band report.
func (r Report) String() string {
	var b strings.Builder
	for _, p := range r.Pairs {
		fmt.Fprintf(&b, "##### %s -> %s #####\n", p.Base, p.Channel)
		b.WriteString(p.Result.Report())
	}
	return b.String()
}

// Analyzer computes channel alignment statistics for recorded runs.
type Analyzer struct {
	est      *dsp.Estimator
	reporter telemetry.Reporter
	logger   logging.Logger
	cfg      Config
}

// NewAnalyzer builds an analyzer. A nil logger uses the process default.
func NewAnalyzer(reporter telemetry.Reporter, logger logging.Logger, cfg Config) *Analyzer {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BaseChannel == "" {
		cfg.BaseChannel = "rx_00"
	}
	if cfg.TolerancePct <= 0 {
		cfg.TolerancePct = dsp.DefaultTolerancePct
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Analyzer{
		est:      dsp.NewEstimator(logger),
		reporter: reporter,
		logger:   logger,
		cfg:      cfg,
	}
}

// Estimator exposes the shared tone estimator.
func (a *Analyzer) Estimator() *dsp.Estimator { return a.est }

// Config returns the effective configuration.
func (a *Analyzer) Config() Config { return a.cfg }

func (a *Analyzer) toneOptions() []dsp.Option {
	if a.cfg.SearchFreq > 0 {
		return []dsp.Option{dsp.WithSearch(a.cfg.SearchFreq, a.cfg.TolerancePct)}
	}
	return nil
}

// LoadRun reads every recording in dir and keeps the channels recorded
// alongside the base channel.
func (a *Analyzer) LoadRun(dir string, band, testFreq float64) (Run, error) {
	recs, err := iqfile.LoadDir(dir, a.cfg.Decode)
	if err != nil {
		return Run{}, fmt.Errorf("load run %s: %w", dir, err)
	}
	chans, err := iqfile.Channels(recs, a.cfg.BaseChannel)
	if err != nil {
		return Run{}, fmt.Errorf("load run %s: %w", dir, err)
	}
	a.logger.Debug("run loaded",
		logging.Field{Key: "subsystem", Value: "app"},
		logging.Field{Key: "dir", Value: dir},
		logging.Field{Key: "channels", Value: len(chans)},
	)
	return Run{Name: filepath.Base(dir), Band: band, TestFreq: testFreq, Channels: chans}, nil
}

// AnalyzeRun aligns every channel of run against the base channel. The
// measured tone frequency of the base channel becomes each RunStats.RunFreq.
// Samples are returned sorted by channel.
func (a *Analyzer) AnalyzeRun(ctx context.Context, run Run) ([]telemetry.ChannelSample, error) {
	start := time.Now()
	base, ok := run.Channels[a.cfg.BaseChannel]
	if !ok {
		return nil, fmt.Errorf("run %s: %w: %q", run.Name, alignment.ErrUnknownChannel, a.cfg.BaseChannel)
	}
	tone, err := a.est.EstimateComplex(base, a.cfg.SampleRate, a.toneOptions()...)
	if err != nil {
		return nil, fmt.Errorf("run %s: estimate base tone: %w", run.Name, err)
	}

	traces, err := alignment.AlignAll(run.Channels, a.cfg.BaseChannel)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", run.Name, err)
	}
	names := make([]string, 0, len(traces))
	for name := range traces {
		names = append(names, name)
	}
	sort.Strings(names)

	samples := make([]telemetry.ChannelSample, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trace := traces[name]
			s := telemetry.ChannelSample{
				Run:     run.Name,
				Band:    run.Band,
				Base:    a.cfg.BaseChannel,
				Channel: name,
				Stats:   alignment.ComputeRunStats(trace, run.TestFreq, tone.Frequency),
			}
			if a.cfg.PointsPerWindow > 0 {
				windows, err := alignment.AverageAlignment(trace, a.cfg.PointsPerWindow)
				if err != nil {
					return fmt.Errorf("run %s: %s: %w", run.Name, name, err)
				}
				s.Windows = windows
			}
			samples[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range samples {
		if a.reporter != nil {
			a.reporter.ReportChannel(s)
		}
	}
	a.logger.Debug("run analyzed",
		logging.Field{Key: "subsystem", Value: "app"},
		logging.Field{Key: "run", Value: run.Name},
		logging.Field{Key: "run_freq_hz", Value: tone.Frequency},
		logging.Field{Key: "duration_ms", Value: time.Since(start).Seconds() * 1000},
	)
	return samples, nil
}

// Check analyzes every run, records each channel pair's statistics per
// band and evaluates them against the thresholds. Runs are processed
// concurrently; records are filled in run order.
func (a *Analyzer) Check(ctx context.Context, runs []Run) (Report, error) {
	results := make([][]telemetry.ChannelSample, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, run := range runs {
		g.Go(func() error {
			samples, err := a.AnalyzeRun(gctx, run)
			if err != nil {
				return err
			}
			results[i] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	records := make(map[string]*alignment.Record)
	for i, samples := range results {
		for _, s := range samples {
			rec, ok := records[s.Channel]
			if !ok {
				rec = alignment.NewRecord()
				records[s.Channel] = rec
			}
			rec.Add(runs[i].Band, s.Stats)
		}
	}

	channels := make([]string, 0, len(records))
	for ch := range records {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	var report Report
	for _, ch := range channels {
		res := alignment.CheckResults(records[ch], a.cfg.Thresholds, a.logger.With(logging.Field{Key: "channel", Value: ch}))
		report.Pairs = append(report.Pairs, PairReport{Base: a.cfg.BaseChannel, Channel: ch, Result: res})
		if a.reporter != nil {
			a.reporter.ReportCheck(res)
		}
	}
	return report, nil
}

// PhaseComparison holds two channels' phase series and their difference.
// Cross is the phase of B relative to A at the tone, over the whole buffers.
type PhaseComparison struct {
	A, B  []float64
	Diff  []float64
	Cross float64
}

// ComparePhase computes the segment phase series of two I/Q buffers
// concurrently, their elementwise difference and their cross phase at the
// tone.
func (a *Analyzer) ComparePhase(ctx context.Context, chA, chB []complex128) (PhaseComparison, error) {
	if len(chA) != len(chB) {
		return PhaseComparison{}, fmt.Errorf("%w: %d vs %d samples", alignment.ErrLengthMismatch, len(chA), len(chB))
	}
	seg := a.cfg.SegmentLength
	if seg <= 0 {
		seg = len(chA)
	}
	var out PhaseComparison
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		out.A, err = alignment.PhaseSeriesComplex(a.est, chA, a.cfg.SampleRate, seg, a.toneOptions()...)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		out.Cross, _, err = a.est.ToneCrossPhase(chA, chB, a.cfg.SampleRate, a.toneOptions()...)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		out.B, err = alignment.PhaseSeriesComplex(a.est, chB, a.cfg.SampleRate, seg, a.toneOptions()...)
		return err
	})
	if err := g.Wait(); err != nil {
		return PhaseComparison{}, err
	}
	diff, err := alignment.PhaseDifference(out.A, out.B)
	if err != nil {
		return PhaseComparison{}, err
	}
	out.Diff = diff
	return out, nil
}
