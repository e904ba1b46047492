package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rjboer/phasealign/internal/app"
	"github.com/rjboer/phasealign/internal/dsp"
	"github.com/rjboer/phasealign/internal/iqfile"
	"github.com/rjboer/phasealign/internal/logging"
	"github.com/rjboer/phasealign/internal/siggen"
	"github.com/rjboer/phasealign/internal/telemetry"
	"github.com/spf13/cobra"
)

func (c *cli) toneCmd() *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "tone FILE",
		Short: "Estimate amplitude, frequency and phase of the dominant tone in a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.cfg.DecodeOptions()
			if err != nil {
				return err
			}
			samples, err := iqfile.ReadFile(args[0], opts)
			if err != nil {
				return err
			}
			an, err := c.analyzer()
			if err != nil {
				return err
			}
			est := an.Estimator()
			var toneOpts []dsp.Option
			if cfg := an.Config(); cfg.SearchFreq > 0 {
				toneOpts = append(toneOpts, dsp.WithSearch(cfg.SearchFreq, cfg.TolerancePct))
			}

			var tone dsp.Tone
			switch strings.ToLower(channel) {
			case "complex", "iq":
				tone, err = est.EstimateComplex(samples, c.cfg.Analysis.SampleRate, toneOpts...)
			case "real", "i":
				tone, err = est.Estimate(component(samples, func(v complex128) float64 { return real(v) }), c.cfg.Analysis.SampleRate, toneOpts...)
			case "imag", "q":
				tone, err = est.Estimate(component(samples, func(v complex128) float64 { return imag(v) }), c.cfg.Analysis.SampleRate, toneOpts...)
			default:
				return fmt.Errorf("unknown channel %q (want complex, i or q)", channel)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "amplitude: %.6f\n", tone.Amplitude)
			fmt.Fprintf(out, "frequency: %.3f Hz\n", tone.Frequency)
			fmt.Fprintf(out, "phase: %.3f deg\n", tone.Phase)
			for _, w := range tone.Warnings {
				fmt.Fprintf(out, "warning: %v\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "complex", "component to analyze: complex, i or q")
	return cmd
}

func component(samples []complex128, part func(complex128) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = part(s)
	}
	return out
}

func (c *cli) phaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase FILE_A FILE_B",
		Short: "Print the phase of two recordings per segment and their difference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.cfg.DecodeOptions()
			if err != nil {
				return err
			}
			a, err := iqfile.ReadFile(args[0], opts)
			if err != nil {
				return err
			}
			b, err := iqfile.ReadFile(args[1], opts)
			if err != nil {
				return err
			}
			an, err := c.analyzer()
			if err != nil {
				return err
			}
			res, err := an.ComparePhase(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "segment\tphase_a\tphase_b\tdelta")
			for i := range res.Diff {
				fmt.Fprintf(out, "%d\t%.3f\t%.3f\t%.3f\n", i, res.A[i], res.B[i], res.Diff[i])
			}
			fmt.Fprintf(out, "cross phase: %.3f deg\n", res.Cross)
			return nil
		},
	}
	cmd.Flags().Int("segment", 0, "samples per phase estimate (0 uses the whole recording)")
	return cmd
}

func (c *cli) alignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align DIR",
		Short: "Align every channel of one run directory against the base channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := c.analyzer(telemetry.NewLogReporter(c.logger))
			if err != nil {
				return err
			}
			run, err := an.LoadRun(args[0], 0, 0)
			if err != nil {
				return err
			}
			samples, err := an.AnalyzeRun(cmd.Context(), run)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range samples {
				fmt.Fprintf(out, "%s->%s: %.3f deg +- %.3f (min %.3f, max %.3f) at %.2fMHz\n",
					s.Base, s.Channel, s.Stats.Mean, s.Stats.StdDev, s.Stats.Min, s.Stats.Max, s.Stats.RunFreq/1e6)
				if len(s.Windows) > 0 {
					fmt.Fprintf(out, "  %d windows, first %.3f deg, last %.3f deg\n",
						len(s.Windows), s.Windows[0], s.Windows[len(s.Windows)-1])
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("ppw", 0, "points per averaging window (overrides --signal-freq)")
	cmd.Flags().Float64("signal-freq", 0, "transmitted tone frequency in Hz, sets points per window to two periods")
	return cmd
}

func (c *cli) checkCmd() *cobra.Command {
	var (
		bandHz   float64
		testFreq float64
		latest   int
		history  bool
	)
	cmd := &cobra.Command{
		Use:   "check DIR...",
		Short: "Check drift and deviation across repeated runs against thresholds",
		Long: "Each DIR is one run. With --latest N a single DIR is taken as the parent\n" +
			"of run directories and its N most recently modified subdirectories are used.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if latest > 0 {
				if len(args) != 1 {
					return fmt.Errorf("--latest takes exactly one parent directory")
				}
				var err error
				if dirs, err = iqfile.LatestDirs(args[0], latest); err != nil {
					return err
				}
			}
			if testFreq == 0 {
				testFreq = bandHz
			}

			collector := telemetry.NewCollector(0)
			an, err := c.analyzer(telemetry.NewLogReporter(c.logger), collector)
			if err != nil {
				return err
			}
			runs := make([]app.Run, 0, len(dirs))
			for _, dir := range dirs {
				run, err := an.LoadRun(dir, bandHz, testFreq)
				if err != nil {
					return err
				}
				runs = append(runs, run)
			}
			report, err := an.Check(cmd.Context(), runs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, report.String())
			if history {
				printHistory(out, collector.History())
			}
			if !report.Passed() {
				c.logger.Error("alignment check failed", logging.Field{Key: "runs", Value: len(runs)})
				return errCheckFailed
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&bandHz, "band-hz", 0, "start of the frequency band the runs belong to, in Hz")
	cmd.Flags().Float64Var(&testFreq, "test-freq", 0, "nominal test frequency in Hz (defaults to --band-hz)")
	cmd.Flags().IntVar(&latest, "latest", 0, "use the N newest run directories under DIR")
	cmd.Flags().BoolVar(&history, "history", false, "also print the statistics of every run and channel")
	cmd.Flags().Float64("drift-threshold", 2, "maximum drift (deg) of run means within a band")
	cmd.Flags().Float64("stddev-threshold", 2, "maximum deviation (deg) within a single run")
	return cmd
}

// printHistory lists per-run channel statistics ordered by run, then channel.
func printHistory(w io.Writer, entries []telemetry.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Sample, entries[j].Sample
		if a.Run != b.Run {
			return a.Run < b.Run
		}
		return a.Channel < b.Channel
	})
	fmt.Fprintln(w, "run\tpair\tmean\tstddev\trun_freq_mhz")
	for _, e := range entries {
		s := e.Sample
		fmt.Fprintf(w, "%s\t%s->%s\t%.3f\t%.3f\t%.4f\n",
			s.Run, s.Base, s.Channel, s.Stats.Mean, s.Stats.StdDev, s.Stats.RunFreq/1e6)
	}
}

func (c *cli) generateCmd() *cobra.Command {
	var (
		tone     float64
		delta    float64
		drift    float64
		channels int
		runs     int
		samples  int
		noise    float64
		amp      float64
		seed     int64
	)
	cmd := &cobra.Command{
		Use:   "generate DIR",
		Short: "Write synthetic multi-channel recordings, one run_NN directory per run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := iqfile.ParseFormat(c.cfg.Analysis.Format)
			if err != nil {
				return err
			}
			if channels < 1 || runs < 1 {
				return fmt.Errorf("--channels and --runs must be at least 1")
			}
			gen := siggen.New(siggen.Config{
				SampleRate: c.cfg.Analysis.SampleRate,
				Frequency:  tone,
				Amplitude:  amp,
				NumSamples: samples + c.cfg.Analysis.StartOffset,
				NoiseStd:   noise,
				Seed:       seed,
			})
			for r := 0; r < runs; r++ {
				gen.SetPhaseDelta(delta + float64(r)*drift)
				run := fmt.Sprintf("run_%02d", r)
				dir := filepath.Join(args[0], run)
				for name, iq := range gen.Channels(channels) {
					path := filepath.Join(dir, fmt.Sprintf("tx_00_%s_%s%s", name, run, iqfile.Ext))
					if err := iqfile.WriteFile(path, iq, format); err != nil {
						return err
					}
				}
				c.logger.Info("run written",
					logging.Field{Key: "dir", Value: dir},
					logging.Field{Key: "phase_delta_deg", Value: gen.PhaseDelta()},
				)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d runs of %d channels to %s\n", runs, channels, args[0])
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&tone, "tone", 1e6, "tone frequency in Hz")
	f.Float64Var(&delta, "phase-delta", 10, "phase step between adjacent channels in degrees")
	f.Float64Var(&drift, "drift", 0, "added to --phase-delta per run, in degrees")
	f.IntVar(&channels, "channels", 2, "channels per run")
	f.IntVar(&runs, "runs", 1, "number of runs")
	f.IntVar(&samples, "samples", 4096, "I/Q pairs per file after --start-offset")
	f.Float64Var(&noise, "noise", 0, "standard deviation of additive Gaussian noise")
	f.Float64Var(&amp, "amplitude", 0.5, "tone amplitude (full scale is 1)")
	f.Int64Var(&seed, "seed", 1, "noise seed")
	return cmd
}
