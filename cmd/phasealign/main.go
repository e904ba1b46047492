package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rjboer/phasealign/internal/app"
	"github.com/rjboer/phasealign/internal/config"
	"github.com/rjboer/phasealign/internal/logging"
	"github.com/rjboer/phasealign/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errCheckFailed is returned by the check command when a threshold is exceeded.
var errCheckFailed = errors.New("alignment check failed")

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
	logOut  io.Writer
	cfg     *config.Config
	logger  logging.Logger
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), logOut: logOut}
	def := config.Default()

	root := &cobra.Command{
		Use:           "phasealign",
		Short:         "Single-tone estimation and inter-channel phase alignment for I/Q recordings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.cfgFile, "config", "c", "", "YAML config file")
	pf.Float64("sample-rate", def.Analysis.SampleRate, "sample rate in Hz")
	pf.String("format", def.Analysis.Format, "sample format: int16 or float32")
	pf.Int("start-offset", def.Analysis.StartOffset, "I/Q pairs skipped at the start of each file")
	pf.Bool("swap-iq", def.Analysis.SwapIQ, "treat the first value of each pair as Q")
	pf.String("base", def.Analysis.BaseChannel, "base RX channel to measure against, format rx_##")
	pf.Float64("search-freq", def.Analysis.SearchFreq, "expected tone frequency in Hz (0 searches the full spectrum)")
	pf.Float64("tolerance", def.Analysis.TolerancePct, "bounded search tolerance in percent of --search-freq")
	pf.Int("workers", def.Workers, "concurrent workers (0 uses one per CPU)")
	pf.String("log-level", def.Logging.Level, "log level: debug, info, warn, error")
	pf.String("log-format", def.Logging.Format, "log format: text or json")

	root.AddCommand(
		c.toneCmd(),
		c.phaseCmd(),
		c.alignCmd(),
		c.checkCmd(),
		c.generateCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	if err := config.BindFlags(c.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(c.logOut)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	c.cfg = cfg
	c.logger = logger.With(logging.Field{Key: "command", Value: cmd.Name()})
	c.logger.Debug("configuration loaded",
		logging.Field{Key: "config_file", Value: c.v.ConfigFileUsed()},
		logging.Field{Key: "sample_rate", Value: cfg.Analysis.SampleRate},
		logging.Field{Key: "base", Value: cfg.Analysis.BaseChannel},
	)
	return nil
}

func (c *cli) analyzer(reporters ...telemetry.Reporter) (*app.Analyzer, error) {
	cfg, err := app.FromConfig(c.cfg)
	if err != nil {
		return nil, fmt.Errorf("analyzer config: %w", err)
	}
	var rep telemetry.Reporter
	if len(reporters) > 0 {
		rep = telemetry.MultiReporter(reporters)
	}
	return app.NewAnalyzer(rep, c.logger, cfg), nil
}
