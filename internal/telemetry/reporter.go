package telemetry

import (
	"github.com/rjboer/phasealign/internal/alignment"
	"github.com/rjboer/phasealign/internal/logging"
)

// ChannelSample is the alignment summary of one channel against the base
// channel for one run.
type ChannelSample struct {
	Run     string             `json:"run"`
	Band    float64            `json:"bandHz"`
	Base    string             `json:"base"`
	Channel string             `json:"channel"`
	Stats   alignment.RunStats `json:"stats"`
	Windows []float64          `json:"windows,omitempty"`
}

// Reporter receives alignment results as they are produced.
type Reporter interface {
	ReportChannel(sample ChannelSample)
	ReportCheck(result alignment.Result)
}

// LogReporter writes results through a logger.
type LogReporter struct {
	logger logging.Logger
}

// NewLogReporter builds a log reporter with the provided logger.
func NewLogReporter(logger logging.Logger) LogReporter {
	if logger == nil {
		logger = logging.Default()
	}
	return LogReporter{logger: logger}
}

func (r LogReporter) ReportChannel(s ChannelSample) {
	fields := []logging.Field{
		{Key: "subsystem", Value: "telemetry"},
		{Key: "channel", Value: s.Base + "->" + s.Channel},
		{Key: "mean_deg", Value: s.Stats.Mean},
		{Key: "stddev_deg", Value: s.Stats.StdDev},
		{Key: "min_deg", Value: s.Stats.Min},
		{Key: "max_deg", Value: s.Stats.Max},
	}
	if s.Run != "" {
		fields = append(fields, logging.Field{Key: "run", Value: s.Run})
	}
	if s.Band != 0 {
		fields = append(fields, logging.Field{Key: "band_hz", Value: s.Band})
	}
	if len(s.Windows) > 0 {
		fields = append(fields, logging.Field{Key: "windows", Value: len(s.Windows)})
	}
	r.logger.Info("channel alignment", fields...)
}

// ReportCheck logs the band report; failures are logged at warn level.
func (r LogReporter) ReportCheck(res alignment.Result) {
	fields := []logging.Field{
		{Key: "subsystem", Value: "telemetry"},
		{Key: "bands", Value: len(res.Bands)},
	}
	if res.Passed() {
		r.logger.Info("printing statistics!\n"+res.Report(), fields...)
		return
	}
	r.logger.Warn("printing statistics!\n"+res.Report(), fields...)
}

// MultiReporter fans out results to multiple destinations.
type MultiReporter []Reporter

func (m MultiReporter) ReportChannel(s ChannelSample) {
	for _, r := range m {
		if r != nil {
			r.ReportChannel(s)
		}
	}
}

func (m MultiReporter) ReportCheck(res alignment.Result) {
	for _, r := range m {
		if r != nil {
			r.ReportCheck(res)
		}
	}
}
