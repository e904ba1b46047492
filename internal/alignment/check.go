package alignment

import (
	"fmt"
	"strings"

	"github.com/rjboer/phasealign/internal/logging"
)

// Thresholds bound acceptable alignment, in degrees.
type Thresholds struct {
	Drift  float64
	StdDev float64
}

// BandResult is the outcome of one frequency band.
type BandResult struct {
	Band     float64
	TestFreq float64
	Runs     []RunStats
	MaxDrift float64
	// StdDevFailures lists the indices of runs over the stddev threshold.
	StdDevFailures []int
	DriftFailed    bool
	// Missing is set when the band carried no test frequency.
	Missing bool
}

// Passed reports whether the band met both thresholds.
func (b BandResult) Passed() bool {
	return len(b.StdDevFailures) == 0 && !b.DriftFailed
}

// Result is the outcome of CheckResults.
type Result struct {
	Bands []BandResult
}

// Passed is true iff every band passed.
func (r Result) Passed() bool {
	for _, b := range r.Bands {
		if !b.Passed() {
			return false
		}
	}
	return true
}

// Report renders the human-readable per-band summary.
func (r Result) Report() string {
	var b strings.Builder
	for _, band := range r.Bands {
		fmt.Fprintf(&b, "=== Frequency band starting at %.2fMHz. ===\n", band.Band/1e6)
		fmt.Fprintf(&b, "Test Frequency: %.2fMHz ===\n", band.TestFreq/1e6)
		for _, run := range band.Runs {
			fmt.Fprintf(&b, "%.2fMHz<-%.2fMHz: %.3f deg +- %.3f\n",
				band.TestFreq/1e6, run.RunFreq/1e6, run.Mean, run.StdDev)
		}
		fmt.Fprintf(&b, "--Maximum drift over runs: %.2f degrees\n", band.MaxDrift)
		if !band.Passed() {
			b.WriteString("Failure!\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CheckResults evaluates every band of rec in ascending order. Each run is
// checked against th.StdDev and the drift of the run means against th.Drift;
// both checks always run. A band without a test frequency is reported with 0
// and logged at error level. A nil logger discards diagnostics.
func CheckResults(rec *Record, th Thresholds, logger logging.Logger) Result {
	if logger == nil {
		logger = logging.Nop()
	}
	var res Result
	if rec == nil {
		return res
	}
	for _, band := range rec.Bands() {
		runs := rec.Runs(band)
		br := BandResult{Band: band, Runs: runs}
		if len(runs) == 0 || runs[0].TestFreq == 0 {
			br.Missing = true
			logger.Error("failed to find test frequency for band",
				logging.Field{Key: "subsystem", Value: "alignment"},
				logging.Field{Key: "band_mhz", Value: band / 1e6},
				logging.Field{Key: "error", Value: ErrMissingBandStatistic},
			)
		} else {
			br.TestFreq = runs[0].TestFreq
		}

		means := make([]float64, 0, len(runs))
		for i, run := range runs {
			if run.StdDev > th.StdDev {
				br.StdDevFailures = append(br.StdDevFailures, i)
			}
			means = append(means, run.Mean)
		}
		br.MaxDrift = MaxDrift(means)
		br.DriftFailed = br.MaxDrift > th.Drift
		res.Bands = append(res.Bands, br)
	}
	logger.Info("alignment statistics",
		logging.Field{Key: "subsystem", Value: "alignment"},
		logging.Field{Key: "bands", Value: len(res.Bands)},
		logging.Field{Key: "passed", Value: res.Passed()},
	)
	return res
}
