package alignment

import (
	"slices"
	"sync"
)

// Record accumulates run statistics per frequency band (Hz). Runs are only
// ever appended. A Record is safe for concurrent use.
type Record struct {
	mu    sync.RWMutex
	bands map[float64][]RunStats
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{bands: make(map[float64][]RunStats)}
}

// Add appends runs to band.
func (r *Record) Add(band float64, runs ...RunStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bands == nil {
		r.bands = make(map[float64][]RunStats)
	}
	r.bands[band] = append(r.bands[band], runs...)
}

// AddBand registers band without any runs.
func (r *Record) AddBand(band float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bands == nil {
		r.bands = make(map[float64][]RunStats)
	}
	if _, ok := r.bands[band]; !ok {
		r.bands[band] = nil
	}
}

// Bands returns the recorded bands in ascending order.
func (r *Record) Bands() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]float64, 0, len(r.bands))
	for b := range r.bands {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// Runs returns a copy of the runs recorded for band.
func (r *Record) Runs(band float64) []RunStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.bands[band])
}

// Len returns the number of bands.
func (r *Record) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bands)
}
