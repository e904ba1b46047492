package telemetry

import (
	"sync"
	"time"

	"github.com/rjboer/phasealign/internal/alignment"
)

const defaultHistoryLimit = 500

// Entry is one recorded channel sample.
type Entry struct {
	Timestamp time.Time     `json:"timestamp"`
	Sample    ChannelSample `json:"sample"`
}

// Collector keeps a bounded history of results in memory and fans out new
// samples to subscribers.
type Collector struct {
	mu           sync.RWMutex
	history      []Entry
	historyLimit int
	subscribers  map[chan Entry]struct{}
	checks       []alignment.Result
}

// NewCollector builds a collector keeping at most historyLimit samples.
func NewCollector(historyLimit int) *Collector {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Collector{
		historyLimit: historyLimit,
		subscribers:  make(map[chan Entry]struct{}),
	}
}

// ReportChannel implements Reporter.
func (c *Collector) ReportChannel(s ChannelSample) {
	entry := Entry{Timestamp: time.Now(), Sample: s}

	c.mu.Lock()
	c.history = append(c.history, entry)
	if len(c.history) > c.historyLimit {
		c.history = c.history[len(c.history)-c.historyLimit:]
	}
	for ch := range c.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
	c.mu.Unlock()
}

// ReportCheck implements Reporter.
func (c *Collector) ReportCheck(res alignment.Result) {
	c.mu.Lock()
	c.checks = append(c.checks, res)
	c.mu.Unlock()
}

// History returns a copy of stored samples.
func (c *Collector) History() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.history))
	copy(out, c.history)
	return out
}

// Checks returns a copy of the reported check results.
func (c *Collector) Checks() []alignment.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]alignment.Result, len(c.checks))
	copy(out, c.checks)
	return out
}

// Subscribe registers a listener for new samples. Slow listeners miss
// samples rather than block reporting.
func (c *Collector) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, 16)
	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, ch)
			close(ch)
			c.mu.Unlock()
		})
	}
	return ch, cancel
}
