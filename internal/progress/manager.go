// Package progress provides a terminal progress display for benchmark
// runs: one bar over all (query, provider) requests with pass/fail
// counters.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Manager tracks request completion during a run. A disabled manager
// stays silent so the run command can be piped or scripted.
type Manager struct {
	enabled   bool
	total     int
	completed int
	passed    int
	failed    int
	inFlight  map[string]time.Time // key: "provider:query"
	mu        sync.Mutex
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// NewManager creates a manager for a run of total requests.
func NewManager(total int, enabled bool) *Manager {
	m := &Manager{
		enabled:   enabled,
		total:     total,
		inFlight:  make(map[string]time.Time),
		startTime: time.Now(),
	}

	if enabled {
		m.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Benchmark Progress"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("req"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "|",
				BarEnd:        "|",
			}),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
	}

	return m
}

// Start marks one request as in flight.
func (m *Manager) Start(provider, query string) {
	if !m.enabled {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight[provider+":"+query] = time.Now()
}

// Complete marks one request as done and advances the bar.
func (m *Manager) Complete(provider, query string, success bool) {
	if !m.enabled {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inFlight, provider+":"+query)
	m.completed++
	if success {
		m.passed++
	} else {
		m.failed++
	}

	_ = m.bar.Add(1)
}

// InFlight returns how many requests are currently running.
func (m *Manager) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inFlight)
}

// Counts returns completed, passed, and failed totals so far.
func (m *Manager) Counts() (completed, passed, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed, m.passed, m.failed
}

// Finish closes out the bar and prints the pass/fail tally.
func (m *Manager) Finish() {
	if !m.enabled {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.bar.Finish()
	elapsed := time.Since(m.startTime).Round(time.Second)
	fmt.Fprintf(os.Stderr, "Completed %d/%d requests in %s (%d ok, %d failed)\n",
		m.completed, m.total, elapsed, m.passed, m.failed)
}

// IsEnabled reports whether the display is active.
func (m *Manager) IsEnabled() bool {
	return m.enabled
}
