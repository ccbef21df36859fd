// Package download implements the polymorphic download engine: a
// bounded-concurrency job runner, per-item monitors, and the downloadable
// variants (pre-hashed, checksum-sidecar, etag/md5, asset, runtime-file)
// that share one fetch/verify/decompress skeleton.
package download

import (
	"sync"
	"time"
)

// Monitor tracks one item's current/total progress, status line, and
// timestamps. It is safe for concurrent use: updates are cheap and
// protected by a mutex, and every mutation invokes onChange (if set) so a
// Job's aggregator can fan in.
type Monitor struct {
	mu sync.Mutex

	status    string
	current   int64
	total     int64
	startedAt time.Time
	endedAt   time.Time
	started   bool
	done      bool

	onChange func()
}

// NewMonitor returns a zero-value Monitor. Use SetOnChange before any other
// mutation so the first update is observed by the aggregator.
func NewMonitor() *Monitor { return &Monitor{} }

// SetOnChange installs the fan-in callback. Must be called before Start.
func (m *Monitor) SetOnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *Monitor) fire() {
	if m.onChange != nil {
		m.onChange()
	}
}

// Start marks the item as begun, recording a start timestamp.
func (m *Monitor) Start() {
	m.mu.Lock()
	m.started = true
	m.startedAt = time.Now()
	m.mu.Unlock()
	m.fire()
}

// SetStatus updates the human-readable status line.
func (m *Monitor) SetStatus(status string) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	m.fire()
}

// SetTotal updates the known total size.
func (m *Monitor) SetTotal(total int64) {
	m.mu.Lock()
	m.total = total
	m.mu.Unlock()
	m.fire()
}

// AddProgress adds n to the current amount completed.
func (m *Monitor) AddProgress(n int64) {
	m.mu.Lock()
	m.current += n
	m.mu.Unlock()
	m.fire()
}

// Finish marks the item done. The final monitor value is forced to the
// item's total regardless of how much progress was actually observed, so
// the aggregator's sum never stalls below 100%.
func (m *Monitor) Finish() {
	m.mu.Lock()
	m.current = m.total
	m.done = true
	m.endedAt = time.Now()
	m.mu.Unlock()
	m.fire()
}

// Snapshot is a point-in-time read of a Monitor's fields.
type Snapshot struct {
	Status    string
	Current   int64
	Total     int64
	StartedAt time.Time
	Started   bool
	Done      bool
}

// Snapshot returns a copy of the monitor's current state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Status:    m.status,
		Current:   m.current,
		Total:     m.total,
		StartedAt: m.startedAt,
		Started:   m.started,
		Done:      m.done,
	}
}
