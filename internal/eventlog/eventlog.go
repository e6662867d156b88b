// Package eventlog keeps a bounded in-memory trail of pipeline events
// for the diagnostics endpoint. The log is an injected dependency with
// an explicit constructor, never package-level state, so tests and
// services each own their instance.
package eventlog

import (
	"sync"
	"time"
)

// Event is one recorded pipeline occurrence.
type Event struct {
	At      time.Time `json:"at"`
	JobID   string    `json:"job_id,omitempty"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
}

// Log is a fixed-capacity ring of events. When full, the oldest event
// is overwritten. Safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	ring  []Event
	next  int
	count int
}

// New creates a Log holding at most capacity events. Capacity below 1
// is raised to 1.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{ring: make([]Event, capacity)}
}

// Record appends an event, evicting the oldest when the ring is full.
func (l *Log) Record(jobID, stage, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ring[l.next] = Event{
		At:      time.Now(),
		JobID:   jobID,
		Stage:   stage,
		Message: message,
	}
	l.next = (l.next + 1) % len(l.ring)
	if l.count < len(l.ring) {
		l.count++
	}
}

// Events returns the retained events, oldest first.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, 0, l.count)
	start := l.next - l.count
	if start < 0 {
		start += len(l.ring)
	}
	for i := 0; i < l.count; i++ {
		out = append(out, l.ring[(start+i)%len(l.ring)])
	}
	return out
}

// Len reports how many events are retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
