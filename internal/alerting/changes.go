package alerting

import (
	"strconv"
	"sync"
	"time"
)

const (
	// maxTrackedFields caps the tracker so unbounded rule/field
	// combinations cannot grow memory without limit.
	maxTrackedFields = 4096
	// maxObservationAge is how long a previous value stays valid.
	maxObservationAge = 24 * time.Hour
)

type observation struct {
	value string
	seen  time.Time
}

// ChangeTracker remembers the previously observed value per (rule, field)
// so the "changed" operator can compare across ticks. The pure evaluator
// has no cross-tick state and returns false for "changed"; the monitor
// consults this tracker instead.
type ChangeTracker struct {
	mu   sync.Mutex
	prev map[string]observation
}

// NewChangeTracker creates an empty ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{prev: make(map[string]observation)}
}

// Observe records the current value and reports whether it differs from the
// previously observed one. The first observation of a key reports false:
// with nothing to compare against, nothing has changed.
func (t *ChangeTracker) Observe(ruleID uint, field, value string, now time.Time) bool {
	key := strconv.FormatUint(uint64(ruleID), 10) + "|" + field

	t.mu.Lock()
	defer t.mu.Unlock()

	old, known := t.prev[key]
	if len(t.prev) >= maxTrackedFields && !known {
		t.evictStale(now)
	}
	t.prev[key] = observation{value: value, seen: now}

	if !known || now.Sub(old.seen) > maxObservationAge {
		return false
	}
	return old.value != value
}

// Forget drops all state for a rule, called when a rule is deleted.
func (t *ChangeTracker) Forget(ruleID uint) {
	prefix := strconv.FormatUint(uint64(ruleID), 10) + "|"
	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.prev {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(t.prev, key)
		}
	}
}

func (t *ChangeTracker) evictStale(now time.Time) {
	cutoff := now.Add(-maxObservationAge)
	for key, obs := range t.prev {
		if obs.seen.Before(cutoff) {
			delete(t.prev, key)
		}
	}
}
