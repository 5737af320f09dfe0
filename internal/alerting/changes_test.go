package alerting

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangeTracker_FirstObservationIsNotAChange(t *testing.T) {
	t.Parallel()

	tr := NewChangeTracker()
	now := time.Now()

	assert.False(t, tr.Observe(1, "Status", "ok", now))
	assert.False(t, tr.Observe(1, "Status", "ok", now.Add(time.Minute)))
	assert.True(t, tr.Observe(1, "Status", "down", now.Add(2*time.Minute)))
	assert.False(t, tr.Observe(1, "Status", "down", now.Add(3*time.Minute)))
}

func TestChangeTracker_KeysAreScopedPerRuleAndField(t *testing.T) {
	t.Parallel()

	tr := NewChangeTracker()
	now := time.Now()

	tr.Observe(1, "Status", "ok", now)
	assert.False(t, tr.Observe(2, "Status", "down", now), "another rule's field is a separate key")
	assert.False(t, tr.Observe(1, "Health", "down", now), "another field is a separate key")
	assert.True(t, tr.Observe(1, "Status", "down", now.Add(time.Minute)))
}

func TestChangeTracker_StaleObservationExpires(t *testing.T) {
	t.Parallel()

	tr := NewChangeTracker()
	now := time.Now()

	tr.Observe(1, "Status", "ok", now)
	// A value last seen over maxObservationAge ago no longer counts as a
	// baseline, so even a different value is not a change.
	assert.False(t, tr.Observe(1, "Status", "down", now.Add(25*time.Hour)))
	// The expired observation was replaced, so the comparison works again.
	assert.True(t, tr.Observe(1, "Status", "ok", now.Add(25*time.Hour+time.Minute)))
}

func TestChangeTracker_Forget(t *testing.T) {
	t.Parallel()

	tr := NewChangeTracker()
	now := time.Now()

	tr.Observe(1, "Status", "ok", now)
	tr.Observe(1, "Health", "green", now)
	tr.Observe(2, "Status", "ok", now)

	tr.Forget(1)

	assert.False(t, tr.Observe(1, "Status", "down", now.Add(time.Minute)), "forgotten keys start over")
	assert.True(t, tr.Observe(2, "Status", "down", now.Add(time.Minute)), "other rules keep their state")
}

func TestChangeTracker_EvictionKeepsFreshEntries(t *testing.T) {
	t.Parallel()

	tr := NewChangeTracker()
	old := time.Now().Add(-48 * time.Hour)
	now := time.Now()

	for i := 0; i < maxTrackedFields; i++ {
		tr.Observe(uint(i), "f"+strconv.Itoa(i), "v", old)
	}
	tr.Observe(9999, "fresh", "v1", now)

	// The stale bulk was evicted to make room; the fresh key survives and
	// still compares.
	assert.True(t, tr.Observe(9999, "fresh", "v2", now.Add(time.Minute)))
}
