// Package stats implements the decayed moving statistics tracker and the
// z-score evaluator that sit at the heart of trend detection.
package stats

import (
	"fmt"
	"math"

	"github.com/huangsam/trendspot/schema"
)

// Snapshot is a read-only view of an item's decayed statistics. WarmedUp is
// false until the item has absorbed at least one point; until then the mean
// and variance are undefined and the point cannot be scored yet.
type Snapshot struct {
	Mean     float64
	Variance float64
	WarmedUp bool
}

// StdDev returns the decayed standard deviation for the snapshot.
func (s Snapshot) StdDev() float64 {
	return math.Sqrt(s.Variance)
}

// DecayStats holds the exponentially decayed running mean and variance for a
// single item. Updates are O(1) in time and memory; no history is retained.
// A DecayStats must only ever be updated by one goroutine at a time, with the
// item's points applied in timestamp order.
type DecayStats struct {
	mean     float64
	variance float64
	count    int
}

// Observe absorbs one point and returns the snapshot from just before the
// update, so the caller can score the point against history that excludes
// the point itself. The first point initializes the mean and returns a
// snapshot that is not warmed up.
func (d *DecayStats) Observe(alpha, value float64) Snapshot {
	prior := d.Snapshot()

	d.count++
	if d.count == 1 {
		d.mean = value
		d.variance = 0
		return prior
	}

	// Exponentially weighted mean/variance recurrence. The variance form
	// keeps sigma^2 >= 0 for any alpha in (0, 1] and any prior state.
	diff := value - d.mean
	incr := alpha * diff
	d.mean += incr
	d.variance = (1 - alpha) * (d.variance + diff*incr)

	return prior
}

// Snapshot returns the current decayed statistics without mutating state.
func (d *DecayStats) Snapshot() Snapshot {
	return Snapshot{
		Mean:     d.mean,
		Variance: d.variance,
		WarmedUp: d.count > 0,
	}
}

// Count returns the number of points absorbed so far.
func (d *DecayStats) Count() int {
	return d.count
}

// Reset discards all accumulated state, as if the item were fresh.
func (d *DecayStats) Reset() {
	*d = DecayStats{}
}

// ValidateAlpha checks that a decay factor lies in (0, 1]. Out-of-range
// values fail fast; they are never clamped.
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha > 1 {
		return fmt.Errorf("%w: decay factor must be in (0, 1], got %v", schema.ErrInvalidConfiguration, alpha)
	}
	return nil
}

// Tracker maintains DecayStats per item under one shared decay factor.
// Items are fully independent; a Tracker itself is not safe for concurrent
// use, so parallel callers shard items across trackers (one per worker).
type Tracker struct {
	alpha float64
	items map[string]*DecayStats
}

// NewTracker creates a tracker with the given decay factor, which is the
// weight given to the newest observation when updating the running mean.
func NewTracker(alpha float64) (*Tracker, error) {
	if err := ValidateAlpha(alpha); err != nil {
		return nil, err
	}
	return &Tracker{
		alpha: alpha,
		items: make(map[string]*DecayStats),
	}, nil
}

// Alpha returns the configured decay factor.
func (t *Tracker) Alpha() float64 {
	return t.alpha
}

// Observe routes one point to the item's stats and returns the pre-update
// snapshot. Unknown items are created on first observation.
func (t *Tracker) Observe(item string, value float64) Snapshot {
	d, ok := t.items[item]
	if !ok {
		d = &DecayStats{}
		t.items[item] = d
	}
	return d.Observe(t.alpha, value)
}

// Stats returns the current snapshot for an item and whether it is tracked.
func (t *Tracker) Stats(item string) (Snapshot, bool) {
	d, ok := t.items[item]
	if !ok {
		return Snapshot{}, false
	}
	return d.Snapshot(), true
}

// Reset discards one item's state; subsequent observations behave as a
// fresh item. Resetting an untracked item is a no-op.
func (t *Tracker) Reset(item string) {
	delete(t.items, item)
}

// Len returns the number of items currently tracked.
func (t *Tracker) Len() int {
	return len(t.items)
}
