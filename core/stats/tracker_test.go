package stats

import (
	"testing"

	"github.com/huangsam/trendspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewTracker tests decay factor validation.
func TestNewTracker(t *testing.T) {
	t.Run("valid alpha", func(t *testing.T) {
		for _, alpha := range []float64{0.001, 0.1, 0.5, 0.9, 1.0} {
			tr, err := NewTracker(alpha)
			require.NoError(t, err)
			assert.Equal(t, alpha, tr.Alpha())
		}
	})

	t.Run("invalid alpha", func(t *testing.T) {
		for _, alpha := range []float64{0, -0.5, 1.0001, 2} {
			_, err := NewTracker(alpha)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidConfiguration)
		}
	})
}

// TestObserveFirstPoint verifies that a single point yields zero variance
// and an undefined prior, for any alpha.
func TestObserveFirstPoint(t *testing.T) {
	for _, alpha := range []float64{0.1, 0.5, 1.0} {
		tr, err := NewTracker(alpha)
		require.NoError(t, err)

		prior := tr.Observe("sku-1", 42)
		assert.False(t, prior.WarmedUp)

		snap, ok := tr.Stats("sku-1")
		require.True(t, ok)
		assert.True(t, snap.WarmedUp)
		assert.Equal(t, 42.0, snap.Mean)
		assert.Equal(t, 0.0, snap.Variance)
	}
}

// TestObserveRecurrence checks the mean/variance update against hand-computed values.
func TestObserveRecurrence(t *testing.T) {
	tr, err := NewTracker(0.5)
	require.NoError(t, err)

	tr.Observe("sku-1", 10)
	prior := tr.Observe("sku-1", 20)

	// The prior reflects state before the second point was absorbed.
	assert.True(t, prior.WarmedUp)
	assert.Equal(t, 10.0, prior.Mean)
	assert.Equal(t, 0.0, prior.Variance)

	// mean = 10 + 0.5*10 = 15; var = (1-0.5)*(0 + 10*5) = 25
	snap, ok := tr.Stats("sku-1")
	require.True(t, ok)
	assert.InDelta(t, 15.0, snap.Mean, 1e-12)
	assert.InDelta(t, 25.0, snap.Variance, 1e-12)
	assert.InDelta(t, 5.0, snap.StdDev(), 1e-12)
}

// TestVarianceNonNegative feeds adversarial sequences and asserts the variance
// invariant holds throughout.
func TestVarianceNonNegative(t *testing.T) {
	sequences := [][]float64{
		{5, 5, 5, 5, 5},
		{0, 100, 0, 100, 0},
		{1, 2, 3, 4, 5, 4, 3, 2, 1},
		{1e9, 0, 1e9, 0},
	}
	for _, alpha := range []float64{0.05, 0.5, 1.0} {
		for _, seq := range sequences {
			d := &DecayStats{}
			for _, v := range seq {
				d.Observe(alpha, v)
				assert.GreaterOrEqual(t, d.Snapshot().Variance, 0.0)
			}
		}
	}
}

// TestObserveNotIdempotent guards against accidental memoization: feeding the
// same value twice must move state differently than feeding it once.
func TestObserveNotIdempotent(t *testing.T) {
	once := &DecayStats{}
	once.Observe(0.3, 10)
	once.Observe(0.3, 20)

	twice := &DecayStats{}
	twice.Observe(0.3, 10)
	twice.Observe(0.3, 20)
	twice.Observe(0.3, 20)

	assert.NotEqual(t, once.Snapshot(), twice.Snapshot())
	assert.Equal(t, 2, once.Count())
	assert.Equal(t, 3, twice.Count())
}

// TestStepConvergenceMonotoneInAlpha verifies that a larger alpha converges
// at least as fast to a step change: for a series jumping from constant 10 to
// constant 20, the points needed for the mean to cross 15 never increase with alpha.
func TestStepConvergenceMonotoneInAlpha(t *testing.T) {
	crossAfter := func(alpha float64) int {
		d := &DecayStats{}
		for range 20 {
			d.Observe(alpha, 10)
		}
		for i := 1; i <= 1000; i++ {
			d.Observe(alpha, 20)
			if d.Snapshot().Mean > 15 {
				return i
			}
		}
		return 1001
	}

	alphas := []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.0}
	prev := crossAfter(alphas[0])
	for _, alpha := range alphas[1:] {
		cur := crossAfter(alpha)
		assert.LessOrEqual(t, cur, prev, "alpha=%v", alpha)
		prev = cur
	}
}

// TestReset verifies reset discards state and the item behaves as fresh.
func TestReset(t *testing.T) {
	tr, err := NewTracker(0.5)
	require.NoError(t, err)

	tr.Observe("sku-1", 10)
	tr.Observe("sku-1", 20)
	tr.Reset("sku-1")

	_, ok := tr.Stats("sku-1")
	assert.False(t, ok)

	prior := tr.Observe("sku-1", 99)
	assert.False(t, prior.WarmedUp)
	assert.Equal(t, 1, tr.Len())
	snap, _ := tr.Stats("sku-1")
	assert.Equal(t, 99.0, snap.Mean)
}

// TestItemIndependence verifies that updates to one item never leak into another.
func TestItemIndependence(t *testing.T) {
	tr, err := NewTracker(0.2)
	require.NoError(t, err)

	tr.Observe("a", 10)
	tr.Observe("a", 50)
	tr.Observe("b", 3)

	snapB, ok := tr.Stats("b")
	require.True(t, ok)
	assert.Equal(t, 3.0, snapB.Mean)
	assert.Equal(t, 0.0, snapB.Variance)
	assert.Equal(t, 2, tr.Len())
}
