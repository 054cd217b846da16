package stats

import (
	"math"
	"testing"
)

// FuzzObserve fuzzes the decayed recurrence with random point sequences.
func FuzzObserve(f *testing.F) {
	seeds := []struct {
		alpha   float64
		a, b, c float64
	}{
		{0.9, 10, 10, 10},
		{0.5, 10, 20, 5},
		{1.0, 0, 100, -100},
		{0.1, 1e9, -1e9, 0},
	}
	for _, seed := range seeds {
		f.Add(seed.alpha, seed.a, seed.b, seed.c)
	}

	f.Fuzz(func(t *testing.T, alpha, a, b, c float64) {
		if ValidateAlpha(alpha) != nil {
			t.Skip()
		}
		d := &DecayStats{}
		for _, v := range []float64{a, b, c} {
			// Keep points in a range where the recurrence cannot overflow.
			if math.IsNaN(v) || math.Abs(v) > 1e100 {
				continue
			}
			prior := d.Observe(alpha, v)
			snap := d.Snapshot()
			if snap.Variance < 0 {
				t.Fatalf("negative variance %v after observing %v (alpha=%v)", snap.Variance, v, alpha)
			}
			z := Score(v, prior)
			if z.Valid && math.IsNaN(z.Value) {
				t.Fatalf("NaN z-score marked valid for value %v (alpha=%v)", v, alpha)
			}
		}
	})
}
