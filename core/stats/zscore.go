package stats

import "math"

// ZScore is the result of evaluating one point against an item's history.
// Valid is false when the item had no prior history, in which case the point
// is excluded from ranking rather than treated as zero or maximally abnormal.
type ZScore struct {
	Value float64
	Valid bool
}

// Score converts a raw count plus the pre-update decayed statistics into a
// z-score. Pure function, no state.
//
// Zero variance means the item's history was perfectly constant: a matching
// value scores 0, while any deviation scores a signed infinite sentinel,
// which outranks every finite score of the same sign.
func Score(value float64, prior Snapshot) ZScore {
	if !prior.WarmedUp {
		return ZScore{}
	}
	if prior.Variance == 0 {
		switch {
		case value == prior.Mean:
			return ZScore{Value: 0, Valid: true}
		case value > prior.Mean:
			return ZScore{Value: math.Inf(1), Valid: true}
		default:
			return ZScore{Value: math.Inf(-1), Valid: true}
		}
	}
	return ZScore{Value: (value - prior.Mean) / math.Sqrt(prior.Variance), Valid: true}
}
