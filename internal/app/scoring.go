package app

import "time"

// Scoring constants. Base points fall off with each hint; a fast answer earns
// a flat bonus before streak multipliers apply.
const (
	MaxHints          = 5
	FastBonusWindow   = 5 * time.Second
	NearMissThreshold = 0.75
)

var basePoints = map[int]float64{
	1: 10,
	2: 8,
	3: 6,
	4: 4,
	5: 2,
}

// MilestoneThresholds are the daily point totals that trigger a one-time
// celebration per user per day, in ascending order.
var MilestoneThresholds = []int{50, 100, 150, 200}

// Points computes the score for a correct guess. Base plus fast-finger bonus
// first, streak multiplier last. Hint indices outside 1..5 score zero.
func Points(hintIndex int, elapsed time.Duration, streak int) float64 {
	base := basePoints[hintIndex]
	if base == 0 {
		return 0
	}
	if elapsed <= FastBonusWindow {
		base++
	}

	multiplier := 1.0
	switch {
	case streak >= 3:
		multiplier = 1.2
	case streak >= 2:
		multiplier = 1.1
	}
	return base * multiplier
}
