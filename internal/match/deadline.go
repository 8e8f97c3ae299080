package match

import (
	"math"
	"time"
)

// DefaultClosingSoonDays is the closing-soon window when none is configured.
const DefaultClosingSoonDays = 30

// DaysRemaining returns ceil(deadline - now) in whole 24h periods. Negative
// once the deadline is more than a day past; advancing now by one day always
// moves the result by exactly one. The clock is an explicit parameter so
// scoring stays deterministic under test.
func DaysRemaining(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// ClosingSoon reports whether the deadline is still open but falls within
// thresholdDays. A non-positive threshold uses the default window.
func ClosingSoon(deadline, now time.Time, thresholdDays int) bool {
	if thresholdDays <= 0 {
		thresholdDays = DefaultClosingSoonDays
	}
	d := DaysRemaining(deadline, now)
	return d > 0 && d <= thresholdDays
}
