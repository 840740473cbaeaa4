package uci

import "time"

// CalculateAllocatedTime turns remaining clock time and increment into a
// per-move budget: keep a reserve of max(left/20, 50ms) so the flag never
// falls, and spend about a thirtieth of the clock plus half the increment.
func CalculateAllocatedTime(timeLeft, increment time.Duration) time.Duration {
	if timeLeft == 0 {
		return 0
	}

	reserve := timeLeft / 20
	if reserve < 50*time.Millisecond {
		reserve = 50 * time.Millisecond
	}

	maxTime := time.Duration(0)
	if timeLeft > reserve {
		maxTime = timeLeft - reserve
	}

	allocated := timeLeft/30 + increment/2
	if allocated > maxTime {
		allocated = maxTime
	}

	return allocated
}
