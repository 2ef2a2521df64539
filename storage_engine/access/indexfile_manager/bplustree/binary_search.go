package bplus

// lowerBound returns the first i in [0, n) with key(i) >= target, or n.
func lowerBound(n int, key func(i int) int32, target int32) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if key(mid) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first i in [0, n) with key(i) > target, or n.
func upperBound(n int, key func(i int) int32, target int32) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if key(mid) <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
