package app

import "time"

// NewSequence returns an IDGenerator seeded from the clock in Unix milliseconds.
// Each ID is at least one greater than the last, so adds within one tick never collide.
func NewSequence(clock Clock) IDGenerator {
	if clock == nil {
		clock = time.Now
	}
	var last int64
	return func() int64 {
		next := clock().UnixMilli()
		if next <= last {
			next = last + 1
		}
		last = next
		return next
	}
}
