package core

import "time"

// Clock supplies the current time for token expiry decisions. Injectable so
// expiry logic is testable without waiting on real time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// nowMillis returns the clock reading as epoch milliseconds, the unit token
// expiries are expressed in.
func nowMillis(clock Clock) int64 {
	if clock == nil {
		clock = SystemClock{}
	}
	return clock.Now().UnixMilli()
}
