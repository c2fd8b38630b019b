package core

import "time"

// Clock returns the current time. Transitions read time only through a Clock.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func (c Clock) millis() int64 {
	return c.now().UnixMilli()
}
