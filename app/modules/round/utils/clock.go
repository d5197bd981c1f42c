package roundutil

import "time"

// Clock abstracts the current time so lifecycle timestamps can be pinned in tests.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time    { return time.Now() }
func (RealClock) NowUTC() time.Time { return time.Now().UTC() }
