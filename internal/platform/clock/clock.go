package clock

import "time"

// System reads the wall clock. It satisfies ports.Clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}
