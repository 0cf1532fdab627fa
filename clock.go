package lapsecam

import (
	"time"
)

// Clock is the source of wall time for the capture loop. Tests substitute a
// manual clock.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is a Clock backed by package time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep calls time.Sleep.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

var _ Clock = SystemClock{}
