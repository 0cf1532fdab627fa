package lapsecam

import (
	"fmt"
	"time"
)

// FPSMeter measures the display frame rate between two calls to Measure,
// and keeps a moving average over the last measurements.
type FPSMeter struct {
	since  time.Time
	frames int

	// Ring of the last measurements, for smoothing.
	index  int
	count  int
	sum    float64
	values []float64
}

// NewFPSMeter returns a meter that starts counting at start and averages the
// last size measurements.
func NewFPSMeter(size int, start time.Time) (*FPSMeter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size must be > 0")
	}
	return &FPSMeter{since: start, values: make([]float64, size)}, nil
}

// Frame counts one displayed frame.
func (m *FPSMeter) Frame() {
	m.frames++
}

// Measure returns the frame rate since the previous Measure (or the start),
// and the average of the last measurements including this one. The frame
// count is reset.
// If no time has passed, the rate is 0.
func (m *FPSMeter) Measure(now time.Time) (fps, avg float64) {
	if m.values == nil {
		// Zero meter, behave like a meter of size 1.
		m.values = make([]float64, 1)
	}
	elapsed := now.Sub(m.since).Seconds()
	if elapsed > 0 {
		fps = float64(m.frames) / elapsed
	}
	m.since = now
	m.frames = 0

	m.sum -= m.values[m.index]
	m.sum += fps
	m.values[m.index] = fps
	m.index++
	if m.index >= len(m.values) {
		m.index = 0
	}
	if m.count < len(m.values) {
		m.count++
	}
	return fps, m.sum / float64(m.count)
}
