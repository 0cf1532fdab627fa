package capture

import (
	"time"

	"github.com/lapsecam/lapsecam/camera"
)

// State of the capture loop.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Action is what the loop does in response to a key.
type Action int

const (
	None Action = iota
	Quit
	Toggle
	MeasureFPS
)

// ActionFor maps a key press to an action.
func ActionFor(k camera.Key) Action {
	if k == camera.NoKey {
		return None
	}
	switch k & 0xff {
	case 'q':
		return Quit
	case ' ':
		return Toggle
	case 'f':
		return MeasureFPS
	}
	return None
}

// Scheduler decides when a frame is saved. A frame is due when recording and
// more than the interval has passed since the last save (or since the
// scheduler was created, if nothing was saved yet).
type Scheduler struct {
	state    State
	interval time.Duration
	last     time.Time
}

// NewScheduler returns an idle scheduler.
func NewScheduler(interval time.Duration, start time.Time) *Scheduler {
	return &Scheduler{Idle, interval, start}
}

// State returns the current state.
func (s *Scheduler) State() State {
	return s.state
}

// Toggle switches between Idle and Recording and returns the new state.
func (s *Scheduler) Toggle() State {
	if s.state == Idle {
		s.state = Recording
	} else {
		s.state = Idle
	}
	return s.state
}

// Due reports whether a frame should be saved at now.
func (s *Scheduler) Due(now time.Time) bool {
	return s.state == Recording && now.Sub(s.last) > s.interval
}

// Saved records that a frame was saved at now.
func (s *Scheduler) Saved(now time.Time) {
	s.last = now
}
