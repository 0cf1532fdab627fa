package capture

import (
	"testing"
	"time"

	"github.com/lapsecam/lapsecam/camera"
)

func TestActionFor(t *testing.T) {
	cases := map[camera.Key]Action{
		'q':          Quit,
		' ':          Toggle,
		'f':          MeasureFPS,
		'x':          None,
		camera.NoKey: None,
		0x100 | 'q':  Quit, // Modifier bits are masked off.
	}
	for k, exp := range cases {
		if got := ActionFor(k); got != exp {
			t.Errorf("ActionFor(%d), got %d, expected %d", k, got, exp)
		}
	}
}

func TestScheduler(t *testing.T) {
	t0 := time.Unix(0, 0)
	s := NewScheduler(100*time.Millisecond, t0)
	if s.State() != Idle {
		t.Fatalf("new scheduler not idle")
	}
	if s.Due(t0.Add(time.Hour)) {
		t.Fatalf("idle scheduler is due")
	}
	if s.Toggle() != Recording {
		t.Fatalf("toggle did not start recording")
	}
	if s.Due(t0.Add(100 * time.Millisecond)) {
		t.Fatalf("due at exactly the interval")
	}
	now := t0.Add(101 * time.Millisecond)
	if !s.Due(now) {
		t.Fatalf("not due after the interval")
	}
	s.Saved(now)
	if s.Due(now.Add(50 * time.Millisecond)) {
		t.Fatalf("due too soon after save")
	}
	if !s.Due(now.Add(150 * time.Millisecond)) {
		t.Fatalf("not due after save and interval")
	}
	if s.Toggle() != Idle || s.Due(now.Add(time.Hour)) {
		t.Fatalf("toggle did not stop recording")
	}
	if s := State(Recording).String(); s != "recording" {
		t.Fatalf("state string %q", s)
	}
}
