// Package capture implements the time-lapse capture loop: it shows camera
// frames, lets the user toggle recording with the keyboard, and saves a frame
// to a numbered file whenever the frame interval has passed.
package capture

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera"
)

// DefaultDigits is the zero-padding width used when Options.Digits is 0.
const DefaultDigits = 8

// How long to wait after a read that delivered no frame.
const readBackoff = 200 * time.Millisecond

// Number of FPS measurements averaged.
const fpsHistory = 5

// Options for a capture session.
type Options struct {
	Prefix    string               // File name prefix, can include a directory, eg "video/frame_".
	Interval  time.Duration        // Minimum time between saved frames.
	Start     int                  // Index of the first saved frame.
	Digits    int                  // Zero-padding width, raised when the index outgrows it.
	Ext       string               // Image type, "jpg" (default) or "png".
	Target    *lapsecam.Resolution // If set, resolution to request from the device.
	FrameRate float64              // If > 0, frame rate to request from the device.
	Verbose   bool

	// Clock for the loop, lapsecam.SystemClock if nil.
	Clock lapsecam.Clock
}

// Session is a capture session on an open device. A session is used from one
// goroutine.
type Session struct {
	dev   camera.Device
	opts  Options
	clock lapsecam.Clock

	dir  string // Absolute output directory.
	base string // File name prefix within dir.

	startPad  int
	pad       int
	next      int // Index of the next frame to save.
	saved     int
	widenedAt int // First index written with a wider pad, -1 if the pad did not change.

	sched  *Scheduler
	closed bool
}

// Open opens camera index and starts a session on it. Failing to open the
// camera results in a *lapsecam.DeviceError.
func Open(open camera.Opener, index int, opts Options) (*Session, error) {
	dev, err := open(index)
	if err != nil {
		var derr *lapsecam.DeviceError
		if !errors.As(err, &derr) {
			err = &lapsecam.DeviceError{Index: index, Err: err}
		}
		return nil, err
	}
	s, err := NewSession(dev, opts)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return s, nil
}

// NewSession starts a session on an open device. The output directory is
// created and the requested resolution and frame rate are set. The device is
// owned by the session from now on, even if NewSession fails the caller must
// close it.
func NewSession(dev camera.Device, opts Options) (*Session, error) {
	if opts.Ext == "" {
		opts.Ext = "jpg"
	}
	if opts.Ext != "jpg" && opts.Ext != "png" {
		return nil, fmt.Errorf("image type must be jpg or png, not %q", opts.Ext)
	}
	if opts.Digits == 0 {
		opts.Digits = DefaultDigits
	}
	if opts.Digits < 0 {
		return nil, fmt.Errorf("digits must be > 0")
	}
	if opts.Start < 0 {
		return nil, fmt.Errorf("start number must be >= 0")
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("interval must be >= 0")
	}

	s := &Session{
		dev:       dev,
		opts:      opts,
		clock:     opts.Clock,
		next:      opts.Start,
		widenedAt: -1,
	}
	if s.clock == nil {
		s.clock = lapsecam.SystemClock{}
	}
	s.pad = PadFor(opts.Start, opts.Digits)
	s.startPad = s.pad
	if s.pad != opts.Digits {
		log.Printf("start number %d needs %d digits, using %d instead of %d", opts.Start, s.pad, s.pad, opts.Digits)
	}

	var err error
	s.dir, s.base, err = lapsecam.OutputDir(opts.Prefix)
	if err != nil {
		return nil, err
	}
	log.Printf("starting with image index %d", s.next)
	log.Printf("first frame will be %s, written to %s", Filename(s.base, s.next, s.pad, opts.Ext), s.dir)

	s.configure()
	return s, nil
}

func (s *Session) resolution() string {
	return fmt.Sprintf("%v x %v", s.dev.Get(camera.FrameWidth), s.dev.Get(camera.FrameHeight))
}

// configure requests the target resolution and frame rate. A device that
// does not honor them is not an error.
func (s *Session) configure() {
	log.Printf("current resolution: %s", s.resolution())
	if t := s.opts.Target; t != nil {
		s.dev.Set(camera.FrameWidth, float64(t.Width))
		s.dev.Set(camera.FrameHeight, float64(t.Height))
		log.Printf("new resolution: %s", s.resolution())
		if s.dev.Get(camera.FrameWidth) != float64(t.Width) || s.dev.Get(camera.FrameHeight) != float64(t.Height) {
			log.Printf("camera did not accept resolution %s", t)
		}
	} else {
		log.Printf("no target resolution, camera not changed")
	}
	if s.opts.FrameRate > 0 {
		s.dev.Set(camera.FrameRate, s.opts.FrameRate)
		log.Printf("frame rate: requested %v, now %v", s.opts.FrameRate, s.dev.Get(camera.FrameRate))
	}
}

// Dir returns the absolute output directory.
func (s *Session) Dir() string {
	return s.dir
}

// Next returns the index of the next frame to save.
func (s *Session) Next() int {
	return s.next
}

// Pad returns the current zero-padding width.
func (s *Session) Pad() int {
	return s.pad
}

// Run shows frames on display and saves frames while recording, until q is
// pressed. Space toggles recording, f prints the display frame rate. Run
// takes ownership of display: when Run returns, also after a panic, the
// device is released and the display closed.
func (s *Session) Run(display camera.Display) (rerr error) {
	defer func() {
		if err := display.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing display: %v", err)
		}
	}()
	defer func() {
		if err := s.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()
	if s.closed {
		return fmt.Errorf("session closed")
	}

	start := s.clock.Now()
	if s.sched == nil {
		s.sched = NewScheduler(s.opts.Interval, start)
	}
	meter, err := lapsecam.NewFPSMeter(fpsHistory, start)
	if err != nil {
		return err
	}

	log.Printf("recording (hit space on image window to toggle): %v", s.sched.State() == Recording)
	for {
		frame, err := s.dev.Read()
		if err != nil || frame == nil {
			log.Printf("warning, no data received: %v", err)
			s.clock.Sleep(readBackoff)
			// Keep handling keys, so q works while the camera delivers nothing.
			if s.handleKey(display.PollKey(time.Millisecond), meter) {
				return nil
			}
			continue
		}

		display.Show(frame)
		meter.Frame()
		if s.handleKey(display.PollKey(time.Millisecond), meter) {
			return nil
		}

		now := s.clock.Now()
		if s.sched.Due(now) {
			s.save(frame, now)
		}
	}
}

// handleKey acts on a key press, and reports whether the loop should quit.
func (s *Session) handleKey(k camera.Key, meter *lapsecam.FPSMeter) bool {
	switch ActionFor(k) {
	case Quit:
		log.Printf("recording stopped")
		return true
	case Toggle:
		log.Printf("recording: %v", s.sched.Toggle() == Recording)
	case MeasureFPS:
		fps, avg := meter.Measure(s.clock.Now())
		log.Printf("current display fps: %.3f (average of last %d: %.3f)", fps, fpsHistory, avg)
	}
	return false
}

// save writes frame to the next file name. The index only advances if the
// file was written.
func (s *Session) save(frame camera.Frame, now time.Time) {
	name := filepath.Join(s.dir, Filename(s.base, s.next, s.pad, s.opts.Ext))
	if s.opts.Verbose {
		log.Printf("\tsaving frame to: %s", name)
	}
	if err := frame.WriteFile(name); err != nil {
		log.Printf("warning, saving frame: %v", err)
		return
	}
	s.sched.Saved(now)
	s.next++
	s.saved++
	if pad := PadFor(s.next, s.pad); pad != s.pad {
		log.Printf("frame index %d needs %d digits, widening file names", s.next, pad)
		s.pad = pad
		if s.widenedAt < 0 {
			s.widenedAt = s.next
		}
	}
}

// Close releases the device. Close can be called multiple times, the device
// is released once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.dev.Close(); err != nil {
		return fmt.Errorf("releasing camera: %v", err)
	}
	log.Printf("camera shutdown")
	return nil
}

// Summary describes the frames a session wrote.
type Summary struct {
	Prefix    string // Prefix as given in the options.
	Start     int    // Index of the first frame.
	Pad       int    // Zero-padding width of the first frame.
	Ext       string
	Saved     int // Number of frames written.
	WidenedAt int // First index with a wider pad, or -1.
	FinalPad  int // Zero-padding width of frames from WidenedAt on.
}

// Summary returns a summary of the frames written so far.
func (s *Session) Summary() Summary {
	return Summary{
		Prefix:    s.opts.Prefix,
		Start:     s.opts.Start,
		Pad:       s.startPad,
		Ext:       s.opts.Ext,
		Saved:     s.saved,
		WidenedAt: s.widenedAt,
		FinalPad:  s.pad,
	}
}
