// Package camtest provides deterministic fakes for camera devices, displays
// and clocks, for testing code that drives a camera without hardware.
package camtest

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera"
)

// Clock is a manual lapsecam.Clock. Sleep advances the time instead of
// blocking.
type Clock struct {
	mutex sync.Mutex
	now   time.Time
	slept time.Duration
}

// NewClock returns a clock set to start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

var _ lapsecam.Clock = (*Clock)(nil)

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

// Sleep advances the clock by d.
func (c *Clock) Sleep(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
	c.slept += d
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

// Slept returns the total time passed to Sleep.
func (c *Clock) Slept() time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.slept
}

// Device is a fake camera. Its resolution can be set to any size accepted by
// Accept. Reads return a constant frame of the current size.
type Device struct {
	// Accept reports whether the device takes the given resolution. If nil,
	// every resolution is accepted.
	Accept func(width, height int) bool

	// OnRead is called at the start of every Read, eg to advance a clock. If
	// it returns an error, Read returns that error.
	OnRead func(n int) error

	// CloseErr is returned by Close.
	CloseErr error

	// Counters, for checking how the device was used.
	Reads  int
	Closed int
	Sets   []lapsecam.Resolution // Resolution after each Set of a dimension.

	width, height int
	pendingWidth  int
	framerate     float64
}

// NewDevice returns a device with the given initial resolution.
func NewDevice(width, height int) *Device {
	return &Device{width: width, height: height, pendingWidth: width, framerate: 30}
}

var _ camera.Device = (*Device)(nil)

// Read returns a uniformly gray frame of the current resolution.
func (d *Device) Read() (camera.Frame, error) {
	d.Reads++
	if d.OnRead != nil {
		if err := d.OnRead(d.Reads); err != nil {
			return nil, err
		}
	}
	if d.Closed > 0 {
		return nil, fmt.Errorf("read on closed device: %w", lapsecam.ErrNoFrame)
	}
	return camera.ImageFrame{Image: imaging.New(d.width, d.height, color.Gray{0x80})}, nil
}

// Set changes width or height. As with real drivers, a resolution is only
// applied as a whole: setting the width is remembered, and both dimensions
// change on setting the height if Accept takes the pair. Setting only the
// width is applied if Accept takes it with the current height.
func (d *Device) Set(p camera.Property, value float64) {
	v := int(value)
	switch p {
	case camera.FrameWidth:
		d.pendingWidth = v
		if d.accepts(v, d.height) {
			d.width = v
		}
	case camera.FrameHeight:
		if d.accepts(d.pendingWidth, v) {
			d.width, d.height = d.pendingWidth, v
		}
	case camera.FrameRate:
		d.framerate = value
		return
	}
	d.Sets = append(d.Sets, lapsecam.Resolution{Width: d.width, Height: d.height})
}

func (d *Device) accepts(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	return d.Accept == nil || d.Accept(w, h)
}

// Get returns the resolution or frame rate in effect.
func (d *Device) Get(p camera.Property) float64 {
	switch p {
	case camera.FrameWidth:
		return float64(d.width)
	case camera.FrameHeight:
		return float64(d.height)
	case camera.FrameRate:
		return d.framerate
	}
	return 0
}

// Close counts the number of times the device is closed, and returns
// CloseErr.
func (d *Device) Close() error {
	d.Closed++
	return d.CloseErr
}

// Opener returns an opener that hands out dev for every index. Opened counts
// the calls.
func Opener(dev camera.Device, opened *int) camera.Opener {
	return func(index int) (camera.Device, error) {
		if opened != nil {
			*opened++
		}
		return dev, nil
	}
}

// FailingOpener returns an opener that always fails like a missing device.
func FailingOpener() camera.Opener {
	return func(index int) (camera.Device, error) {
		return nil, &lapsecam.DeviceError{Index: index, Err: fmt.Errorf("no such device")}
	}
}

// Display is a fake display that returns scripted keys.
type Display struct {
	// Keys returns the key for the given poll, starting at 1. If nil, no
	// keys are pressed.
	Keys func(poll int) camera.Key

	Shown  int
	Polls  int
	Closed int
}

var _ camera.Display = (*Display)(nil)

// Show counts the frame.
func (d *Display) Show(f camera.Frame) {
	d.Shown++
}

// PollKey returns the scripted key for this poll.
func (d *Display) PollKey(wait time.Duration) camera.Key {
	d.Polls++
	if d.Keys == nil {
		return camera.NoKey
	}
	return d.Keys(d.Polls)
}

// Close counts the number of times the display is closed.
func (d *Display) Close() error {
	d.Closed++
	return nil
}

// KeyScript returns a Keys function that presses key k at poll n, as given
// in script, and no key otherwise.
func KeyScript(script map[int]camera.Key) func(int) camera.Key {
	return func(poll int) camera.Key {
		if k, ok := script[poll]; ok {
			return k
		}
		return camera.NoKey
	}
}
