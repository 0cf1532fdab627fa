// Package camera defines the capabilities the capture loop and the resolution
// prober need from a camera: reading frames, setting and reading back
// properties, showing frames and polling keys. Backends live in the
// subpackages.
package camera

import (
	"time"
)

// Property is a numeric device property.
type Property int

// Properties that can be set and read back. Setting a property may silently
// have no effect, callers must read it back to know what is in effect.
const (
	FrameWidth Property = iota
	FrameHeight
	FrameRate
)

// String returns the name of the property.
func (p Property) String() string {
	switch p {
	case FrameWidth:
		return "frame width"
	case FrameHeight:
		return "frame height"
	case FrameRate:
		return "frame rate"
	}
	return "unknown property"
}

// Device is an open camera.
type Device interface {
	// Read returns the next frame. The frame is only valid until the next
	// call to Read. A read that delivers no data returns an error wrapping
	// lapsecam.ErrNoFrame.
	Read() (Frame, error)

	// Set attempts to set a property. It reports nothing, use Get to see
	// which value is in effect.
	Set(p Property, value float64)

	// Get returns the current value of a property.
	Get(p Property) float64

	// Close releases the device.
	Close() error
}

// Opener opens the camera with the given index.
type Opener func(index int) (Device, error)

// Frame is a single image read from a Device.
type Frame interface {
	// WriteFile encodes the frame into the named file. The image format is
	// picked from the file extension.
	WriteFile(name string) error
}

// Key is a key press as returned by Display.PollKey.
type Key int

// NoKey is returned by PollKey when no key was pressed.
const NoKey Key = -1

// Display shows frames to the user and delivers key presses.
type Display interface {
	// Show displays the frame.
	Show(f Frame)

	// PollKey waits at most wait for a key press.
	PollKey(wait time.Duration) Key

	// Close removes the display.
	Close() error
}
