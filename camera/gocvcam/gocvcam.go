// Package gocvcam implements a camera device and a display window with
// OpenCV, through gocv.
package gocvcam

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"gocv.io/x/gocv"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera"
)

// Opts has options for opening a device.
type Opts struct {
	// On Windows, DirectShow opens cameras much faster and releases them
	// cleanly. Set NoDirectShow to use the OpenCV default instead.
	NoDirectShow bool
}

// Device is a camera opened with OpenCV.
type Device struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

var _ camera.Device = (*Device)(nil)

// Open opens the camera with the given index.
// Callers must call Close to release the camera.
func Open(index int, opts *Opts) (*Device, error) {
	var xopts Opts
	if opts != nil {
		xopts = *opts
	}

	var vc *gocv.VideoCapture
	var err error
	if runtime.GOOS == "windows" && !xopts.NoDirectShow {
		vc, err = gocv.OpenVideoCaptureWithAPI(index, gocv.VideoCaptureDshow)
	} else {
		vc, err = gocv.OpenVideoCapture(index)
	}
	if err != nil {
		return nil, &lapsecam.DeviceError{Index: index, Err: err}
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, &lapsecam.DeviceError{Index: index, Err: fmt.Errorf("device not opened")}
	}
	return &Device{capture: vc, frame: gocv.NewMat()}, nil
}

// Opener returns a camera.Opener for Open with opts.
func Opener(opts *Opts) camera.Opener {
	return func(index int) (camera.Device, error) {
		d, err := Open(index, opts)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

func property(p camera.Property) gocv.VideoCaptureProperties {
	switch p {
	case camera.FrameWidth:
		return gocv.VideoCaptureFrameWidth
	case camera.FrameHeight:
		return gocv.VideoCaptureFrameHeight
	case camera.FrameRate:
		return gocv.VideoCaptureFPS
	}
	panic(fmt.Sprintf("unknown property %d", p))
}

// Read grabs the next frame into the device's buffer. The returned frame
// shares that buffer.
func (d *Device) Read() (camera.Frame, error) {
	if ok := d.capture.Read(&d.frame); !ok || d.frame.Empty() {
		return nil, lapsecam.ErrNoFrame
	}
	return &Frame{&d.frame}, nil
}

// Set sets a capture property. OpenCV may ignore it.
func (d *Device) Set(p camera.Property, value float64) {
	d.capture.Set(property(p), value)
}

// Get returns the value of a capture property.
func (d *Device) Get(p camera.Property) float64 {
	return d.capture.Get(property(p))
}

// Close releases the camera and the frame buffer.
func (d *Device) Close() error {
	d.frame.Close()
	return d.capture.Close()
}

// Frame is a frame read by a Device.
type Frame struct {
	mat *gocv.Mat
}

// WriteFile writes the frame with OpenCV's image writer.
func (f *Frame) WriteFile(name string) error {
	if !gocv.IMWrite(name, *f.mat) {
		return fmt.Errorf("writing %s: opencv could not write image", name)
	}
	return nil
}

// WindowOpts has options for a new window.
type WindowOpts struct {
	Verbose bool
}

// Window is a display window with OpenCV's highgui.
type Window struct {
	window *gocv.Window
	opts   WindowOpts

	convertFailed bool // Whether a failed conversion was logged.
}

var _ camera.Display = (*Window)(nil)

// NewWindow opens a window with the given title.
func NewWindow(title string, opts *WindowOpts) *Window {
	w := &Window{window: gocv.NewWindow(title)}
	if opts != nil {
		w.opts = *opts
	}
	return w
}

func (w *Window) logf(format string, args ...interface{}) {
	if w.opts.Verbose {
		log.Printf(format, args...)
	}
}

// Show displays the frame. Frames that did not come from a Device are
// converted first.
func (w *Window) Show(f camera.Frame) {
	switch x := f.(type) {
	case *Frame:
		w.window.IMShow(*x.mat)
	case camera.ImageFrame:
		mat, err := gocv.ImageToMatRGB(x.Image)
		if err != nil {
			w.conversionError(err)
			return
		}
		defer mat.Close()
		w.window.IMShow(mat)
	}
}

// conversionError logs the first frame that could not be converted for
// display. Such frames are not shown.
func (w *Window) conversionError(err error) {
	if w.convertFailed {
		return
	}
	w.convertFailed = true
	w.logf("cannot show frame, converting image: %v (further errors not logged)", err)
}

// PollKey runs the window event loop for wait (at least 1ms) and returns the
// key pressed, if any.
func (w *Window) PollKey(wait time.Duration) camera.Key {
	ms := int(wait / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	k := w.window.WaitKey(ms)
	if k < 0 {
		return camera.NoKey
	}
	return camera.Key(k & 0xff)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}
