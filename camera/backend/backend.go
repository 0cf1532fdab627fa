// Package backend selects a camera backend by name, for the commands.
package backend

import (
	"fmt"
	"io"

	"github.com/lapsecam/lapsecam/camera"
	"github.com/lapsecam/lapsecam/camera/ffmpeg"
	"github.com/lapsecam/lapsecam/camera/gocvcam"
)

// Names of the available backends.
const (
	Gocv   = "gocv"
	Ffmpeg = "ffmpeg"
)

// Opts configure a backend.
type Opts struct {
	Name    string // Gocv or Ffmpeg.
	Device  string // For ffmpeg, a device path overriding the camera index.
	Verbose bool
}

// Opener returns the opener for the named backend.
func Opener(opts Opts) (camera.Opener, error) {
	switch opts.Name {
	case Gocv, "":
		return gocvcam.Opener(nil), nil
	case Ffmpeg:
		return ffmpeg.Opener(ffmpeg.Opts{Verbose: opts.Verbose, DeviceID: opts.Device}), nil
	}
	return nil, fmt.Errorf("unknown backend %q", opts.Name)
}

// Display returns the display for the named backend: a window for gocv, and
// keys read from keys for ffmpeg, which has no window.
func Display(opts Opts, keys io.Reader) (camera.Display, error) {
	switch opts.Name {
	case Gocv, "":
		return gocvcam.NewWindow("frame", &gocvcam.WindowOpts{Verbose: opts.Verbose}), nil
	case Ffmpeg:
		return camera.NewTerminal(keys), nil
	}
	return nil, fmt.Errorf("unknown backend %q", opts.Name)
}

// ListDevices lists V4L2 capture devices with v4l2-ctl. OpenCV cannot list
// devices, its camera index N is the N of /dev/videoN.
func ListDevices() ([]camera.Info, error) {
	return ffmpeg.ListDevices()
}
