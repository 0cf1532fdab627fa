// Package ffmpeg implements a camera device by running ffmpeg against a V4L2
// device. Ffmpeg writes JPEG images to a temporary directory, which is
// watched for new files.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera"
)

var errInstallHint = errors.New("executable not found, install with: sudo apt install -y ffmpeg v4l-utils")

// Opts has options for a new ffmpeg device.
type Opts struct {
	Verbose  bool
	DeviceID string        // As retrieved from ListDevices. If empty, Open uses the first device returned by ListDevices.
	Timeout  time.Duration // How long to wait for a frame. Default 3s.

	// Command to run, default "ffmpeg".
	Command string
}

// Device is a camera device using ffmpeg.
type Device struct {
	opts    Opts
	tempDir string
	watcher *fsnotify.Watcher
	frames  chan runFrame
	cancel  context.CancelFunc

	mutex  sync.Mutex // Protects run, read by the watcher goroutine.
	run    int        // Sequence number of the ffmpeg process, part of the file names.
	closed bool

	// Requested and running settings. A restart is needed when they differ.
	want, running         lapsecam.Resolution
	wantRate, runningRate float64
	started               bool

	pending image.Image // Frame received by Get, returned by the next Read.
	size    image.Point // Size of the last frame received from the running process.
}

var _ camera.Device = (*Device)(nil)

// runFrame is a decoded image with the sequence number of the ffmpeg process
// that wrote it.
type runFrame struct {
	run int
	img image.Image
}

// ListDevices returns a list of devices that can be used for recording.
// ListDevices returns an error if no devices are available.
func ListDevices() ([]camera.Info, error) {
	cmd := exec.Command("v4l2-ctl", "--list-devices")
	buf, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = errInstallHint
		}
		return nil, fmt.Errorf("listing devices using v4l2-ctl: %v", err)
	}
	return parseDevices(string(buf))
}

func parseDevices(s string) ([]camera.Info, error) {
	var curDevice string
	devices := []camera.Info{}
	for _, line := range strings.Split(s, "\n") {
		if !strings.HasPrefix(line, "\t") {
			curDevice = strings.TrimSuffix(strings.TrimSpace(line), ":")
			continue
		}
		if curDevice == "" || strings.HasPrefix(curDevice, "bcm2835-") {
			continue
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "/dev/video") {
			// Media controller nodes like /dev/media0 cannot capture.
			continue
		}
		devices = append(devices, camera.Info{
			Name: fmt.Sprintf("%s (%s)", curDevice, line),
			ID:   line,
		})
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices available")
	}
	return devices, nil
}

// Opener returns a camera.Opener that opens /dev/video<index>, or
// opts.DeviceID if it is set.
func Opener(opts Opts) camera.Opener {
	return func(index int) (camera.Device, error) {
		o := opts
		if o.DeviceID == "" {
			o.DeviceID = fmt.Sprintf("/dev/video%d", index)
		}
		d, err := Open(o)
		if err != nil {
			return nil, &lapsecam.DeviceError{Index: index, Device: o.DeviceID, Err: err}
		}
		return d, nil
	}
}

// Open prepares a device. Ffmpeg is started at the first Read or Get, so a
// resolution can be set first without restarting ffmpeg.
//
// Callers must call Close to clean up.
func Open(opts Opts) (device *Device, rerr error) {
	d := &Device{opts: opts}
	if d.opts.Timeout <= 0 {
		d.opts.Timeout = 3 * time.Second
	}
	if d.opts.Command == "" {
		d.opts.Command = "ffmpeg"
	}

	if d.opts.DeviceID == "" {
		devs, err := ListDevices()
		if err != nil {
			return nil, fmt.Errorf("listing devices: %v", err)
		}
		d.opts.DeviceID = devs[0].ID
	}
	if _, err := os.Stat(d.opts.DeviceID); err != nil {
		return nil, fmt.Errorf("device: %v", err)
	}
	if _, err := exec.LookPath(d.opts.Command); err != nil {
		return nil, errInstallHint
	}

	// Ensure cleanup in case of failure.
	defer func() {
		if rerr != nil {
			d.Close()
		}
	}()

	tempDir, err := lapsecam.TempDir()
	if err != nil {
		return nil, fmt.Errorf("making temp dir: %v", err)
	}
	d.tempDir = tempDir
	d.logf("ffmpeg device %s, writing images to tempdir %s", d.opts.DeviceID, d.tempDir)

	d.frames = make(chan runFrame, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new file change watcher: %v", err)
	}
	d.watcher = watcher
	go d.watch()

	if err := watcher.Add(d.tempDir); err != nil {
		return nil, fmt.Errorf("registering file change watcher for temp dir: %v", err)
	}
	return d, nil
}

func (d *Device) logf(format string, args ...interface{}) {
	if d.opts.Verbose {
		log.Printf(format, args...)
	}
}

func (d *Device) filePrefix(run int) string {
	return fmt.Sprintf("run%d-", run)
}

// watch decodes the images ffmpeg writes, and keeps only the newest of the
// current run in d.frames.
func (d *Device) watch() {
	for {
		select {
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Write == 0 || !strings.HasSuffix(ev.Name, ".jpg") {
				continue
			}
			d.mutex.Lock()
			run := d.run
			d.mutex.Unlock()
			if !strings.HasPrefix(filepath.Base(ev.Name), d.filePrefix(run)) {
				os.Remove(ev.Name)
				continue
			}
			f, err := os.Open(ev.Name)
			if err != nil {
				d.logf("open written file %q: %v", ev.Name, err)
				continue
			}
			img, err := jpeg.Decode(f)
			f.Close()
			if err != nil {
				d.logf("decoding jpeg %q: %v (may be partially written)", ev.Name, err)
				continue
			}
			if err := os.Remove(ev.Name); err != nil {
				d.logf("removing image %s: %v", ev.Name, err)
			}
			// Replace an unread older frame.
			select {
			case <-d.frames:
			default:
			}
			select {
			case d.frames <- runFrame{run, img}:
			default:
			}

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logf("watching for changes: %v", err)
		}
	}
}

func (d *Device) args(run int) []string {
	args := []string{"-loglevel", "error", "-f", "v4l2"}
	if d.wantRate > 0 {
		args = append(args, "-framerate", fmt.Sprintf("%v", d.wantRate))
	}
	if d.want.Valid() {
		args = append(args, "-video_size", d.want.String())
	}
	args = append(args,
		"-i", d.opts.DeviceID,
		"-f", "image2",
		"-qscale:v", "2",
		d.filePrefix(run)+"%06d.jpg",
	)
	return args
}

// ensureStarted (re)starts ffmpeg if it isn't running or if the requested
// settings changed.
func (d *Device) ensureStarted() error {
	if d.closed {
		return fmt.Errorf("device closed")
	}
	if d.started && d.want == d.running && d.wantRate == d.runningRate {
		return nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	d.mutex.Lock()
	d.run++
	run := d.run
	d.mutex.Unlock()

	// Frames of the previous run have the wrong settings.
	select {
	case <-d.frames:
	default:
	}
	d.pending = nil
	d.size = image.Point{}

	args := d.args(run)
	d.logf("starting %s with args %s", d.opts.Command, args)

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, d.opts.Command, args...)
	cmd.Dir = d.tempDir
	if d.opts.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		cancel()
		if errors.Is(err, exec.ErrNotFound) {
			err = errInstallHint
		}
		return fmt.Errorf("starting command %s: %v", d.opts.Command, err)
	}
	go cmd.Wait()
	d.cancel = cancel
	d.started = true
	d.running = d.want
	d.runningRate = d.wantRate
	return nil
}

// next returns the pending frame or waits for a frame of the current run.
// A restart can happen while the watcher decodes a frame of the previous run,
// such frames are dropped.
func (d *Device) next(timeout time.Duration) (image.Image, error) {
	if d.pending != nil {
		img := d.pending
		d.pending = nil
		return img, nil
	}
	d.mutex.Lock()
	run := d.run
	d.mutex.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case f := <-d.frames:
			if f.run != run {
				d.logf("dropping frame of previous ffmpeg run %d", f.run)
				continue
			}
			d.size = f.img.Bounds().Size()
			return f.img, nil
		case <-timer.C:
			return nil, fmt.Errorf("waiting %v for image from %s: %w", timeout, d.opts.Command, lapsecam.ErrNoFrame)
		}
	}
}

// Read returns the newest frame written by ffmpeg.
func (d *Device) Read() (camera.Frame, error) {
	if err := d.ensureStarted(); err != nil {
		return nil, err
	}
	img, err := d.next(d.opts.Timeout)
	if err != nil {
		return nil, err
	}
	return camera.ImageFrame{Image: img}, nil
}

// Set records a requested setting. Ffmpeg is restarted with the new settings
// on the next Read or Get.
func (d *Device) Set(p camera.Property, value float64) {
	switch p {
	case camera.FrameWidth:
		d.want.Width = int(value)
	case camera.FrameHeight:
		d.want.Height = int(value)
	case camera.FrameRate:
		d.wantRate = value
	}
}

// Get returns the width or height of the frames ffmpeg currently delivers,
// waiting for a first frame if needed. If ffmpeg delivers no frames, eg
// because the device refused the size, Get returns 0. For the frame rate,
// the requested rate is returned (0 for the device default), ffmpeg does not
// report whether it was honored.
func (d *Device) Get(p camera.Property) float64 {
	if p == camera.FrameRate {
		return d.runningRate
	}
	if err := d.ensureStarted(); err != nil {
		d.logf("get %s: %v", p, err)
		return 0
	}
	if d.size == (image.Point{}) {
		img, err := d.next(d.opts.Timeout)
		if err != nil {
			d.logf("get %s: %v", p, err)
			return 0
		}
		d.pending = img
	}
	switch p {
	case camera.FrameWidth:
		return float64(d.size.X)
	case camera.FrameHeight:
		return float64(d.size.Y)
	}
	return 0
}

// Close stops ffmpeg and removes the temporary directory.
func (d *Device) Close() error {
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	if d.watcher != nil {
		d.watcher.Close()
	}
	if d.tempDir != "" {
		os.RemoveAll(d.tempDir)
	}
	return nil
}
