package resolution

import (
	"errors"
	"log"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera"
)

// Probe opens camera index and tries every resolution of catalog, in order.
// A resolution is kept if the width and height read back after setting both
// equal the requested values exactly. The camera is closed when done.
// Failing to open the camera results in a *lapsecam.DeviceError.
func Probe(open camera.Opener, index int, catalog Catalog) (Catalog, error) {
	log.Printf("probing camera %d with %d resolutions...", index, len(catalog))
	dev, err := open(index)
	if err != nil {
		var derr *lapsecam.DeviceError
		if !errors.As(err, &derr) {
			err = &lapsecam.DeviceError{Index: index, Err: err}
		}
		return nil, err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Printf("releasing camera %d: %v", index, err)
		}
	}()

	valid := Catalog{}
	for _, r := range catalog {
		if accepts(dev, r) {
			valid = append(valid, r)
		}
	}
	log.Printf("found %d valid resolutions", len(valid))
	return valid, nil
}

func accepts(dev camera.Device, r lapsecam.Resolution) bool {
	dev.Set(camera.FrameWidth, float64(r.Width))
	dev.Set(camera.FrameHeight, float64(r.Height))
	width := dev.Get(camera.FrameWidth)
	height := dev.Get(camera.FrameHeight)
	return width == float64(r.Width) && height == float64(r.Height)
}
