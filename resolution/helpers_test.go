package resolution_test

import (
	"github.com/lapsecam/lapsecam/camera"
	"github.com/lapsecam/lapsecam/camera/camtest"
)

// roundingDevice reports sizes rounded down to a multiple of 8 plus a
// fraction, like drivers that adjust instead of refusing.
type roundingDevice struct {
	*camtest.Device
}

func (d *roundingDevice) Get(p camera.Property) float64 {
	v := d.Device.Get(p)
	if p == camera.FrameWidth && int(v)%8 != 0 {
		return float64(int(v)/8*8) + 0.5
	}
	return v
}
