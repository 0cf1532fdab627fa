package resolution_test

import (
	"bytes"
	"errors"
	"log"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera/camtest"
	"github.com/lapsecam/lapsecam/resolution"
)

func TestProbe(t *testing.T) {
	dev := camtest.NewDevice(320, 240)
	dev.Accept = func(w, h int) bool {
		return w == 640 && h == 480 || w == 1920 && h == 1080
	}
	catalog := resolution.Catalog{
		{Width: 1920, Height: 1080},
		{Width: 800, Height: 600},
		{Width: 640, Height: 480},
	}
	orig := append(resolution.Catalog{}, catalog...)

	var opened int
	valid, err := resolution.Probe(camtest.Opener(dev, &opened), 0, catalog)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	exp := resolution.Catalog{{Width: 1920, Height: 1080}, {Width: 640, Height: 480}}
	if !reflect.DeepEqual(valid, exp) {
		t.Fatalf("got %v, expected %v", valid, exp)
	}
	if opened != 1 || dev.Closed != 1 {
		t.Fatalf("opened %d and closed %d times, expected once each", opened, dev.Closed)
	}
	if !reflect.DeepEqual(catalog, orig) {
		t.Fatalf("catalog modified: %v", catalog)
	}

	// Empty catalog still opens and releases the camera.
	dev = camtest.NewDevice(320, 240)
	valid, err = resolution.Probe(camtest.Opener(dev, nil), 0, nil)
	if err != nil || len(valid) != 0 || dev.Closed != 1 {
		t.Fatalf("empty probe, got %v %v, closed %d", valid, err, dev.Closed)
	}

	_, err = resolution.Probe(camtest.FailingOpener(), 2, catalog)
	var derr *lapsecam.DeviceError
	if !errors.As(err, &derr) || derr.Index != 2 {
		t.Fatalf("expected device error, got %v", err)
	}
}

// A device that rounds to a nearby size is not accepted.
func TestProbeInexact(t *testing.T) {
	dev := &roundingDevice{camtest.NewDevice(640, 480)}
	valid, err := resolution.Probe(camtest.Opener(dev, nil), 0, resolution.Catalog{{Width: 641, Height: 480}, {Width: 640, Height: 480}})
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(valid) != 1 || valid[0] != (lapsecam.Resolution{Width: 640, Height: 480}) {
		t.Fatalf("got %v", valid)
	}
}

func TestProbeCloseError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	dev := camtest.NewDevice(640, 480)
	dev.CloseErr = errors.New("device busy")
	valid, err := resolution.Probe(camtest.Opener(dev, nil), 4, resolution.Catalog{{Width: 640, Height: 480}})
	if err != nil || len(valid) != 1 {
		t.Fatalf("probe, got %v %v", valid, err)
	}
	if dev.Closed != 1 {
		t.Fatalf("closed %d times", dev.Closed)
	}
	if !strings.Contains(buf.String(), "releasing camera 4: device busy") {
		t.Fatalf("close error not logged, log:\n%s", buf.String())
	}
}
