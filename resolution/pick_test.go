package resolution_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lapsecam/lapsecam"
	"github.com/lapsecam/lapsecam/camera/camtest"
	"github.com/lapsecam/lapsecam/resolution"
)

func TestPick(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.json")
	catalog := resolution.Catalog{{Width: 800, Height: 600}, {Width: 1024, Height: 768}, {Width: 1280, Height: 720}}
	if err := resolution.WriteCache(cachePath, catalog); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	dev := camtest.NewDevice(640, 480)
	dev.Accept = func(w, h int) bool { return w != 1024 }
	loader := &resolution.Loader{CachePath: cachePath}

	r, ok, err := resolution.Pick(context.Background(), loader, false, camtest.Opener(dev, nil), 0, strings.NewReader("2\n"), io.Discard)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if !ok || r != (lapsecam.Resolution{Width: 1280, Height: 720}) {
		t.Fatalf("got %v %v", r, ok)
	}
	if dev.Closed != 1 {
		t.Fatalf("camera closed %d times", dev.Closed)
	}

	loader = &resolution.Loader{CachePath: filepath.Join(dir, "missing.json")}
	_, _, err = resolution.Pick(context.Background(), loader, false, camtest.Opener(dev, nil), 0, strings.NewReader("1\n"), io.Discard)
	if !errors.Is(err, lapsecam.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}
