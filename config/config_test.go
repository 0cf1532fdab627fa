package config

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/lapsecam/lapsecam"
)

func TestDefaultValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Lag() != 15*time.Second || c.Target() != nil {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lapse.yaml")
	const s = `
prefix: video/frame_
lag_seconds: 0.5
start_number: 120
type: png
resolution: 1280x720
backend: ffmpeg
device: /dev/video2
`
	if err := ioutil.WriteFile(path, []byte(s), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Prefix != "video/frame_" || c.StartNumber != 120 || c.Type != "png" || c.Backend != BackendFfmpeg || c.Device != "/dev/video2" {
		t.Fatalf("unexpected config %+v", c)
	}
	// Unset keys keep their defaults.
	if c.Digits != 8 || c.Cache != "common_resolutions.json" {
		t.Fatalf("defaults lost: %+v", c)
	}
	if c.Lag() != 500*time.Millisecond {
		t.Fatalf("lag %v", c.Lag())
	}
	if r := c.Target(); r == nil || *r != (lapsecam.Resolution{Width: 1280, Height: 720}) {
		t.Fatalf("target %v", r)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	empty := filepath.Join(dir, "empty.yaml")
	ioutil.WriteFile(empty, []byte("\n"), 0644)
	if c, err := Load(empty); err != nil || c != Default() {
		t.Fatalf("empty config, got %+v %v", c, err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	ioutil.WriteFile(bad, []byte("lag: 5\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Fatalf("missing error for unknown key")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("missing error for absent file")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"prefix":       func(c *Config) { c.Prefix = "" },
		"lag_seconds":  func(c *Config) { c.LagSeconds = -1 },
		"start_number": func(c *Config) { c.StartNumber = -1 },
		"camera":       func(c *Config) { c.Camera = -2 },
		"type":         func(c *Config) { c.Type = "gif" },
		"resolution":   func(c *Config) { c.Resolution = "big" },
		"digits":       func(c *Config) { c.Digits = 0 },
		"fps":          func(c *Config) { c.FPS = -30 },
		"backend":      func(c *Config) { c.Backend = "v4l" },
	}
	for field, modify := range cases {
		c := Default()
		modify(&c)
		err := c.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != field {
			t.Errorf("%s: expected validation error for field, got %v", field, err)
		}
	}

	c := Default()
	c.Resolution = "640x480"
	c.SelectResolution = true
	if err := c.Validate(); err == nil {
		t.Fatalf("missing error for resolution with select")
	}
}
