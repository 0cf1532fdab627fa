// Package config holds the settings of the capture and probe commands. They
// can come from a YAML file, and are validated before any camera is opened.
package config

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lapsecam/lapsecam"
)

// Config are the settings for a capture run.
type Config struct {
	Prefix           string  `yaml:"prefix"`
	LagSeconds       float64 `yaml:"lag_seconds"`
	StartNumber      int     `yaml:"start_number"`
	Camera           int     `yaml:"camera"`
	Type             string  `yaml:"type"`
	Resolution       string  `yaml:"resolution"`
	SelectResolution bool    `yaml:"select_resolution"`
	Digits           int     `yaml:"digits"`
	FPS              float64 `yaml:"fps"`
	Backend          string  `yaml:"backend"`
	Device           string  `yaml:"device"`
	NoNetwork        bool    `yaml:"no_network"`
	Cache            string  `yaml:"cache"`
	Verbose          bool    `yaml:"verbose"`
}

// Backends that can be configured.
const (
	BackendGocv   = "gocv"
	BackendFfmpeg = "ffmpeg"
)

// Default returns the default settings.
func Default() Config {
	return Config{
		Prefix:     "frame_",
		LagSeconds: 15,
		Type:       "jpg",
		Digits:     8,
		Backend:    BackendGocv,
		Cache:      "common_resolutions.json",
	}
}

// Load reads a YAML config file on top of the defaults. Unknown keys are an
// error.
func Load(path string) (Config, error) {
	c := Default()
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %v", err)
	}
	if err := c.parse(buf); err != nil {
		return c, fmt.Errorf("parsing config %s: %v", path, err)
	}
	return c, nil
}

func (c *Config) parse(buf []byte) error {
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	return dec.Decode(c)
}

// ValidationError describes an invalid setting.
type ValidationError struct {
	Field  string
	Reason string
}

// Error returns a human-readable description.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the settings, returning a *ValidationError for the first
// invalid one.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return &ValidationError{"prefix", "must not be empty"}
	}
	if c.LagSeconds < 0 {
		return &ValidationError{"lag_seconds", "must be >= 0"}
	}
	if c.StartNumber < 0 {
		return &ValidationError{"start_number", "must be >= 0"}
	}
	if c.Camera < 0 {
		return &ValidationError{"camera", "must be >= 0"}
	}
	if c.Type != "jpg" && c.Type != "png" {
		return &ValidationError{"type", fmt.Sprintf("image type must be jpg or png, not %q", c.Type)}
	}
	if c.Resolution != "" {
		if c.SelectResolution {
			return &ValidationError{"resolution", "cannot be combined with select_resolution"}
		}
		if _, err := lapsecam.ParseResolution(c.Resolution); err != nil {
			return &ValidationError{"resolution", err.Error()}
		}
	}
	if c.Digits < 1 {
		return &ValidationError{"digits", "must be >= 1"}
	}
	if c.FPS < 0 {
		return &ValidationError{"fps", "must be >= 0"}
	}
	switch c.Backend {
	case BackendGocv, BackendFfmpeg:
	default:
		return &ValidationError{"backend", fmt.Sprintf("unknown backend %q, need gocv or ffmpeg", c.Backend)}
	}
	return nil
}

// Lag returns the frame interval.
func (c *Config) Lag() time.Duration {
	return time.Duration(c.LagSeconds * float64(time.Second))
}

// Target returns the explicitly configured resolution, or nil.
func (c *Config) Target() *lapsecam.Resolution {
	if c.Resolution == "" {
		return nil
	}
	r, err := lapsecam.ParseResolution(c.Resolution)
	if err != nil {
		return nil
	}
	return &r
}
