// Package lapsecam holds the types shared by the time-lapse capture loop and
// the resolution prober: resolutions, errors, a clock, an FPS meter and
// directory helpers.
package lapsecam

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolution is a frame size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// String returns the resolution as WIDTHxHEIGHT.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Valid reports whether both dimensions are positive.
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// ParseResolution parses a WIDTHxHEIGHT string, eg "1280x720". Both
// dimensions must be positive integers.
func ParseResolution(s string) (Resolution, error) {
	t := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(t) != 2 {
		return Resolution{}, fmt.Errorf("resolution %q: need WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(t[0])
	if err != nil {
		return Resolution{}, fmt.Errorf("resolution %q: bad width: %v", s, err)
	}
	h, err := strconv.Atoi(t[1])
	if err != nil {
		return Resolution{}, fmt.Errorf("resolution %q: bad height: %v", s, err)
	}
	r := Resolution{w, h}
	if !r.Valid() {
		return Resolution{}, fmt.Errorf("resolution %q: width and height must be > 0", s)
	}
	return r, nil
}
