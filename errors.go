package lapsecam

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFrame is returned by a device read that delivered no data. It is
	// not fatal, callers back off briefly and read again.
	ErrNoFrame = errors.New("no frame data received")

	// ErrCatalogUnavailable is returned when neither the remote resolution
	// table nor the local cache could be loaded.
	ErrCatalogUnavailable = errors.New("resolution catalog unavailable")
)

// DeviceError is returned when a camera device cannot be opened.
type DeviceError struct {
	Index  int    // Camera index as passed to the opener.
	Device string // Device path or name, if the backend has one.
	Err    error  // Underlying error.
}

// Error returns a human-readable description of the failed open.
func (e *DeviceError) Error() string {
	if e.Device != "" {
		return fmt.Sprintf("opening camera %d (%s): %v", e.Index, e.Device, e.Err)
	}
	return fmt.Sprintf("opening camera %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Ensure DeviceError implements the error interface.
var _ error = (*DeviceError)(nil)
