package camera

// Cap describes a frame size and rate a device reports it can deliver.
type Cap struct {
	Width     int
	Height    int
	Framerate int
}

// Info describes a camera device found while listing devices.
type Info struct {
	Name string
	ID   string // Eg a device path like /dev/video0.
	Caps []Cap
}
