package camera

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ImageFrame is a Frame holding a decoded image.
type ImageFrame struct {
	image.Image
}

// WriteFile encodes the image as JPEG or PNG, depending on the extension of
// name.
func (f ImageFrame) WriteFile(name string) error {
	if f.Image == nil {
		return fmt.Errorf("writing %s: empty frame", name)
	}
	if err := imaging.Save(f.Image, name, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("writing %s: %v", name, err)
	}
	return nil
}

var _ Frame = ImageFrame{}
