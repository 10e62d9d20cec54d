package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Load opens and decodes an image file, applying its EXIF orientation.
//
// Supported formats are those of github.com/disintegration/imaging: JPEG,
// PNG, GIF, BMP and TIFF.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return img, nil
}

// LoadCanvas loads an image file into a pure-Go RGBACanvas.
func LoadCanvas(path string) (*RGBACanvas, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewRGBACanvas(img), nil
}
