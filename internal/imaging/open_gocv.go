//go:build gocv

package imaging

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Backend names the rasteriser compiled into this binary.
const Backend = "opencv"

// MatCanvas draws with OpenCV, matching cv::line and cv::rectangle pixel for pixel.
type MatCanvas struct {
	mat gocv.Mat
}

// OpenCanvas loads the image at path into an OpenCV-backed Canvas.
func OpenCanvas(path string) (Canvas, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("failed to load image %s", path)
	}
	return &MatCanvas{mat: mat}, nil
}

// Bounds implements Canvas.
func (c *MatCanvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.mat.Cols(), c.mat.Rows())
}

// Line implements Canvas. gocv converts the RGBA colour to OpenCV's BGR order.
func (c *MatCanvas) Line(p0, p1 image.Point, col color.RGBA, width int) {
	gocv.Line(&c.mat, p0, p1, col, width)
}

// Rectangle implements Canvas.
func (c *MatCanvas) Rectangle(r image.Rectangle, col color.RGBA, width int) {
	gocv.Rectangle(&c.mat, r, col, width)
}

// Save implements Canvas.
func (c *MatCanvas) Save(path string) error {
	if !gocv.IMWrite(path, c.mat) {
		return fmt.Errorf("failed to write image %s", path)
	}
	return nil
}

// Close implements Canvas.
func (c *MatCanvas) Close() error {
	return c.mat.Close()
}
