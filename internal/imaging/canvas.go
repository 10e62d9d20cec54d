package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
)

// Canvas is a raster image that boxes are drawn onto.
//
// Line and Rectangle take integer pixel coordinates; callers round. Shapes
// partly or wholly outside the image are clipped, never rejected.
type Canvas interface {
	// Bounds returns the image rectangle.
	Bounds() image.Rectangle

	// Line draws a straight segment from p0 to p1 with the given stroke width.
	Line(p0, p1 image.Point, c color.RGBA, width int)

	// Rectangle draws the unfilled outline of r with corners r.Min and r.Max.
	Rectangle(r image.Rectangle, c color.RGBA, width int)

	// Save encodes the canvas to path, choosing the format by extension.
	Save(path string) error

	// Close releases resources held by the canvas.
	Close() error
}

// RGBACanvas is the pure-Go Canvas.
type RGBACanvas struct {
	img *image.RGBA
}

// NewRGBACanvas returns a canvas holding a mutable copy of img.
func NewRGBACanvas(img image.Image) *RGBACanvas {
	return &RGBACanvas{img: clone.AsRGBA(img)}
}

// Image returns the underlying pixels.
func (c *RGBACanvas) Image() *image.RGBA {
	return c.img
}

// Bounds implements Canvas.
func (c *RGBACanvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Line implements Canvas using Bresenham's algorithm with a square brush.
func (c *RGBACanvas) Line(p0, p1 image.Point, col color.RGBA, width int) {
	if width < 1 {
		width = 1
	}

	// Clip to the image grown by the brush so huge projected coordinates
	// do not turn into huge loops.
	clip := c.img.Bounds().Inset(-width)
	x0, y0, x1, y1, ok := clipSegment(
		float64(p0.X), float64(p0.Y), float64(p1.X), float64(p1.Y),
		float64(clip.Min.X), float64(clip.Min.Y), float64(clip.Max.X-1), float64(clip.Max.Y-1),
	)
	if !ok {
		return
	}
	ax, ay := int(math.Round(x0)), int(math.Round(y0))
	bx, by := int(math.Round(x1)), int(math.Round(y1))

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}

	err := dx + dy
	for {
		c.stamp(ax, ay, col, width)
		if ax == bx && ay == by {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ax += sx
		}
		if e2 <= dx {
			err += dx
			ay += sy
		}
	}
}

// Rectangle implements Canvas.
func (c *RGBACanvas) Rectangle(r image.Rectangle, col color.RGBA, width int) {
	tl := r.Min
	br := r.Max
	tr := image.Pt(br.X, tl.Y)
	bl := image.Pt(tl.X, br.Y)

	c.Line(tl, tr, col, width)
	c.Line(tr, br, col, width)
	c.Line(br, bl, col, width)
	c.Line(bl, tl, col, width)
}

// Save implements Canvas.
func (c *RGBACanvas) Save(path string) error {
	return imaging.Save(c.img, path, imaging.JPEGQuality(95))
}

// Close implements Canvas.
func (c *RGBACanvas) Close() error {
	return nil
}

// stamp paints a width x width square whose top-left is offset by -width/2.
func (c *RGBACanvas) stamp(x, y int, col color.RGBA, width int) {
	bounds := c.img.Bounds()
	lo := -width / 2
	for dy := lo; dy < lo+width; dy++ {
		for dx := lo; dx < lo+width; dx++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(bounds) {
				c.img.SetRGBA(p.X, p.Y, col)
			}
		}
	}
}

// clipSegment clips a segment to the closed box [minX,maxX]x[minY,maxY]
// (Liang-Barsky). ok is false when nothing of the segment remains.
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
