package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/detection-tools/internal/detection"
	"github.com/ironsheep/detection-tools/internal/geometry"
	"github.com/ironsheep/detection-tools/internal/imaging"
	"github.com/ironsheep/detection-tools/internal/labels"
)

// ErrMissingGeometry is returned when a 3D box has no PGP record for its image.
var ErrMissingGeometry = errors.New("missing PGP record")

const (
	// DefaultConfidence is the minimum confidence drawn unless overridden.
	DefaultConfidence = 0.5

	// LineWidth is the stroke width of every box edge, in pixels.
	LineWidth = 2
)

// Face colours of projected 3D boxes.
var (
	FrontColor = color.RGBA{0x00, 0xFF, 0x00, 0xFF}
	RearColor  = color.RGBA{0xFF, 0x00, 0x00, 0xFF}
)

// Renderer draws detections onto canvases.
type Renderer struct {
	Classes   labels.Classes
	Threshold float64
}

// NewRenderer returns a Renderer using the given label classes and threshold.
func NewRenderer(classes labels.Classes, threshold float64) Renderer {
	return Renderer{Classes: classes, Threshold: threshold}
}

// Round converts a coordinate to the nearest pixel, halves away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

func pixel(p r2.Point) image.Point {
	return image.Pt(Round(p.X), Round(p.Y))
}

// Draw renders every box with confidence at or above the threshold and
// returns how many were drawn.
//
// 2D boxes become rectangles. 3D boxes are reconstructed with pgp, drawn as
// wireframes and, when view is not nil, added to the plan view. A 3D box
// without pgp yields ErrMissingGeometry. A box whose footprint does not meet
// the ground is logged and skipped.
func (r Renderer) Draw(c imaging.Canvas, boxes []detection.Box, pgp *geometry.PGP, view *PlanView) (int, error) {
	drawn := 0
	for _, box := range detection.Confident(boxes, r.Threshold) {
		_, col, err := r.Classes.Resolve(box.Meta().Label)
		if err != nil {
			return drawn, err
		}

		switch b := box.(type) {
		case detection.BoundingBox2D:
			r.drawBox2D(c, b, col)

		case detection.BoundingBox3D:
			if pgp == nil {
				return drawn, fmt.Errorf("%w for %s", ErrMissingGeometry, b.Key)
			}
			corners, err := pgp.ReconstructBox3D(b)
			if err != nil {
				log.Warnf("Skipping %s box in %s: %v", b.Label, b.Key, err)
				continue
			}
			r.drawBox3D(c, pgp, corners, col)
			if view != nil {
				if err := view.AddFootprint(corners, col); err != nil {
					return drawn, err
				}
			}

		default:
			return drawn, fmt.Errorf("unsupported box type %T", box)
		}
		drawn++
	}
	return drawn, nil
}

func (r Renderer) drawBox2D(c imaging.Canvas, b detection.BoundingBox2D, col color.RGBA) {
	rect := image.Rectangle{
		Min: image.Pt(Round(b.XMin), Round(b.YMin)),
		Max: image.Pt(Round(b.XMax), Round(b.YMax)),
	}
	c.Rectangle(rect, col, LineWidth)
}

func (r Renderer) drawBox3D(c imaging.Canvas, pgp *geometry.PGP, corners geometry.Box3D, col color.RGBA) {
	px := pgp.ProjectBox(corners)

	edges := func(es []geometry.Edge, ec color.RGBA) {
		for _, e := range es {
			c.Line(pixel(px[e.From]), pixel(px[e.To]), ec, LineWidth)
		}
	}
	edges(geometry.FrontFace, FrontColor)
	edges(geometry.RearFace, RearColor)
	edges(geometry.SideEdges, col)
}
