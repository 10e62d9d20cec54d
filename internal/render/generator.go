package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/detection-tools/internal/detection"
	"github.com/ironsheep/detection-tools/internal/geometry"
	"github.com/ironsheep/detection-tools/internal/imaging"
)

// ErrModeMismatch is returned when the detections do not match the render mode.
var ErrModeMismatch = errors.New("detection kind does not match render mode")

// PlanViewSuffix is appended to an image's stem to name its plan view.
const PlanViewSuffix = "_xz.pdf"

// Generator renders a sequence of images with their detections into OutDir.
//
// With Geometry nil it runs in 2D mode and expects only BBTXT boxes; with
// Geometry set it runs in 3D mode, expects only BB3TXT boxes, and also
// writes a plan view per image.
type Generator struct {
	Renderer Renderer
	Resolver detection.PathResolver
	Geometry geometry.Set
	OutDir   string

	// Open loads a canvas; defaults to imaging.OpenCanvas.
	Open func(path string) (imaging.Canvas, error)
}

// Stats summarises a run.
type Stats struct {
	Frames int
	Boxes  int
}

// Is3D reports whether the generator projects 3D boxes.
func (g *Generator) Is3D() bool {
	return g.Geometry != nil
}

// Run renders every key in order and stops at the first error.
func (g *Generator) Run(set detection.Set, keys []string) (Stats, error) {
	var stats Stats

	if err := g.checkKinds(set); err != nil {
		return stats, err
	}

	for i, key := range keys {
		log.Infof("Processing frame %d: %s", i, key)
		n, err := g.Frame(key, set[key])
		if err != nil {
			return stats, err
		}
		stats.Frames++
		stats.Boxes += n
	}
	return stats, nil
}

func (g *Generator) checkKinds(set detection.Set) error {
	want := detection.Kind2D
	if g.Is3D() {
		want = detection.Kind3D
	}
	for kind, n := range set.Kinds() {
		if kind != want && n > 0 {
			return fmt.Errorf("%w: %d %s boxes in %s mode", ErrModeMismatch, n, kind, want)
		}
	}
	return nil
}

// Frame renders one image and returns the number of boxes drawn.
func (g *Generator) Frame(key string, boxes []detection.Box) (int, error) {
	var (
		pgp  *geometry.PGP
		view *PlanView
	)
	if g.Is3D() {
		var ok bool
		pgp, ok = g.Geometry[key]
		if !ok {
			return 0, fmt.Errorf("%w for %s", ErrMissingGeometry, key)
		}
		var err error
		view, err = NewPlanView(pgp.Camera())
		if err != nil {
			return 0, err
		}
	}

	open := g.Open
	if open == nil {
		open = imaging.OpenCanvas
	}
	canvas, err := open(g.Resolver.Resolve(key))
	if err != nil {
		return 0, err
	}
	defer canvas.Close()

	n, err := g.Renderer.Draw(canvas, boxes, pgp, view)
	if err != nil {
		return n, err
	}

	base := filepath.Base(key)
	if err := canvas.Save(filepath.Join(g.OutDir, base)); err != nil {
		return n, fmt.Errorf("failed to write %s: %w", base, err)
	}

	if view != nil {
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if err := view.Save(filepath.Join(g.OutDir, stem+PlanViewSuffix)); err != nil {
			return n, err
		}
	}
	return n, nil
}
