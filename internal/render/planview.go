package render

import (
	"fmt"
	"image/color"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ironsheep/detection-tools/internal/geometry"
)

// Plan view window, in metres: x across, z ahead of the camera.
const (
	PlanXMin = -40.0
	PlanXMax = 40.0
	PlanZMin = -5.0
	PlanZMax = 75.0
)

// planSize is the starting edge length of the plan view page; Save grows
// one side so the data area comes out square.
const planSize = 6 * vg.Inch

var (
	cameraLineColor = color.RGBA{0xCC, 0xCC, 0xCC, 0xFF}
	cameraBoxColor  = color.RGBA{0x00, 0x00, 0x00, 0xFF}
)

// Footprint is a box's ground rectangle seen from above, corners ordered
// FBL FBR RBR RBL as (x, z).
type Footprint struct {
	Corners [4]r2.Point
	Color   color.RGBA
}

// PlanView is the top-down (x, z) plot of one image's camera and boxes.
type PlanView struct {
	plot       *plot.Plot
	camera     r3.Vector
	marker     *plotter.Polygon
	footprints []Footprint
}

// NewPlanView starts a plan view with the camera reference line and marker.
func NewPlanView(camera r3.Vector) (*PlanView, error) {
	p := plot.New()
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "z [m]"

	v := &PlanView{plot: p, camera: camera}

	axis := []r2.Point{{X: camera.X, Y: -10}, {X: camera.X, Y: 150}}
	if err := v.polyline(axis, cameraLineColor, 4); err != nil {
		return nil, err
	}

	// 2.5 m wide, 5 m long, centred on the camera
	cx, cz := camera.X, camera.Z
	marker, err := plotter.NewPolygon(plotter.XYs{
		{X: cx - 1.25, Y: cz - 2.5},
		{X: cx + 1.25, Y: cz - 2.5},
		{X: cx + 1.25, Y: cz + 2.5},
		{X: cx - 1.25, Y: cz + 2.5},
	})
	if err != nil {
		return nil, err
	}
	marker.Color = cameraBoxColor
	marker.LineStyle.Color = cameraBoxColor
	p.Add(marker)
	v.marker = marker
	return v, nil
}

// Camera returns the camera centre the view was built around.
func (v *PlanView) Camera() r3.Vector {
	return v.camera
}

// AddFootprint draws the ground rectangle of box: front edge green, rear
// edge red, sides in col.
func (v *PlanView) AddFootprint(box geometry.Box3D, col color.RGBA) error {
	xz := func(corner int) r2.Point {
		return r2.Point{X: box[corner].X, Y: box[corner].Z}
	}

	fp := Footprint{Color: col}
	for i, c := range []int{geometry.FBL, geometry.FBR, geometry.RBR, geometry.RBL} {
		fp.Corners[i] = xz(c)
	}

	edge := func(e geometry.Edge, ec color.RGBA) error {
		return v.polyline([]r2.Point{xz(e.From), xz(e.To)}, ec, LineWidth)
	}

	if err := edge(geometry.FootprintFront, FrontColor); err != nil {
		return err
	}
	for _, e := range geometry.FootprintSides {
		if err := edge(e, col); err != nil {
			return err
		}
	}
	if err := edge(geometry.FootprintRear, RearColor); err != nil {
		return err
	}

	v.footprints = append(v.footprints, fp)
	return nil
}

// Footprints returns the footprints added so far, in order.
func (v *PlanView) Footprints() []Footprint {
	return v.footprints
}

// Save writes the plan view to path; the extension selects the format.
func (v *PlanView) Save(path string) error {
	w, h := v.pageSize()
	if err := v.plot.Save(w, h, path); err != nil {
		return fmt.Errorf("save plan view: %w", err)
	}
	return nil
}

// pageSize fixes the axis window and returns a page size whose data area is
// square. Both windows span 80 m, so a square data area means equal aspect.
func (v *PlanView) pageSize() (vg.Length, vg.Length) {
	// Adding plotters widens the axes to the data, so the window is fixed last.
	v.plot.X.Min, v.plot.X.Max = PlanXMin, PlanXMax
	v.plot.Y.Min, v.plot.Y.Max = PlanZMin, PlanZMax

	// tick labels and axis titles take different room on each axis
	w, h := planSize, planSize
	da := v.plot.DataCanvas(draw.New(vgimg.New(w, h)))
	dw, dh := da.Max.X-da.Min.X, da.Max.Y-da.Min.Y
	if dw > dh {
		h += dw - dh
	} else {
		w += dh - dw
	}
	return w, h
}

func (v *PlanView) polyline(pts []r2.Point, col color.Color, width float64) error {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = col
	line.Width = vg.Points(width)
	v.plot.Add(line)
	return nil
}
