package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/detection-tools/internal/detection"
)

var (
	// ErrSingularProjection is returned when the left 3x3 block of P cannot be inverted.
	ErrSingularProjection = errors.New("singular projection matrix")

	// ErrNoGroundIntersection is returned when a pixel ray does not hit the
	// ground plane in front of the camera.
	ErrNoGroundIntersection = errors.New("pixel ray does not intersect the ground plane")

	// ErrDegenerateBox is returned when a box height cannot be recovered.
	ErrDegenerateBox = errors.New("degenerate 3D box")
)

const epsilon = 1e-12

// Plane is the ground plane A*x + B*y + C*z + D = 0.
type Plane struct {
	A, B, C, D float64
}

// Normal returns the plane's (unnormalised) normal vector.
func (p Plane) Normal() r3.Vector {
	return r3.Vector{X: p.A, Y: p.B, Z: p.C}
}

// Eval returns A*x + B*y + C*z + D.
func (p Plane) Eval(v r3.Vector) float64 {
	return p.Normal().Dot(v) + p.D
}

// PGP is the projection geometry of one image: a 3x4 camera matrix and the
// ground plane, both in the same world frame.
type PGP struct {
	Key    string
	P      *mat.Dense
	Ground Plane

	mInv   *mat.Dense // inverse of the left 3x3 block of P
	center r3.Vector
	up     r3.Vector // unit ground normal on the camera's side
}

// NewPGP builds the projection geometry from a row-major 3x4 matrix.
func NewPGP(key string, p [12]float64, ground Plane) (*PGP, error) {
	data := make([]float64, 12)
	copy(data, p[:])
	P := mat.NewDense(3, 4, data)

	var m mat.Dense
	m.CloneFrom(P.Slice(0, 3, 0, 3))

	var mInv mat.Dense
	if err := mInv.Inverse(&m); err != nil {
		return nil, errors.Wrapf(ErrSingularProjection, "%s: %v", key, err)
	}

	// C = -M^-1 * p4
	var c mat.VecDense
	c.MulVec(&mInv, P.ColView(3))
	center := r3.Vector{X: -c.AtVec(0), Y: -c.AtVec(1), Z: -c.AtVec(2)}

	n := ground.Normal()
	if n.Norm() < epsilon {
		return nil, errors.Errorf("%s: ground plane has a zero normal", key)
	}
	up := n.Normalize()
	if ground.Eval(center) < 0 {
		up = up.Mul(-1)
	}

	return &PGP{
		Key:    key,
		P:      P,
		Ground: ground,
		mInv:   &mInv,
		center: center,
		up:     up,
	}, nil
}

// Camera returns the camera centre in world coordinates.
func (g *PGP) Camera() r3.Vector {
	return g.center
}

// Up returns the unit ground normal pointing towards the camera.
func (g *PGP) Up() r3.Vector {
	return g.up
}

// homogeneous returns P * [v; w].
func (g *PGP) homogeneous(v r3.Vector, w float64) r3.Vector {
	var x mat.VecDense
	x.MulVec(g.P, mat.NewVecDense(4, []float64{v.X, v.Y, v.Z, w}))
	return r3.Vector{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
}

// Project maps a world point to image pixel coordinates.
func (g *PGP) Project(v r3.Vector) r2.Point {
	h := g.homogeneous(v, 1)
	return r2.Point{X: h.X / h.Z, Y: h.Y / h.Z}
}

// ProjectBox projects all eight corners of a box, keeping corner order.
func (g *PGP) ProjectBox(b Box3D) [8]r2.Point {
	var out [8]r2.Point
	for i, v := range b {
		out[i] = g.Project(v)
	}
	return out
}

// ReconstructGround back-projects a pixel onto the ground plane.
func (g *PGP) ReconstructGround(x r2.Point) (r3.Vector, error) {
	var d mat.VecDense
	d.MulVec(g.mInv, mat.NewVecDense(3, []float64{x.X, x.Y, 1}))
	dir := r3.Vector{X: d.AtVec(0), Y: d.AtVec(1), Z: d.AtVec(2)}

	denom := g.Ground.Normal().Dot(dir)
	if math.Abs(denom) < epsilon {
		return r3.Vector{}, errors.Wrapf(ErrNoGroundIntersection, "pixel (%g, %g) is parallel to the ground", x.X, x.Y)
	}
	lambda := -g.Ground.Eval(g.center) / denom
	if lambda <= 0 {
		return r3.Vector{}, errors.Wrapf(ErrNoGroundIntersection, "pixel (%g, %g) is above the horizon", x.X, x.Y)
	}
	return g.center.Add(dir.Mul(lambda)), nil
}

// ReconstructBox3D recovers the eight corners of a detected 3D box.
//
// FBL, FBR and RBL are back-projected onto the ground; RBR completes the
// parallelogram. The height h is measured along Up and chosen so that FBL+h*Up
// projects onto the image row FTLY. Top corners are the bottom corners lifted by h.
func (g *PGP) ReconstructBox3D(bb detection.BoundingBox3D) (Box3D, error) {
	fbl, err := g.ReconstructGround(r2.Point{X: bb.FBLX, Y: bb.FBLY})
	if err != nil {
		return Box3D{}, errors.Wrap(err, "FBL")
	}
	fbr, err := g.ReconstructGround(r2.Point{X: bb.FBRX, Y: bb.FBRY})
	if err != nil {
		return Box3D{}, errors.Wrap(err, "FBR")
	}
	rbl, err := g.ReconstructGround(r2.Point{X: bb.RBLX, Y: bb.RBLY})
	if err != nil {
		return Box3D{}, errors.Wrap(err, "RBL")
	}
	rbr := fbr.Add(rbl.Sub(fbl))

	// Solve (a.Y + h*b.Y) / (a.Z + h*b.Z) = FTLY for h.
	a := g.homogeneous(fbl, 1)
	b := g.homogeneous(g.up, 0)
	denom := b.Y - bb.FTLY*b.Z
	if math.Abs(denom) < epsilon {
		return Box3D{}, errors.Wrapf(ErrDegenerateBox, "vertical direction is parallel to image row %g", bb.FTLY)
	}
	h := (bb.FTLY*a.Z - a.Y) / denom
	lift := g.up.Mul(h)

	return Box3D{
		FBL: fbl,
		FBR: fbr,
		RBR: rbr,
		RBL: rbl,
		FTL: fbl.Add(lift),
		FTR: fbr.Add(lift),
		RTR: rbr.Add(lift),
		RTL: rbl.Add(lift),
	}, nil
}
