package geometry

import "github.com/golang/geo/r3"

// Corner indices of a Box3D: front/rear, bottom/top, left/right.
const (
	FBL = iota
	FBR
	RBR
	RBL
	FTL
	FTR
	RTR
	RTL
)

// Box3D holds the eight corners of a cuboid in world coordinates, ordered
// FBL FBR RBR RBL FTL FTR RTR RTL.
type Box3D [8]r3.Vector

// Edge joins two corners of a box.
type Edge struct {
	From, To int
}

// Box wireframe edges, grouped the way they are coloured when drawn.
var (
	FrontFace = []Edge{{FTL, FTR}, {FTR, FBR}, {FBL, FBR}, {FBL, FTL}}
	RearFace  = []Edge{{RBR, RBL}, {RTL, RBL}, {RTL, RTR}, {RTR, RBR}}
	SideEdges = []Edge{{FTL, RTL}, {FTR, RTR}, {FBR, RBR}, {FBL, RBL}}
)

// Footprint edges on the ground, as seen from above.
var (
	FootprintFront = Edge{FBL, FBR}
	FootprintRear  = Edge{RBR, RBL}
	FootprintSides = []Edge{{FBL, RBL}, {FBR, RBR}}
)
