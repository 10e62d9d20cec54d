// Package geometry reconstructs 3D boxes from image footprints and projects
// them back into the image.
//
// A PGP record ("projection and ground plane") pairs a 3x4 camera matrix P
// with the ground plane a*x + b*y + c*z + d = 0, both in the same world
// frame. From P the package derives the camera centre C = -M⁻¹p₄, where M is
// the left 3x3 block and p₄ the last column.
//
// # Reconstruction
//
// A pixel is lifted to 3D by intersecting its viewing ray C + λM⁻¹[u v 1]ᵀ
// with the ground plane. A BB3TXT footprint gives three ground corners (FBL,
// FBR, RBL); the fourth completes the parallelogram and the box height comes
// from the image row of the front-top-left corner.
//
// # Corner order
//
// Box3D corners are always ordered FBL FBR RBR RBL FTL FTR RTR RTL
// (front/rear, bottom/top, left/right); the index constants of the same names
// address them.
package geometry
