// Package detection loads detector output and orders it for rendering.
//
// Two line formats are supported, one record per line, fields separated by
// whitespace:
//
//	BBTXT   filename label confidence xmin ymin xmax ymax
//	BB3TXT  filename label confidence fblx fbly fbrx fbry rblx rbly ftly
//
// BBTXT describes axis-aligned rectangles. BB3TXT describes a 3D box by the
// image positions of its front-bottom-left, front-bottom-right and
// rear-bottom-left corners plus the y of the front-top-left corner; the
// geometry package turns that footprint into eight 3D corners.
//
// Records are grouped by filename into a Set, keeping file order within each
// image. Sequence produces the deterministic, sorted image order used by the
// renderer, and PathResolver rewrites recorded paths to local ones.
package detection
