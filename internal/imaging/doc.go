// Package imaging loads frames, draws box outlines on them and writes them back.
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rectangle corners are both
// inclusive, matching the detection file formats.
//
// # Backends
//
// The default build draws with a pure-Go rasteriser over an *image.RGBA
// (RGBACanvas). Building with the "gocv" tag swaps OpenCanvas to an OpenCV
// backed MatCanvas, which requires OpenCV and cgo. Backend reports which one
// was compiled in.
//
// # Thread Safety
//
// A Canvas is not safe for concurrent use. Separate canvases are independent.
package imaging
