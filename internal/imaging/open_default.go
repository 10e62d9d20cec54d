//go:build !gocv

package imaging

// Backend names the rasteriser compiled into this binary.
const Backend = "pure-go"

// OpenCanvas loads the image at path into the default Canvas implementation.
func OpenCanvas(path string) (Canvas, error) {
	return LoadCanvas(path)
}
