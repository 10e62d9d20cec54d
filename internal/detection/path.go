package detection

import (
	"path/filepath"
	"strings"
)

// DefaultMarker identifies the dataset root inside an image key.
const DefaultMarker = "/datasets/"

// PathResolver maps image keys recorded on one machine to local paths.
//
// When Root is set, everything in the key up to and including the first
// occurrence of Marker is replaced by Root. Keys without the marker, and every
// key when Root is empty, are returned unchanged.
type PathResolver struct {
	Root   string
	Marker string
}

// Resolve returns the local path of the image identified by key.
func (r PathResolver) Resolve(key string) string {
	if r.Root == "" {
		return key
	}
	marker := r.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	pos := strings.Index(key, marker)
	if pos < 0 {
		return key
	}
	return filepath.Join(r.Root, key[pos+len(marker):])
}
