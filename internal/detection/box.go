package detection

import "fmt"

// Kind tags the variant held by a Box.
type Kind int

const (
	// Kind2D marks an axis-aligned image rectangle (BBTXT).
	Kind2D Kind = iota + 1
	// Kind3D marks a 3D box footprint (BB3TXT).
	Kind3D
)

func (k Kind) String() string {
	switch k {
	case Kind2D:
		return "2D"
	case Kind3D:
		return "3D"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Record holds the fields shared by every detection.
type Record struct {
	// Key is the image path exactly as written in the detections file.
	Key string
	// Label is the detector's source label, translated through a label mapping.
	Label string
	// Confidence is in [0, 1].
	Confidence float64
}

// Box is a detection of either kind. It is implemented only by
// BoundingBox2D and BoundingBox3D; switch on Kind or on the concrete type.
type Box interface {
	Kind() Kind
	Meta() Record
}

// BoundingBox2D is an axis-aligned rectangle in image pixels.
type BoundingBox2D struct {
	Record
	XMin, YMin, XMax, YMax float64
}

// Kind implements Box.
func (BoundingBox2D) Kind() Kind { return Kind2D }

// Meta implements Box.
func (b BoundingBox2D) Meta() Record { return b.Record }

// BoundingBox3D describes a 3D box by its image footprint: the pixel
// positions of the front-bottom-left, front-bottom-right and rear-bottom-left
// corners, and the y coordinate of the front-top-left corner.
type BoundingBox3D struct {
	Record
	FBLX, FBLY float64
	FBRX, FBRY float64
	RBLX, RBLY float64
	FTLY       float64
}

// Kind implements Box.
func (BoundingBox3D) Kind() Kind { return Kind3D }

// Meta implements Box.
func (b BoundingBox3D) Meta() Record { return b.Record }

// Set groups detections by image key. Each slice keeps the order of the
// detections file; use Sequence for a deterministic key order.
type Set map[string][]Box

// Add appends a detection under its key.
func (s Set) Add(b Box) {
	key := b.Meta().Key
	s[key] = append(s[key], b)
}

// Len returns the total number of detections.
func (s Set) Len() int {
	n := 0
	for _, boxes := range s {
		n += len(boxes)
	}
	return n
}

// Kinds reports which kinds of detection the set contains.
func (s Set) Kinds() map[Kind]int {
	kinds := make(map[Kind]int)
	for _, boxes := range s {
		for _, b := range boxes {
			kinds[b.Kind()]++
		}
	}
	return kinds
}

// Confident returns the boxes whose confidence is at least threshold, in order.
func Confident(boxes []Box, threshold float64) []Box {
	out := make([]Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Meta().Confidence >= threshold {
			out = append(out, b)
		}
	}
	return out
}

