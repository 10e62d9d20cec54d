// Package labels holds the class colour palette and the label mappings that
// translate a detector's source labels into canonical classes.
//
// Palette, Mapping and Registry are immutable values. Methods that "modify"
// them return a new value, so a table built at startup can be shared freely.
package labels

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrUnknownLabel is returned when a detection label has no canonical
	// class in the active mapping or its class has no colour.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrUnknownMapping is returned for a mapping name the registry does not know.
	ErrUnknownMapping = errors.New("unknown label mapping")
)

// Palette maps canonical class names to drawing colours.
type Palette struct {
	colors map[string]color.RGBA
}

// DefaultPalette returns the built-in class colours.
func DefaultPalette() Palette {
	p, err := NewPalette(map[string]string{
		"car":     "#3399FF",
		"person":  "#FF33CC",
		"cyclist": "#40BF0D",
	})
	if err != nil {
		panic(err)
	}
	return p
}

// NewPalette builds a palette from "#RRGGBB" hex strings.
func NewPalette(hex map[string]string) (Palette, error) {
	return Palette{}.With(hex)
}

// With returns a copy of the palette with the given classes added or replaced.
func (p Palette) With(hex map[string]string) (Palette, error) {
	colors := make(map[string]color.RGBA, len(p.colors)+len(hex))
	for class, c := range p.colors {
		colors[class] = c
	}
	for class, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("class %q: %w", class, err)
		}
		colors[class] = c
	}
	return Palette{colors: colors}, nil
}

// Color returns the colour of a canonical class.
func (p Palette) Color(class string) (color.RGBA, bool) {
	c, ok := p.colors[class]
	return c, ok
}

// ParseHex parses "#RRGGBB" (or "#RGB") into an opaque colour.
func ParseHex(hex string) (color.RGBA, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if n := len(hex) - 1; n != 3 && n != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: want 3 or 6 digits", hex)
	}
	if _, err := strconv.ParseUint(hex[1:], 16, 32); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(hex string) color.RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Mapping translates source labels of one dataset or detector into canonical classes.
type Mapping struct {
	name    string
	classes map[string]string
}

// NewMapping copies classes into a new named mapping.
func NewMapping(name string, classes map[string]string) Mapping {
	m := Mapping{name: name, classes: make(map[string]string, len(classes))}
	for src, dst := range classes {
		m.classes[src] = dst
	}
	return m
}

// Name returns the registry name of the mapping.
func (m Mapping) Name() string { return m.name }

// Canonical returns the canonical class for a source label.
func (m Mapping) Canonical(label string) (string, bool) {
	c, ok := m.classes[label]
	return c, ok
}

// Registry is the set of label mappings selectable by name.
type Registry struct {
	mappings map[string]Mapping
}

// DefaultRegistry returns the built-in label mappings.
func DefaultRegistry() Registry {
	r := Registry{}
	r = r.With("identity", map[string]string{
		"car":     "car",
		"person":  "person",
		"cyclist": "cyclist",
	})
	r = r.With("kitti", map[string]string{
		"Car":            "car",
		"Van":            "car",
		"Pedestrian":     "person",
		"Person_sitting": "person",
		"Cyclist":        "cyclist",
	})
	r = r.With("voc", map[string]string{
		"car":    "car",
		"bus":    "car",
		"person": "person",
	})
	r = r.With("coco", map[string]string{
		"car":    "car",
		"truck":  "car",
		"bus":    "car",
		"person": "person",
	})
	r = r.With("caltech", map[string]string{
		"person":  "person",
		"people":  "person",
		"person?": "person",
	})
	return r
}

// With returns a copy of the registry with the mapping added or replaced.
func (r Registry) With(name string, classes map[string]string) Registry {
	mappings := make(map[string]Mapping, len(r.mappings)+1)
	for n, m := range r.mappings {
		mappings[n] = m
	}
	mappings[name] = NewMapping(name, classes)
	return Registry{mappings: mappings}
}

// Get looks up a mapping by name.
func (r Registry) Get(name string) (Mapping, error) {
	m, ok := r.mappings[name]
	if !ok {
		return Mapping{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownMapping, name, strings.Join(r.Names(), ", "))
	}
	return m, nil
}

// Names returns the registered mapping names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.mappings))
	for n := range r.mappings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Classes resolves a source label to its canonical class and colour.
type Classes struct {
	Mapping Mapping
	Palette Palette
}

// Resolve returns the canonical class and colour for a source label.
// Labels missing from the mapping or classes without a colour yield ErrUnknownLabel.
func (c Classes) Resolve(label string) (string, color.RGBA, error) {
	class, ok := c.Mapping.Canonical(label)
	if !ok {
		return "", color.RGBA{}, fmt.Errorf("%w: %q not in mapping %q", ErrUnknownLabel, label, c.Mapping.Name())
	}
	col, ok := c.Palette.Color(class)
	if !ok {
		return "", color.RGBA{}, fmt.Errorf("%w: class %q (label %q) has no colour", ErrUnknownLabel, class, label)
	}
	return class, col, nil
}
