package labels

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#3399FF", color.RGBA{0x33, 0x99, 0xFF, 255}},
		{"#ff33cc", color.RGBA{0xFF, 0x33, 0xCC, 255}},
		{"00FF00", color.RGBA{0, 255, 0, 255}},
		{"#000", color.RGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#GGGGGG", "#1234567", "#3399FFzz", "#12345G", "#+12345"} {
		_, err := ParseHex(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()

	car, ok := p.Color("car")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{0x33, 0x99, 0xFF, 255}, car)

	person, ok := p.Color("person")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{0xFF, 0x33, 0xCC, 255}, person)

	_, ok = p.Color("tram")
	assert.False(t, ok)
}

func TestPalette_WithDoesNotMutate(t *testing.T) {
	base := DefaultPalette()

	extended, err := base.With(map[string]string{"tram": "#112233", "car": "#000000"})
	require.NoError(t, err)

	_, ok := base.Color("tram")
	assert.False(t, ok, "base palette must not gain classes")
	car, _ := base.Color("car")
	assert.Equal(t, color.RGBA{0x33, 0x99, 0xFF, 255}, car)

	tram, ok := extended.Color("tram")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{0x11, 0x22, 0x33, 255}, tram)
	car, _ = extended.Color("car")
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, car)
}

func TestPalette_WithInvalidColour(t *testing.T) {
	_, err := DefaultPalette().With(map[string]string{"car": "blue"})
	assert.Error(t, err)
}

func TestRegistry_Names(t *testing.T) {
	names := DefaultRegistry().Names()
	assert.Equal(t, []string{"caltech", "coco", "identity", "kitti", "voc"}, names)
}

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry()

	m, err := r.Get("kitti")
	require.NoError(t, err)
	assert.Equal(t, "kitti", m.Name())

	class, ok := m.Canonical("Van")
	require.True(t, ok)
	assert.Equal(t, "car", class)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownMapping)
}

func TestRegistry_WithOverrides(t *testing.T) {
	base := DefaultRegistry()
	r := base.With("kitti", map[string]string{"Tram": "car"})

	m, err := r.Get("kitti")
	require.NoError(t, err)
	_, ok := m.Canonical("Car")
	assert.False(t, ok, "override replaces the whole mapping")

	orig, err := base.Get("kitti")
	require.NoError(t, err)
	_, ok = orig.Canonical("Car")
	assert.True(t, ok, "base registry is unchanged")
}

func TestClasses_Resolve(t *testing.T) {
	m := NewMapping("test", map[string]string{
		"Car":  "car",
		"Tram": "tram",
	})
	c := Classes{Mapping: m, Palette: DefaultPalette()}

	class, col, err := c.Resolve("Car")
	require.NoError(t, err)
	assert.Equal(t, "car", class)
	assert.Equal(t, color.RGBA{0x33, 0x99, 0xFF, 255}, col)

	_, _, err = c.Resolve("Bus")
	assert.ErrorIs(t, err, ErrUnknownLabel)

	// mapped, but the class has no colour
	_, _, err = c.Resolve("Tram")
	assert.ErrorIs(t, err, ErrUnknownLabel)
}
