package fonts

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/f32"
)

// FontID identifies a font inside a Registry.
type FontID int

// Bounds is a glyph outline bounding box in font units, y axis up.
type Bounds struct {
	Min, Max f32.Vec2
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float32 { return b.Max[0] - b.Min[0] }

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float32 { return b.Max[1] - b.Min[1] }

// Glyph holds the shape data of a single glyph in font units.
type Glyph struct {
	Bounds  Bounds
	Advance float32
}

// Outliner produces glyph outlines for rasterization.
//
// Outline returns the outline of glyph scaled to ppem pixels per em,
// with the origin on the baseline and the y axis pointing down.
type Outliner interface {
	Outline(glyph int, ppem float32) (sfnt.Segments, error)
}

// Font is a read-only font-metrics table.
//
// A Font is immutable once built and may be read from any goroutine
// without synchronization.
type Font struct {
	// Name is the family name, or "Unknown Font".
	Name string

	// UnitsPerEm is the size of the em square in font units.
	UnitsPerEm float32

	// Glyphs is the glyph table indexed by glyph index.
	Glyphs []Glyph

	// Outliner is optional. Fonts without one can be placed and measured
	// but not rasterized by the raster package.
	Outliner Outliner

	// charMap maps runes to glyph indices. Unmapped runes use glyph 0.
	charMap map[rune]int
}

// NewFont builds a Font from its parts. The charMap is not copied.
func NewFont(name string, unitsPerEm float32, glyphs []Glyph, charMap map[rune]int) *Font {
	if charMap == nil {
		charMap = make(map[rune]int)
	}
	return &Font{
		Name:       name,
		UnitsPerEm: unitsPerEm,
		Glyphs:     glyphs,
		charMap:    charMap,
	}
}

// GlyphIndex returns the glyph index for r, or 0 (.notdef) when the font
// has no mapping. The returned index is not guaranteed to be inside
// Glyphs for malformed fonts; callers must check.
func (f *Font) GlyphIndex(r rune) int {
	return f.charMap[r]
}

// HasRune reports whether r has an explicit glyph mapping.
func (f *Font) HasRune(r rune) bool {
	_, ok := f.charMap[r]
	return ok
}

// Glyph returns the glyph for index gid and whether it exists.
func (f *Font) Glyph(gid int) (Glyph, bool) {
	if gid < 0 || gid >= len(f.Glyphs) {
		return Glyph{}, false
	}
	return f.Glyphs[gid], true
}

// NumGlyphs returns the size of the glyph table.
func (f *Font) NumGlyphs() int {
	return len(f.Glyphs)
}

// LogicalSize returns the factor that converts font units to logical
// pixels for a point size: size * 96 / (72 * unitsPerEm).
func (f *Font) LogicalSize(pointSize float32) float32 {
	return pointSize * 96.0 / (72.0 * f.UnitsPerEm)
}
