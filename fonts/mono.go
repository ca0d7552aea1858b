package fonts

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
)

// Metrics of the synthetic monospace font, in font units.
const (
	MonospaceUnitsPerEm = 1000
	MonospaceAdvance    = 600
)

// monospaceBox is the ink box shared by every visible glyph.
var monospaceBox = Bounds{
	Min: f32.Vec2{60, -100},
	Max: f32.Vec2{540, 700},
}

// NewMonospace builds a synthetic fixed-pitch font covering printable
// ASCII. Every glyph advances by MonospaceAdvance units; visible glyphs
// are solid boxes, space has no ink. It needs no font file, which makes
// it useful for tests and headless tools.
func NewMonospace() *Font {
	// 0: .notdef, 1: space, 2..: '!'..'~'
	glyphTable := make([]Glyph, 0, 2+('~'-'!'+1))
	glyphTable = append(glyphTable,
		Glyph{Bounds: monospaceBox, Advance: MonospaceAdvance},
		Glyph{Advance: MonospaceAdvance},
	)

	charMap := map[rune]int{' ': 1}
	for r := '!'; r <= '~'; r++ {
		charMap[r] = len(glyphTable)
		glyphTable = append(glyphTable, Glyph{Bounds: monospaceBox, Advance: MonospaceAdvance})
	}

	f := NewFont("Monospace", MonospaceUnitsPerEm, glyphTable, charMap)
	f.Outliner = &boxOutliner{font: f}
	return f
}

// boxOutliner draws each glyph as its filled bounding box.
type boxOutliner struct {
	font *Font
}

// Outline implements Outliner.Outline.
func (o *boxOutliner) Outline(glyph int, ppem float32) (sfnt.Segments, error) {
	g, ok := o.font.Glyph(glyph)
	if !ok || g.Bounds.Width() <= 0 || g.Bounds.Height() <= 0 {
		return nil, nil
	}
	scale := ppem / o.font.UnitsPerEm
	pt := func(x, y float32) fixed.Point26_6 {
		// y-up font units to y-down pixels.
		return fixed.Point26_6{
			X: fixed.Int26_6(x * scale * 64),
			Y: fixed.Int26_6(-y * scale * 64),
		}
	}
	b := g.Bounds
	return sfnt.Segments{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{pt(b.Min[0], b.Min[1])}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(b.Max[0], b.Min[1])}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(b.Max[0], b.Max[1])}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(b.Min[0], b.Max[1])}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{pt(b.Min[0], b.Min[1])}},
	}, nil
}
