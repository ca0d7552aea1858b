package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
)

// sfntParser implements Parser using golang.org/x/image/font/sfnt.
type sfntParser struct{}

// Parse implements Parser.Parse.
func (p *sfntParser) Parse(data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: failed to parse font: %w", err)
	}

	var buf sfnt.Buffer
	upem := f.UnitsPerEm()
	// At ppem == unitsPerEm one pixel is one font unit.
	ppem := fixed.I(int(upem))

	glyphTable := make([]Glyph, f.NumGlyphs())
	for i := range glyphTable {
		gi := sfnt.GlyphIndex(i) //nolint:gosec // NumGlyphs fits in uint16
		bounds, advance, err := f.GlyphBounds(&buf, gi, ppem, font.HintingNone)
		if err != nil {
			// Glyphs without outlines still advance the cursor.
			if adv, aerr := f.GlyphAdvance(&buf, gi, ppem, font.HintingNone); aerr == nil {
				glyphTable[i].Advance = fixedToFloat32(adv)
			}
			continue
		}
		glyphTable[i] = Glyph{
			// sfnt bounds are y-down; flip to y-up.
			Bounds: Bounds{
				Min: f32.Vec2{fixedToFloat32(bounds.Min.X), -fixedToFloat32(bounds.Max.Y)},
				Max: f32.Vec2{fixedToFloat32(bounds.Max.X), -fixedToFloat32(bounds.Min.Y)},
			},
			Advance: fixedToFloat32(advance),
		}
	}

	charMap := make(map[rune]int, 256)
	for r := rune(0); r < maxCharCode; r++ {
		gi, err := f.GlyphIndex(&buf, r)
		if err != nil || gi == 0 {
			continue
		}
		charMap[r] = int(gi)
	}

	out := NewFont(sfntName(f, &buf), float32(upem), glyphTable, charMap)
	out.Outliner = &sfntOutliner{font: f}
	return out, nil
}

// sfntName extracts the family name, falling back to the full name.
func sfntName(f *sfnt.Font, buf *sfnt.Buffer) string {
	if name, err := f.Name(buf, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(buf, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return unknownFontName
}

// sfntOutliner implements Outliner. sfnt.Font is safe for concurrent use
// as long as each goroutine has its own Buffer.
type sfntOutliner struct {
	font *sfnt.Font
	bufs sync.Pool
}

// Outline implements Outliner.Outline.
func (o *sfntOutliner) Outline(glyph int, ppem float32) (sfnt.Segments, error) {
	buf, _ := o.bufs.Get().(*sfnt.Buffer)
	if buf == nil {
		buf = &sfnt.Buffer{}
	}
	defer o.bufs.Put(buf)

	segs, err := o.font.LoadGlyph(buf, sfnt.GlyphIndex(glyph), fixed.Int26_6(ppem*64), nil) //nolint:gosec // glyph comes from the font's own table
	if err != nil {
		return nil, fmt.Errorf("fonts: load glyph %d: %w", glyph, err)
	}
	// LoadGlyph reuses buf for the returned segments.
	out := make(sfnt.Segments, len(segs))
	copy(out, segs)
	return out, nil
}

// fixedToFloat32 converts fixed.Int26_6 to float32.
func fixedToFloat32(x fixed.Int26_6) float32 {
	return float32(x) / 64.0
}
