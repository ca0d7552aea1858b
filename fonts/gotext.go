package fonts

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/math/f32"
)

// gotextParser implements Parser using github.com/go-text/typesetting.
// It builds the glyph table only up to the highest glyph reachable from
// the character map; outlines are not exposed.
type gotextParser struct{}

// Parse implements Parser.Parse.
func (p *gotextParser) Parse(data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: failed to parse font: %w", err)
	}

	charMap := make(map[rune]int, 256)
	maxGID := 0
	for r := rune(0); r < maxCharCode; r++ {
		gid, ok := face.NominalGlyph(r)
		if !ok || gid == 0 {
			continue
		}
		charMap[r] = int(gid)
		maxGID = max(maxGID, int(gid))
	}

	glyphTable := make([]Glyph, maxGID+1)
	for i := range glyphTable {
		gid := font.GID(i) //nolint:gosec // bounded by the character map
		g := Glyph{Advance: face.HorizontalAdvance(gid)}
		if ext, ok := face.GlyphExtents(gid); ok {
			// Extents use a top-left bearing with a negative height.
			g.Bounds = Bounds{
				Min: f32.Vec2{ext.XBearing, ext.YBearing + ext.Height},
				Max: f32.Vec2{ext.XBearing + ext.Width, ext.YBearing},
			}
		}
		glyphTable[i] = g
	}

	return NewFont(unknownFontName, float32(face.Upem()), glyphTable, charMap), nil
}
