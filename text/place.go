package text

import (
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs"
	"github.com/gogpu/glyphs/atlas"
	"github.com/gogpu/glyphs/fonts"
)

// depthBias orders overlapping glyphs back to front by x position.
const depthBias = 0.00001

// PlacedGlyph is one glyph quad instance. Its layout matches the GPU
// instance buffer: 18 float32 values.
type PlacedGlyph struct {
	// FontT1 and FontT2 are opposite corners of the atlas cell in
	// normalized texture coordinates.
	FontT1, FontT2 f32.Vec2

	Color f32.Vec4

	// RectPos is the bottom-left corner of the quad in logical pixels,
	// snapped to the device pixel grid; RectSize is its extent. The quad
	// spans RectPos.y-RectSize.y to RectPos.y vertically.
	RectPos, RectSize f32.Vec2

	// CharDepth is the draw depth with a small per-glyph bias.
	CharDepth float32

	// Base is the unscaled pen position the glyph was placed at. Hit
	// testing works on it.
	Base f32.Vec2

	// FontSize is the style's point size.
	FontSize float32

	// CharOffset is the index of the source character.
	CharOffset float32

	// Marker is the value returned by the CharFunc.
	Marker float32
}

// CharFunc is called once per emitted glyph with the character, its
// offset, the pen x position and the scaled advance. The result is stored
// in PlacedGlyph.Marker.
type CharFunc func(ch rune, charOffset int, x, advance float32) float32

// Resolver hands out atlas cells. *atlas.Cache implements it.
type Resolver interface {
	Resolve(fontID fonts.FontID, dpr, pointSize float32, glyphID, phase int) (atlas.TextureRect, error)
}

// PlaceParams are the per-call inputs of Place.
type PlaceParams struct {
	// DPR is the device pixel ratio.
	DPR float32

	// FontScale scales the placed quads and advances. Glyphs are still
	// rasterized at the unscaled size.
	FontScale float32

	Depth float32
	Color f32.Vec4

	// Origin is the top-left pen position of the run.
	Origin f32.Vec2

	// CharOffset is the offset of chars[0] in the source text.
	CharOffset int
}

// Place positions chars on one line starting at p.Origin and resolves
// their atlas cells.
//
// Each character produces at most one glyph. Characters whose glyph index
// falls outside the font's table are logged and skipped without moving
// the pen, but still consume a character offset; so do characters at or
// above U+10000, which MeasureWidth counts as zero width. Missing cells are
// reserved and queued for rasterization; they render blank until filled.
//
// On error no glyphs are returned. An error matching atlas.ErrAtlasReset
// means the atlas was cleared while resolving the run: cells of every run
// placed before are invalid too and the caller has to place them again.
func Place(res Resolver, src fonts.Source, style Style, p PlaceParams, chars []rune, cb CharFunc) ([]PlacedGlyph, error) {
	f, err := src.Font(style.FontID)
	if err != nil {
		return nil, err
	}

	dpr := p.DPR
	scale := p.FontScale
	logical := f.LogicalSize(style.FontSize)
	fontSizePixels := logical * dpr
	topDrop := style.FontSize * style.TopDrop

	out := make([]PlacedGlyph, 0, len(chars))
	x := p.Origin[0]
	y := p.Origin[1]
	charOffset := p.CharOffset

	for _, ch := range chars {
		if ch >= maxMeasuredRune {
			// Outside the measured range: no glyph and no advance, matching
			// MeasureWidth.
			charOffset++
			continue
		}
		gid := f.GlyphIndex(ch)
		g, ok := f.Glyph(gid)
		if !ok {
			glyphs.Logger().Warn("text: glyph index out of bounds",
				"char", ch, "glyph", gid, "glyphs", f.NumGlyphs(), "font", int(style.FontID))
			charOffset++
			continue
		}

		advance := g.Advance * logical * scale
		w, h := atlas.GlyphPixelSize(g, fontSizePixels)

		// The unscaled position decides the sub-pixel phase; the fraction is
		// then removed from the scaled position so the quad lands on the
		// device pixel grid.
		minPosX := x + logical*g.Bounds.Min[0]
		minPosY := y - logical*g.Bounds.Min[1] + topDrop
		fx := minPosX - floor32(minPosX*dpr)/dpr
		fy := minPosY - floor32(minPosY*dpr)/dpr

		scaledX := x + logical*scale*g.Bounds.Min[0] - fx
		scaledY := y - logical*scale*g.Bounds.Min[1] + topDrop*scale - fy

		phase := atlas.Phase(style.FontSize, fx, fy, dpr)
		tc, err := res.Resolve(style.FontID, dpr, style.FontSize, gid, phase)
		if err != nil {
			return nil, err
		}

		var marker float32
		if cb != nil {
			marker = cb(ch, charOffset, x, advance)
		}

		out = append(out, PlacedGlyph{
			FontT1:     f32.Vec2{tc.TX1, tc.TY1},
			FontT2:     f32.Vec2{tc.TX2, tc.TY2},
			Color:      p.Color,
			RectPos:    f32.Vec2{scaledX, scaledY},
			RectSize:   f32.Vec2{w * scale / dpr, h * scale / dpr},
			CharDepth:  p.Depth + depthBias*minPosX,
			Base:       f32.Vec2{x, y},
			FontSize:   style.FontSize,
			CharOffset: float32(charOffset),
			Marker:     marker,
		})

		x += advance
		charOffset++
	}
	return out, nil
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}
