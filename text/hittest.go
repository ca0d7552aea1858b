package text

import "golang.org/x/image/math/f32"

// ClosestOffset returns the character offset a text cursor should take
// for a pointer at pos, given glyphs in emission order (left to right,
// top to bottom). It reports false for an empty slice.
//
// The first line whose band (Base.y to Base.y + FontSize*lineSpacing)
// reaches below pos is searched for the first glyph past the pointer,
// either by more than half its width or by starting a later line. The
// glyph before it wins, except when that glyph lies entirely to the right
// of the pointer, which happens when the pointer sits at the start of a
// wrapped line; then the following glyph wins. A pointer past every glyph
// selects the last one.
func ClosestOffset(glyphs []PlacedGlyph, pos f32.Vec2, lineSpacing float32) (int, bool) {
	n := len(glyphs)
	if n == 0 {
		return 0, false
	}

	for i := 0; i < n; i++ {
		if g := &glyphs[i]; g.Base[1]+g.FontSize*lineSpacing <= pos[1] {
			continue
		}
		for ; i < n; i++ {
			g := &glyphs[i]
			if g.Base[0] <= pos[0]+g.RectSize[0]*0.5 && g.Base[1] <= pos[1] {
				continue
			}
			prev := &glyphs[max(i-1, 0)]
			if i < n-1 && prev.Base[0] > pos[0]+prev.RectSize[0] {
				return int(g.CharOffset), true
			}
			return int(prev.CharOffset), true
		}
	}
	return int(glyphs[n-1].CharOffset), true
}
