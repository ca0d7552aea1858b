package text

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs/atlas"
	"github.com/gogpu/glyphs/fonts"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func onGrid(v, dpr float32) bool {
	d := float64(v * dpr)
	return math.Abs(d-math.Round(d)) < 1e-3
}

func TestPlace_Basic(t *testing.T) {
	fx := newFixture(t)
	glyphs := fx.place(t, "Hi", f32.Vec2{10, 20}, 1)

	if len(glyphs) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(glyphs))
	}
	for i, g := range glyphs {
		wantBase := f32.Vec2{10 + float32(i)*glyphWidth, 20}
		if !near(g.Base[0], wantBase[0]) || g.Base[1] != wantBase[1] {
			t.Errorf("glyph %d Base = %v, want %v", i, g.Base, wantBase)
		}
		if g.CharOffset != float32(i) {
			t.Errorf("glyph %d CharOffset = %v", i, g.CharOffset)
		}
		// 480 x 800 units at 10pt, rounded up plus the guard pixel.
		if g.RectSize != (f32.Vec2{8, 12}) {
			t.Errorf("glyph %d RectSize = %v", i, g.RectSize)
		}
		if g.FontSize != 10 {
			t.Errorf("glyph %d FontSize = %v", i, g.FontSize)
		}
		if g.Color != (f32.Vec4{1, 1, 1, 1}) {
			t.Errorf("glyph %d Color = %v", i, g.Color)
		}
		if !onGrid(g.RectPos[0], 1) || !onGrid(g.RectPos[1], 1) {
			t.Errorf("glyph %d RectPos %v not on the pixel grid", i, g.RectPos)
		}
		if g.FontT2[0] <= g.FontT1[0] || g.FontT2[1] <= g.FontT1[1] {
			t.Errorf("glyph %d texture rect %v-%v is empty", i, g.FontT1, g.FontT2)
		}
	}
	if fx.atlas.PendingCount() != 2 {
		t.Errorf("PendingCount = %d, want 2", fx.atlas.PendingCount())
	}
}

func TestPlace_PixelSnapping(t *testing.T) {
	fx := newFixture(t)
	for _, dpr := range []float32{1, 1.5, 2, 3} {
		for _, origin := range []f32.Vec2{{0, 0}, {0.3, 0.7}, {12.25, 5.125}} {
			for _, g := range fx.place(t, "snap", origin, dpr) {
				if !onGrid(g.RectPos[0], dpr) || !onGrid(g.RectPos[1], dpr) {
					t.Errorf("dpr %v origin %v: RectPos %v not on the device grid", dpr, origin, g.RectPos)
				}
			}
		}
	}
}

func TestPlace_CharOffsets(t *testing.T) {
	fx := newFixture(t)
	props := fx.props(Wrapping{})
	text := []rune("a b\nc\U0001F600d")
	glyphs, err := Place(fx.atlas, fx.fonts, props.Style, PlaceParams{
		DPR:        2,
		FontScale:  1,
		CharOffset: 5,
	}, text, nil)
	if err != nil {
		t.Fatal(err)
	}
	prev := float32(-1)
	for _, g := range glyphs {
		if g.CharOffset < 5 || g.CharOffset >= float32(5+len(text)) {
			t.Errorf("CharOffset %v outside [5, %d)", g.CharOffset, 5+len(text))
		}
		if g.CharOffset < prev {
			t.Errorf("CharOffset %v after %v", g.CharOffset, prev)
		}
		prev = g.CharOffset
	}
}

func TestPlace_Callback(t *testing.T) {
	fx := newFixture(t)
	props := fx.props(Wrapping{})

	type call struct {
		ch     rune
		offset int
		x, adv float32
	}
	var calls []call
	cb := func(ch rune, offset int, x, advance float32) float32 {
		calls = append(calls, call{ch, offset, x, advance})
		return float32(offset) * 10
	}
	glyphs, err := Place(fx.atlas, fx.fonts, props.Style, PlaceParams{
		DPR:       1,
		FontScale: 1,
		Origin:    f32.Vec2{4, 0},
	}, []rune("xyz"), cb)
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 3 {
		t.Fatalf("callback called %d times, want 3", len(calls))
	}
	for i, c := range calls {
		if c.ch != rune("xyz"[i]) || c.offset != i {
			t.Errorf("call %d = %+v", i, c)
		}
		if !near(c.x, 4+float32(i)*glyphWidth) || !near(c.adv, glyphWidth) {
			t.Errorf("call %d x/advance = %v/%v", i, c.x, c.adv)
		}
		if glyphs[i].Marker != float32(i)*10 {
			t.Errorf("glyph %d Marker = %v", i, glyphs[i].Marker)
		}
	}
}

func TestPlace_OutOfBoundsGlyph(t *testing.T) {
	reg := fonts.NewRegistry()
	box := fonts.Bounds{Max: f32.Vec2{500, 700}}
	f := fonts.NewFont("broken", 1000, []fonts.Glyph{
		{Bounds: box, Advance: 600},
		{Bounds: box, Advance: 600},
	}, map[rune]int{'a': 1, 'b': 1, 'x': 99})
	id := reg.Add(f)
	cache := atlas.NewCacheDefault(reg)

	style := DefaultStyle()
	style.FontID = id
	style.FontSize = 10
	glyphs, err := Place(cache, reg, style, PlaceParams{DPR: 1, FontScale: 1}, []rune("axb"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(glyphs) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(glyphs))
	}
	if glyphs[0].CharOffset != 0 || glyphs[1].CharOffset != 2 {
		t.Errorf("offsets = %v, %v; want 0, 2", glyphs[0].CharOffset, glyphs[1].CharOffset)
	}
	if !near(glyphs[1].Base[0], glyphWidth) {
		t.Errorf("pen moved for skipped glyph: Base.x = %v", glyphs[1].Base[0])
	}
}

func TestPlace_FontScale(t *testing.T) {
	fx := newFixture(t)
	props := fx.props(Wrapping{})
	glyphs, err := Place(fx.atlas, fx.fonts, props.Style, PlaceParams{DPR: 1, FontScale: 2}, []rune("ab"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if glyphs[0].RectSize != (f32.Vec2{16, 24}) {
		t.Errorf("RectSize = %v, want 16x24", glyphs[0].RectSize)
	}
	if !near(glyphs[1].Base[0], 2*glyphWidth) {
		t.Errorf("second glyph Base.x = %v, want %v", glyphs[1].Base[0], 2*glyphWidth)
	}
	// The atlas cell does not depend on the scale.
	unscaled := fx.place(t, "a", f32.Vec2{}, 1)
	if unscaled[0].FontT1 != glyphs[0].FontT1 || unscaled[0].FontT2 != glyphs[0].FontT2 {
		t.Error("scaled glyph uses a different atlas cell")
	}
}

func TestPlace_DepthBias(t *testing.T) {
	fx := newFixture(t)
	props := fx.props(Wrapping{})
	glyphs, err := Place(fx.atlas, fx.fonts, props.Style, PlaceParams{DPR: 1, FontScale: 1, Depth: 3}, []rune("abcd"), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].CharDepth <= glyphs[i-1].CharDepth {
			t.Errorf("CharDepth not increasing at %d: %v <= %v", i, glyphs[i].CharDepth, glyphs[i-1].CharDepth)
		}
	}
	if glyphs[0].CharDepth < 3 || glyphs[0].CharDepth > 3.01 {
		t.Errorf("CharDepth = %v, want about 3", glyphs[0].CharDepth)
	}
}

func TestPlace_Deterministic(t *testing.T) {
	fx := newFixture(t)
	first := fx.place(t, "repeat", f32.Vec2{3, 3}, 2)
	allocs := fx.atlas.Stats().Allocations
	second := fx.place(t, "repeat", f32.Vec2{3, 3}, 2)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("glyph %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if fx.atlas.Stats().Allocations != allocs {
		t.Error("second placement allocated new cells")
	}
}

type failingResolver struct{ err error }

func (r failingResolver) Resolve(fonts.FontID, float32, float32, int, int) (atlas.TextureRect, error) {
	return atlas.TextureRect{}, r.err
}

func TestPlace_Errors(t *testing.T) {
	fx := newFixture(t)
	props := fx.props(Wrapping{})

	bad := props.Style
	bad.FontID = 7
	if _, err := Place(fx.atlas, fx.fonts, bad, PlaceParams{DPR: 1, FontScale: 1}, []rune("a"), nil); !errors.Is(err, fonts.ErrFontNotLoaded) {
		t.Errorf("unknown font: err = %v", err)
	}

	full := &atlas.AtlasFullError{Width: 8, Height: 12}
	_, err := Place(failingResolver{full}, fx.fonts, props.Style, PlaceParams{DPR: 1, FontScale: 1}, []rune("a"), nil)
	if !errors.Is(err, atlas.ErrAtlasFull) {
		t.Errorf("atlas error not propagated: %v", err)
	}
}

func TestPlace_AtlasReset(t *testing.T) {
	fx := newResettingFixture(t)
	style := fx.props(Wrapping{}).Style
	style.FontSize = 40

	// The third cell does not fit; the approved reset ends the run.
	glyphs, err := Place(fx.atlas, fx.fonts, style, PlaceParams{DPR: 1, FontScale: 1}, []rune("ABCDEFGHIJKL"), nil)
	if !errors.Is(err, atlas.ErrAtlasReset) || !errors.Is(err, atlas.ErrAtlasFull) {
		t.Fatalf("err = %v, want ErrAtlasReset wrapping ErrAtlasFull", err)
	}
	if glyphs != nil {
		t.Errorf("got %d glyphs alongside the reset", len(glyphs))
	}
	st := fx.atlas.Stats()
	if st.Generation != 1 || st.Pending != 0 {
		t.Errorf("stats after reset = %+v", st)
	}
}

func TestPlace_SkipsSupplementaryPlane(t *testing.T) {
	fx := newFixture(t)
	glyphs := fx.place(t, "a\U0001F600b", f32.Vec2{10, 20}, 1)

	if len(glyphs) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(glyphs))
	}
	if glyphs[0].CharOffset != 0 || glyphs[1].CharOffset != 2 {
		t.Errorf("CharOffsets = %v, %v; want 0, 2", glyphs[0].CharOffset, glyphs[1].CharOffset)
	}
	if !near(glyphs[1].Base[0], glyphs[0].Base[0]+glyphWidth) {
		t.Errorf("second Base.x = %v, want one advance past %v", glyphs[1].Base[0], glyphs[0].Base[0])
	}

	w := MeasureWidth(fx.font, []rune("a\U0001F600b"), fx.props(Wrapping{}).Style, 1)
	if !near(w, 2*glyphWidth) {
		t.Errorf("MeasureWidth = %v, want %v", w, 2*glyphWidth)
	}
}

func BenchmarkPlace(b *testing.B) {
	fx := newFixture(b)
	props := fx.props(Wrapping{})
	chars := []rune(sample)
	params := PlaceParams{DPR: 2, FontScale: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Place(fx.atlas, fx.fonts, props.Style, params, chars, nil)
	}
}
