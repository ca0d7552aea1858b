package text

import (
	"math"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs/atlas"
	"github.com/gogpu/glyphs/fonts"
)

// glyphWidth is the monospace advance at 10pt in logical pixels.
const glyphWidth = 8

type testFixture struct {
	fonts *fonts.Registry
	atlas *atlas.Cache
	id    fonts.FontID
	font  *fonts.Font
}

func newFixture(t testing.TB) *testFixture {
	t.Helper()
	reg := fonts.NewRegistry()
	f := fonts.NewMonospace()
	id := reg.Add(f)
	cache, err := atlas.NewCache(reg, atlas.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return &testFixture{fonts: reg, atlas: cache, id: id, font: f}
}

// newResettingFixture backs the fixture with a 64 pixel atlas whose OnFull
// always approves a reset. At 40pt it holds two monospace cells.
func newResettingFixture(t testing.TB) *testFixture {
	t.Helper()
	fx := newFixture(t)
	cache, err := atlas.NewCache(fx.fonts, atlas.Config{
		Size:   64,
		OnFull: func(*atlas.AtlasFullError) bool { return true },
	})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	fx.atlas = cache
	return fx
}

func (fx *testFixture) props(w Wrapping) Props {
	p := DefaultProps()
	p.Style.FontID = fx.id
	p.Style.FontSize = 10
	p.Wrapping = w
	return p
}

func (fx *testFixture) env(inst Instancer) Env {
	return Env{Fonts: fx.fonts, Atlas: fx.atlas, Instancer: inst, DPR: 1}
}

func (fx *testFixture) place(t testing.TB, s string, origin f32.Vec2, dpr float32) []PlacedGlyph {
	t.Helper()
	props := fx.props(Wrapping{})
	glyphs, err := Place(fx.atlas, fx.fonts, props.Style, PlaceParams{
		DPR:       dpr,
		FontScale: 1,
		Color:     props.Color,
		Origin:    origin,
	}, []rune(s), nil)
	if err != nil {
		t.Fatalf("Place(%q): %v", s, err)
	}
	return glyphs
}

// recordingInstancer is an in-memory Instancer with one batch.
type recordingInstancer struct {
	instances []PlacedGlyph
	uniforms  []Uniforms
	scroll    f32.Vec2
}

func (r *recordingInstancer) AddInstances(glyphs []PlacedGlyph) Area {
	area := Area{Start: len(r.instances), Count: len(glyphs)}
	r.instances = append(r.instances, glyphs...)
	return area
}

func (r *recordingInstancer) Instances(area Area) []PlacedGlyph {
	return r.instances[area.Start : area.Start+area.Count]
}

func (r *recordingInstancer) IsFirstInstance(area Area) bool {
	return area.Start == 0
}

func (r *recordingInstancer) WriteUniforms(_ Area, u Uniforms) {
	r.uniforms = append(r.uniforms, u)
}

func (r *recordingInstancer) ScrollOffset(Area) f32.Vec2 {
	return r.scroll
}

// recordingLayout places boxes left to right on lines of fixed height.
type recordingLayout struct {
	x, y      float32
	lineH     float32
	boxes     []Rect
	newLines  []float32
	began     int
	ended     int
	hideAfter int // boxes past this index return NaN; 0 disables
}

func (l *recordingLayout) BeginRow(Padding) { l.began++ }

func (l *recordingLayout) AddBox(w, h float32) f32.Vec2 {
	pos := f32.Vec2{l.x, l.y}
	l.boxes = append(l.boxes, Rect{Pos: pos, Size: f32.Vec2{w, h}})
	l.x += w
	if h > l.lineH {
		l.lineH = h
	}
	if l.hideAfter > 0 && len(l.boxes) > l.hideAfter {
		nan := float32(math.NaN())
		return f32.Vec2{nan, nan}
	}
	return pos
}

func (l *recordingLayout) NewLine(minHeight float32) {
	l.newLines = append(l.newLines, minHeight)
	l.y += max(l.lineH, minHeight)
	l.x = 0
	l.lineH = 0
}

func (l *recordingLayout) EndRow() Rect {
	l.ended++
	return Rect{}
}
