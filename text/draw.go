package text

import (
	"errors"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs/atlas"
	"github.com/gogpu/glyphs/fonts"
)

// Area is a handle to a run of instances submitted to an Instancer.
type Area struct {
	// Batch identifies the instance buffer within the Instancer.
	Batch int

	// Start and Count select the instances of the run.
	Start, Count int
}

// Empty reports whether the area holds no instances.
func (a Area) Empty() bool {
	return a.Count == 0
}

// Uniforms are the per-draw parameters of the glyph shader.
type Uniforms struct {
	// Atlas is the texture the FontT coordinates point into.
	Atlas *atlas.Cache

	Brightness float32
	Curve      float32
}

// Instancer is the instancing service that owns glyph instance buffers.
type Instancer interface {
	// AddInstances appends glyphs to the current batch and returns their area.
	AddInstances(glyphs []PlacedGlyph) Area

	// Instances returns the stored instances of area. Changes to the
	// returned slice are visible to the Instancer.
	Instances(area Area) []PlacedGlyph

	// IsFirstInstance reports whether area starts its batch, i.e. whether
	// the batch's uniforms still need to be written.
	IsFirstInstance(area Area) bool

	// WriteUniforms sets the uniforms of area's batch.
	WriteUniforms(area Area, u Uniforms)

	// ScrollOffset returns the scroll position of area's batch.
	ScrollOffset(area Area) f32.Vec2
}

// Layout is the flow layout service DrawWalk reserves boxes in.
type Layout interface {
	// BeginRow opens a wrapping row inset by padding.
	BeginRow(padding Padding)

	// AddBox reserves a width x height box and returns its top-left corner.
	// A NaN component means the box is not visible and need not be drawn.
	AddBox(width, height float32) f32.Vec2

	// NewLine moves to the next line, at least minHeight below the current.
	NewLine(minHeight float32)

	// EndRow closes the row and returns the rectangle it used.
	EndRow() Rect
}

// Env bundles the services the draw entry points use.
type Env struct {
	Fonts     fonts.Source
	Atlas     *atlas.Cache
	Instancer Instancer

	// DPR is the device pixel ratio of the target.
	DPR float32

	// Widths optionally memoizes chunk widths.
	Widths *WidthCache
}

func (env Env) wrap(text string, props Props) ([]Chunk, error) {
	return Wrap(env.Fonts, text, props, WithWidthCache(env.Widths))
}

func (env Env) place(style Style, props Props, origin f32.Vec2, charOffset int, chars []rune) ([]PlacedGlyph, error) {
	return Place(env.Atlas, env.Fonts, style, PlaceParams{
		DPR:        env.DPR,
		FontScale:  props.FontScale,
		Depth:      props.DrawDepth,
		Color:      props.Color,
		Origin:     origin,
		CharOffset: charOffset,
	}, chars, nil)
}

// run is one chunk's placement request.
type run struct {
	origin f32.Vec2
	offset int
	chars  []rune
}

// placeRuns places every run. When the atlas resets partway through, the
// runs placed so far hold cells of the cleared atlas, so all of them are
// placed again, once.
func (env Env) placeRuns(style Style, props Props, runs []run) ([]PlacedGlyph, error) {
	glyphs, err := env.placeAll(style, props, runs)
	if errors.Is(err, atlas.ErrAtlasReset) {
		glyphs, err = env.placeAll(style, props, runs)
	}
	return glyphs, err
}

func (env Env) placeAll(style Style, props Props, runs []run) ([]PlacedGlyph, error) {
	var glyphs []PlacedGlyph
	for _, r := range runs {
		placed, err := env.place(style, props, r.origin, r.offset, r.chars)
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, placed...)
	}
	return glyphs, nil
}

// DrawGlyphsProps are the parameters of DrawGlyphs.
type DrawGlyphsProps struct {
	Style             Style
	PositionAnchoring f32.Vec2
}

// DrawGlyphs submits placed glyphs and writes the shader uniforms when
// they start a batch.
//
// A non-zero anchoring shifts every glyph left by the anchoring's x
// fraction of the total quad width and up by its y fraction of the
// style's top drop. glyphs is not modified.
func DrawGlyphs(env Env, glyphs []PlacedGlyph, props DrawGlyphsProps) (Area, error) {
	if env.Instancer == nil {
		return Area{}, ErrNoInstancer
	}

	if anchor := props.PositionAnchoring; anchor != (f32.Vec2{}) {
		var width float32
		for i := range glyphs {
			width += glyphs[i].RectSize[0]
		}
		dx := width * anchor[0]
		dy := props.Style.FontSize * props.Style.TopDrop * anchor[1]

		moved := make([]PlacedGlyph, len(glyphs))
		copy(moved, glyphs)
		for i := range moved {
			moved[i].RectPos[0] -= dx
			moved[i].RectPos[1] -= dy
		}
		glyphs = moved
	}

	area := env.Instancer.AddInstances(glyphs)
	if env.Instancer.IsFirstInstance(area) {
		env.Instancer.WriteUniforms(area, Uniforms{
			Atlas:      env.Atlas,
			Brightness: props.Style.Brightness,
			Curve:      props.Style.Curve,
		})
	}
	return area, nil
}

// DrawStr draws a single line of text with its top-left corner at pos,
// adjusted by props.PositionAnchoring.
//
// Only WrapNone and WrapEllipsis fit single-line drawing. DrawStr panics
// with ErrMultiChunk when the wrapping splits text into several chunks.
func DrawStr(env Env, text string, pos f32.Vec2, props Props) (Area, error) {
	chunks, err := env.wrap(text, props)
	if err != nil {
		return Area{}, err
	}
	if len(chunks) > 1 {
		panic(ErrMultiChunk)
	}

	var chars []rune
	if len(chunks) == 1 {
		chars = chunks[0].Chars
	}
	glyphs, err := env.placeRuns(props.Style, props, []run{{origin: pos, chars: chars}})
	if err != nil {
		return Area{}, err
	}
	return DrawGlyphs(env, glyphs, DrawGlyphsProps{
		Style:             props.Style,
		PositionAnchoring: props.PositionAnchoring,
	})
}

// DrawWalk draws text through the layout service, reserving one box per
// chunk so that chunks wrap where the row runs out of space. Chunks ending
// in a newline force a line break. Character offsets count from the start
// of text across all chunks, hidden ones included. PositionAnchoring is
// ignored.
func DrawWalk(env Env, layout Layout, text string, props Props) (Area, error) {
	style := props.Style
	chunks, err := env.wrap(text, props)
	if err != nil {
		return Area{}, err
	}

	height := style.FontSize * style.HeightFactor * props.FontScale
	lineHeight := style.FontSize * style.LineSpacing * props.FontScale

	runs := make([]run, 0, len(chunks))
	offset := 0
	layout.BeginRow(props.Padding)
	for _, chunk := range chunks {
		origin := layout.AddBox(chunk.Width, height)
		if !isNaN(origin[0]) && !isNaN(origin[1]) {
			runs = append(runs, run{origin: origin, offset: offset, chars: chunk.Chars})
		}
		offset += len(chunk.Chars)
		if chunk.Newline {
			layout.NewLine(lineHeight)
		}
	}
	layout.EndRow()

	glyphs, err := env.placeRuns(style, props, runs)
	if err != nil {
		return Area{}, err
	}
	return DrawGlyphs(env, glyphs, DrawGlyphsProps{Style: style})
}

// SetColor rewrites the color of every instance in area.
func SetColor(inst Instancer, area Area, color f32.Vec4) {
	glyphs := inst.Instances(area)
	for i := range glyphs {
		glyphs[i].Color = color
	}
}

// ClosestOffsetInArea is ClosestOffset over the instances of a submitted
// area, with pos in view coordinates.
func ClosestOffsetInArea(inst Instancer, area Area, pos f32.Vec2, lineSpacing float32) (int, bool) {
	if area.Empty() {
		return 0, false
	}
	scroll := inst.ScrollOffset(area)
	return ClosestOffset(inst.Instances(area), f32.Vec2{pos[0] + scroll[0], pos[1] + scroll[1]}, lineSpacing)
}

// MonospaceBase returns the advance of '!' in logical pixels per point,
// and the style's line spacing. For a monospace font, multiplying by the
// point size gives the character cell.
func MonospaceBase(src fonts.Source, style Style) (f32.Vec2, error) {
	f, err := src.Font(style.FontID)
	if err != nil {
		return f32.Vec2{}, err
	}
	return f32.Vec2{advanceOf(f, '!') * f.LogicalSize(1), style.LineSpacing}, nil
}

func isNaN(v float32) bool {
	return math.IsNaN(float64(v))
}
