package text

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs/fonts"
)

// Style selects a font and its rendering parameters.
type Style struct {
	FontID fonts.FontID

	// FontSize is the size in points.
	FontSize float32

	// Brightness and Curve shape the coverage-to-alpha ramp in the shader.
	Brightness float32
	Curve      float32

	// LineSpacing is the line advance as a multiple of FontSize.
	LineSpacing float32

	// TopDrop moves the baseline down from the top of the line box, as a
	// multiple of FontSize.
	TopDrop float32

	// HeightFactor is the layout box height as a multiple of FontSize.
	HeightFactor float32
}

// DefaultStyle returns the default style for font 0.
func DefaultStyle() Style {
	return Style{
		FontSize:     8,
		Brightness:   1,
		Curve:        0.6,
		LineSpacing:  1.4,
		TopDrop:      1.1,
		HeightFactor: 1.3,
	}
}

// WrapMode selects where text is split into chunks.
type WrapMode uint8

const (
	// WrapNone splits only after newlines.
	WrapNone WrapMode = iota

	// WrapChar makes every character its own chunk.
	WrapChar

	// WrapWord splits after every whitespace character.
	WrapWord

	// WrapEllipsis truncates to a single chunk, see Ellipsis.
	WrapEllipsis
)

// String returns the string representation of the wrap mode.
func (m WrapMode) String() string {
	switch m {
	case WrapNone:
		return "None"
	case WrapChar:
		return "Char"
	case WrapWord:
		return "Word"
	case WrapEllipsis:
		return "Ellipsis"
	default:
		return "Unknown"
	}
}

// ParseWrapMode returns the wrap mode named s, case-insensitively.
func ParseWrapMode(s string) (WrapMode, error) {
	for m := WrapNone; m <= WrapEllipsis; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return WrapNone, fmt.Errorf("%w: %q", ErrUnknownWrapMode, s)
}

// Wrapping is a wrap mode plus the width budget used by WrapEllipsis.
// The zero value is WrapNone.
type Wrapping struct {
	Mode     WrapMode
	MaxWidth float32
}

// Ellipsis returns a Wrapping that truncates text to maxWidth logical
// pixels, ending it with "..." when there is room.
func Ellipsis(maxWidth float32) Wrapping {
	return Wrapping{Mode: WrapEllipsis, MaxWidth: maxWidth}
}

// Padding is space around a walked text row, in logical pixels.
type Padding struct {
	Left, Top, Right, Bottom float32
}

// Rect is an axis-aligned rectangle in logical pixels.
type Rect struct {
	Pos  f32.Vec2
	Size f32.Vec2
}

// Anchors for DrawStr and DrawGlyphs. They can be added together, e.g.
// AnchorRight + AnchorBottom; each component scales the string's extent.
var (
	AnchorLeft    = f32.Vec2{0, 0}
	AnchorCenterH = f32.Vec2{0.5, 0}
	AnchorRight   = f32.Vec2{1, 0}
	AnchorTop     = f32.Vec2{0, 0}
	AnchorCenterV = f32.Vec2{0, 0.5}
	AnchorBottom  = f32.Vec2{0, 1}
)

// Props are the parameters of the draw entry points.
type Props struct {
	Style    Style
	Wrapping Wrapping

	// FontScale scales glyphs and advances without changing the atlas
	// bucket they are rasterized in.
	FontScale float32

	DrawDepth float32
	Color     f32.Vec4

	// PositionAnchoring is used by DrawStr only. The zero value anchors
	// the top-left corner of the string at the position.
	PositionAnchoring f32.Vec2

	// Padding is used by DrawWalk only.
	Padding Padding
}

// DefaultProps returns white, unscaled, unwrapped text in DefaultStyle.
func DefaultProps() Props {
	return Props{
		Style:     DefaultStyle(),
		FontScale: 1,
		Color:     f32.Vec4{1, 1, 1, 1},
	}
}

// AddAnchors sums anchor vectors.
func AddAnchors(anchors ...f32.Vec2) f32.Vec2 {
	var v f32.Vec2
	for _, a := range anchors {
		v[0] += a[0]
		v[1] += a[1]
	}
	return v
}
