package text

import (
	"unicode"

	"github.com/gogpu/glyphs/fonts"
)

// maxMeasuredRune is the first code point that is never measured.
const maxMeasuredRune = 0x10000

// ellipsisMarker is drawn with three periods; a dedicated ellipsis glyph
// is missing from many fonts.
var ellipsisMarker = []rune("...")

// Chunk is a run of text laid out as one box.
type Chunk struct {
	Chars []rune

	// Width is the advance width in logical pixels.
	Width float32

	// Newline requests a line break after the chunk.
	Newline bool
}

// String returns the chunk text.
func (c Chunk) String() string {
	return string(c.Chars)
}

// MeasureWidth returns the advance width of chars in logical pixels.
// Newlines and characters outside the Basic Multilingual Plane have no
// width.
func MeasureWidth(f *fonts.Font, chars []rune, style Style, scale float32) float32 {
	logical := f.LogicalSize(style.FontSize)
	var width float32
	for _, c := range chars {
		if c >= maxMeasuredRune || c == '\n' {
			continue
		}
		width += advanceOf(f, c) * logical * scale
	}
	return width
}

// advanceOf returns the advance of c in font units, or 0 when c maps
// outside the glyph table.
func advanceOf(f *fonts.Font, c rune) float32 {
	g, ok := f.Glyph(f.GlyphIndex(c))
	if !ok {
		return 0
	}
	return g.Advance
}

// Wrap splits text into chunks according to props.Wrapping.
//
// For every mode except WrapEllipsis, concatenating the chunks yields text
// unchanged; newlines stay in the chunk they end. WrapEllipsis always
// yields exactly one chunk.
func Wrap(src fonts.Source, text string, props Props, opts ...WrapOption) ([]Chunk, error) {
	var cfg wrapConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	id := props.Style.FontID
	f, err := src.Font(id)
	if err != nil {
		return nil, err
	}

	measure := func(chars []rune) float32 {
		if cfg.widths != nil {
			return cfg.widths.measure(id, f, chars, props.Style, props.FontScale)
		}
		return MeasureWidth(f, chars, props.Style, props.FontScale)
	}

	runes := []rune(text)
	var split func(rune) bool
	switch props.Wrapping.Mode {
	case WrapEllipsis:
		return []Chunk{truncate(f, runes, props)}, nil
	case WrapChar:
		split = func(rune) bool { return true }
	case WrapWord:
		split = unicode.IsSpace
	default:
		split = func(r rune) bool { return r == '\n' }
	}

	chunks := make([]Chunk, 0, 4)
	start := 0
	for i, r := range runes {
		if split(r) {
			chunks = append(chunks, newChunk(runes[start:i+1], measure))
			start = i + 1
		}
	}
	if start < len(runes) {
		chunks = append(chunks, newChunk(runes[start:], measure))
	}
	return chunks, nil
}

func newChunk(chars []rune, measure func([]rune) float32) Chunk {
	return Chunk{
		Chars:   chars,
		Width:   measure(chars),
		Newline: chars[len(chars)-1] == '\n',
	}
}

// truncate implements WrapEllipsis.
//
// Characters are taken while they fit in MaxWidth minus the marker. The
// last character is still taken when it is no wider than the marker and
// fits the full budget. On overflow the marker is appended only if it
// fits; otherwise the prefix is returned bare.
func truncate(f *fonts.Font, runes []rune, props Props) Chunk {
	maxWidth := props.Wrapping.MaxWidth
	unit := f.LogicalSize(props.Style.FontSize) * props.FontScale
	ellipsisWidth := float32(len(ellipsisMarker)) * advanceOf(f, '.') * unit

	chars := make([]rune, 0, len(runes)+len(ellipsisMarker))
	var width float32
	for i, c := range runes {
		if c >= maxMeasuredRune {
			chars = append(chars, c)
			continue
		}
		last := i == len(runes)-1
		glyphWidth := advanceOf(f, c) * unit
		if c == '\n' {
			glyphWidth = 0
		}

		fitsAsLast := last && glyphWidth <= ellipsisWidth && width+glyphWidth <= maxWidth
		if width+glyphWidth >= maxWidth-ellipsisWidth && !fitsAsLast {
			if width+ellipsisWidth <= maxWidth {
				chars = append(chars, ellipsisMarker...)
				width += ellipsisWidth
			}
			return Chunk{Chars: chars, Width: width}
		}
		chars = append(chars, c)
		width += glyphWidth
	}
	return Chunk{Chars: chars, Width: width}
}
