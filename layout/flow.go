// Package layout provides a minimal flow layout for text.DrawWalk.
package layout

import (
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs/text"
)

// Flow lays boxes out left to right, wrapping to a new line when a box
// would cross MaxWidth. Rows stack downwards from Origin.
//
// Flow implements text.Layout. It is not safe for concurrent use.
type Flow struct {
	// Origin is the top-left corner of the first row.
	Origin f32.Vec2

	// MaxWidth is the row width including padding. Zero disables wrapping.
	MaxWidth float32

	// Clip, when set, hides boxes that lie entirely outside it: AddBox
	// reports them with NaN coordinates.
	Clip *text.Rect

	started bool
	next    f32.Vec2 // top-left of the next row

	inRow   bool
	rowPos  f32.Vec2
	padding text.Padding
	cursor  f32.Vec2
	lineH   float32
	right   float32
}

// NewFlow creates a flow at origin wrapping at maxWidth.
func NewFlow(origin f32.Vec2, maxWidth float32) *Flow {
	return &Flow{Origin: origin, MaxWidth: maxWidth}
}

// BeginRow opens a row below the previous one.
func (f *Flow) BeginRow(padding text.Padding) {
	if !f.started {
		f.next = f.Origin
		f.started = true
	}
	f.inRow = true
	f.rowPos = f.next
	f.padding = padding
	f.cursor = f32.Vec2{f.rowPos[0] + padding.Left, f.rowPos[1] + padding.Top}
	f.lineH = 0
	f.right = f.cursor[0]
}

func (f *Flow) lineStart() float32 {
	return f.rowPos[0] + f.padding.Left
}

// AddBox reserves a box and returns its top-left corner.
func (f *Flow) AddBox(width, height float32) f32.Vec2 {
	if !f.inRow {
		f.BeginRow(text.Padding{})
	}
	if f.MaxWidth > 0 && f.cursor[0] > f.lineStart() {
		limit := f.rowPos[0] + f.MaxWidth - f.padding.Right
		if f.cursor[0]+width > limit {
			f.NewLine(0)
		}
	}

	pos := f.cursor
	f.cursor[0] += width
	f.lineH = max(f.lineH, height)
	f.right = max(f.right, f.cursor[0])

	if f.Clip != nil && !overlaps(*f.Clip, text.Rect{Pos: pos, Size: f32.Vec2{width, height}}) {
		nan := float32(math.NaN())
		return f32.Vec2{nan, nan}
	}
	return pos
}

// NewLine moves to the start of the next line, at least minHeight below
// the top of the current one.
func (f *Flow) NewLine(minHeight float32) {
	f.cursor[1] += max(f.lineH, minHeight)
	f.cursor[0] = f.lineStart()
	f.lineH = 0
}

// EndRow closes the row and returns the rectangle it covered, padding
// included.
func (f *Flow) EndRow() text.Rect {
	bottom := f.cursor[1] + f.lineH + f.padding.Bottom
	r := text.Rect{
		Pos:  f.rowPos,
		Size: f32.Vec2{f.right + f.padding.Right - f.rowPos[0], bottom - f.rowPos[1]},
	}
	f.next = f32.Vec2{f.Origin[0], bottom}
	f.inRow = false
	return r
}

// Cursor returns the position the next box would take without wrapping.
func (f *Flow) Cursor() f32.Vec2 {
	return f.cursor
}

func overlaps(a, b text.Rect) bool {
	return a.Pos[0] < b.Pos[0]+b.Size[0] && b.Pos[0] < a.Pos[0]+a.Size[0] &&
		a.Pos[1] < b.Pos[1]+b.Size[1] && b.Pos[1] < a.Pos[1]+a.Size[1]
}
