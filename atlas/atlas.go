package atlas

import (
	"image"
)

// TextureRect is a glyph cell in normalized texture coordinates.
// (TX1, TY1) is the cell's top-left texel corner and (TX2, TY2) the
// bottom-right one. A TextureRect never changes once allocated.
type TextureRect struct {
	TX1, TY1, TX2, TY2 float32
}

// Atlas is the single alpha texture shared by every page.
//
// An Atlas is only reachable through Cache.WithAtlas, which holds the
// cache's exclusive lock for the duration of the callback.
type Atlas struct {
	img        *image.Alpha
	allocator  *ShelfAllocator
	dirty      bool
	generation uint64
}

func newAtlas(size int) *Atlas {
	return &Atlas{
		img:       image.NewAlpha(image.Rect(0, 0, size, size)),
		allocator: NewShelfAllocator(size, size, 0),
	}
}

// Image returns the backing store. Reserved cells that have not been
// rasterized yet are zero.
func (a *Atlas) Image() *image.Alpha {
	return a.img
}

// Size returns the texture width (= height) in pixels.
func (a *Atlas) Size() int {
	return a.img.Rect.Dx()
}

// MarkDirty records that pixels changed since the last upload.
func (a *Atlas) MarkDirty() {
	a.dirty = true
}

// MarkClean records that the texture has been uploaded.
func (a *Atlas) MarkClean() {
	a.dirty = false
}

// IsDirty reports whether the atlas needs uploading.
func (a *Atlas) IsDirty() bool {
	return a.dirty
}

// Generation is incremented by every Cache.Reset. Pending items and
// texture rectangles from an older generation are stale.
func (a *Atlas) Generation() uint64 {
	return a.generation
}

// Utilization returns the fraction of the texture covered by cells.
func (a *Atlas) Utilization() float64 {
	return a.allocator.Utilization()
}

func (a *Atlas) texRect(r image.Rectangle) TextureRect {
	size := float32(a.Size())
	return TextureRect{
		TX1: float32(r.Min.X) / size,
		TY1: float32(r.Min.Y) / size,
		TX2: float32(r.Max.X) / size,
		TY2: float32(r.Max.Y) / size,
	}
}

func (a *Atlas) reset() {
	clear(a.img.Pix)
	a.allocator.Reset()
	a.generation++
	a.dirty = true
}
