package atlas

import "image"

// ShelfAllocator packs rectangles into horizontal shelves.
//
// Each shelf is as tall as the tallest rectangle placed on it so far.
// Rectangles go left to right on the first shelf that can take them; when
// none can, a new shelf is opened below the last one. Space is never
// reclaimed except by Reset.
//
// ShelfAllocator is not safe for concurrent use; Cache guards it with its
// exclusive lock.
type ShelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf

	usedArea int
	count    int
}

// shelf is a horizontal strip of the atlas.
type shelf struct {
	y      int // top of the shelf
	height int // tallest item so far
	x      int // next free column
}

// NewShelfAllocator creates an allocator for a width x height surface.
// padding is added to the right and below each rectangle.
func NewShelfAllocator(width, height, padding int) *ShelfAllocator {
	return &ShelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate reserves a w x h rectangle. It returns false when the surface
// has no room left for it.
func (a *ShelfAllocator) Allocate(w, h int) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	paddedW := w + a.padding
	paddedH := h + a.padding

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+paddedW > a.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow, and only into free space below it.
			if i != len(a.shelves)-1 || s.y+paddedH > a.height {
				continue
			}
			s.height = h
		}
		r := image.Rect(s.x, s.y, s.x+w, s.y+h)
		s.x += paddedW
		a.record(w, h)
		return r, true
	}

	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	if newY+paddedH > a.height || paddedW > a.width {
		return image.Rectangle{}, false
	}

	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: paddedW})
	a.record(w, h)
	return image.Rect(0, newY, w, newY+h), true
}

func (a *ShelfAllocator) record(w, h int) {
	a.usedArea += w * h
	a.count++
}

// CanEverFit reports whether a w x h rectangle fits an empty surface.
func (a *ShelfAllocator) CanEverFit(w, h int) bool {
	return w > 0 && h > 0 && w+a.padding <= a.width && h+a.padding <= a.height
}

// Reset clears all allocations.
func (a *ShelfAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.usedArea = 0
	a.count = 0
}

// Utilization returns the fraction of the surface covered by allocations.
func (a *ShelfAllocator) Utilization() float64 {
	if a.width <= 0 || a.height <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(a.width*a.height)
}

// Count returns the number of live allocations.
func (a *ShelfAllocator) Count() int {
	return a.count
}

// ShelfCount returns the number of shelves in use.
func (a *ShelfAllocator) ShelfCount() int {
	return len(a.shelves)
}
