package raster

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"

	"github.com/gogpu/glyphs/fonts"
)

// Glyph renders the coverage of one glyph into a w x h alpha image.
//
// The outline is scaled to ppem device pixels per em. Horizontally the
// ink's left edge lands at subX. Vertically the ink's bottom edge lands
// at h-1+subY, so the last row is the guard row and every glyph of a run
// rests on the same row of its quad, whose bottom edge is the snapped
// baseline-relative position the placer computes. The sub-pixel phase
// shifts the ink inside the cell.
func Glyph(f *fonts.Font, glyphID int, ppem, subX, subY float32, w, h int) (*image.Alpha, error) {
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	if f.Outliner == nil {
		return dst, nil
	}
	g, ok := f.Glyph(glyphID)
	if !ok {
		return dst, nil
	}
	segs, err := f.Outliner.Outline(glyphID, ppem)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return dst, nil
	}

	scale := ppem / f.UnitsPerEm
	tx := -g.Bounds.Min[0]*scale + subX
	ty := float32(h-1) + subY + g.Bounds.Min[1]*scale

	r := vector.NewRasterizer(w, h)
	r.DrawOp = draw.Src
	fill(r, segs, tx, ty)
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst, nil
}

// fill feeds sfnt segments, offset by (tx, ty), to the rasterizer. Every
// contour is closed explicitly.
func fill(r *vector.Rasterizer, segs sfnt.Segments, tx, ty float32) {
	for i, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				r.ClosePath()
			}
			r.MoveTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpLineTo:
			r.LineTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpQuadTo:
			r.QuadTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
			)
		case sfnt.SegmentOpCubeTo:
			r.CubeTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
				tx+float32(seg.Args[2].X)/64, ty+float32(seg.Args[2].Y)/64,
			)
		}
	}
	r.ClosePath()
}
