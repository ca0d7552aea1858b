package atlas

import (
	"math"

	"github.com/gogpu/glyphs/fonts"
)

const (
	// PhaseThreshold is the largest point size that gets sub-pixel
	// variants. Larger text always uses phase 0.
	PhaseThreshold = 32

	// PhaseBuckets is the number of quantization steps per axis.
	PhaseBuckets = 8

	// NumPhases is the number of cache slots per glyph (8 x 8).
	NumPhases = PhaseBuckets * PhaseBuckets
)

// Phase returns the sub-pixel phase index (0..63) for a glyph whose
// placement has fractional offsets fx, fy in logical pixels.
//
// The offsets are converted to device pixels before quantization so that
// a given phase means the same physical shift at every device pixel ratio.
// The result packs the vertical bucket in bits 3..5 and the horizontal
// bucket in bits 0..2.
func Phase(pointSize, fx, fy, dpr float32) int {
	if pointSize > PhaseThreshold {
		return 0
	}
	return quantize(fy*dpr)<<3 | quantize(fx*dpr)
}

// quantize maps a fraction of a device pixel to a bucket in [0, PhaseBuckets).
func quantize(frac float32) int {
	frac -= float32(math.Floor(float64(frac)))
	b := int(frac * PhaseBuckets)
	if b >= PhaseBuckets {
		b = PhaseBuckets - 1
	}
	if b < 0 {
		b = 0
	}
	return b
}

// PhaseOffset returns the device pixel shift a phase stands for.
// It is the lower edge of each bucket.
func PhaseOffset(phase int) (x, y float32) {
	return float32(phase&(PhaseBuckets-1)) / PhaseBuckets,
		float32((phase>>3)&(PhaseBuckets-1)) / PhaseBuckets
}

// GlyphPixelSize returns the atlas cell size for a glyph at fontSizePixels
// (device pixels per font unit): the ink box rounded up to whole pixels
// plus one guard pixel so that the cell always contains the rasterized
// bitmap.
func GlyphPixelSize(g fonts.Glyph, fontSizePixels float32) (w, h float32) {
	w = float32(math.Ceil(float64(g.Bounds.Width()*fontSizePixels))) + 1
	h = float32(math.Ceil(float64(g.Bounds.Height()*fontSizePixels))) + 1
	return w, h
}
