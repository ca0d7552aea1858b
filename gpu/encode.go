package gpu

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs/text"
)

// EncodeInstances packs glyphs into a little-endian instance buffer laid
// out as InstanceLayout describes.
func EncodeInstances(glyphs []text.PlacedGlyph) []byte {
	buf := make([]byte, len(glyphs)*InstanceStride)
	for i := range glyphs {
		encodeInstance(buf[i*InstanceStride:(i+1)*InstanceStride], &glyphs[i])
	}
	return buf
}

func encodeInstance(b []byte, g *text.PlacedGlyph) {
	putVec2(b[offsetFontT1:], g.FontT1)
	putVec2(b[offsetFontT2:], g.FontT2)
	for i, c := range g.Color {
		putFloat(b[offsetColor+4*i:], c)
	}
	putVec2(b[offsetRectPos:], g.RectPos)
	putVec2(b[offsetRectSize:], g.RectSize)
	putFloat(b[offsetCharDepth:], g.CharDepth)
	putVec2(b[offsetBase:], g.Base)
	putFloat(b[offsetFontSize:], g.FontSize)
	putFloat(b[offsetCharOffset:], g.CharOffset)
	putFloat(b[offsetMarker:], g.Marker)
}

func putFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func putVec2(b []byte, v f32.Vec2) {
	putFloat(b, v[0])
	putFloat(b[4:], v[1])
}

// EncodeUniforms packs the shader uniforms for a viewport of width x
// height logical pixels with y pointing down.
func EncodeUniforms(u text.Uniforms, width, height float32, scroll f32.Vec2) []byte {
	b := make([]byte, UniformSize)
	putFloat(b[0:], 2/width)
	putFloat(b[4:], -2/height)
	putFloat(b[8:], -1)
	putFloat(b[12:], 1)
	putVec2(b[16:], scroll)
	putFloat(b[24:], u.Brightness)
	putFloat(b[28:], u.Curve)
	return b
}
