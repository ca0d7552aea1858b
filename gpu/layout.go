package gpu

import "github.com/gogpu/gputypes"

// InstanceStride is the size of one encoded instance in bytes.
const InstanceStride = 72

// Offsets of the instance fields within a stride.
const (
	offsetFontT1     = 0
	offsetFontT2     = 8
	offsetColor      = 16
	offsetRectPos    = 32
	offsetRectSize   = 40
	offsetCharDepth  = 48
	offsetBase       = 52
	offsetFontSize   = 60
	offsetCharOffset = 64
	offsetMarker     = 68
)

// InstanceLayout returns the vertex buffer layout of the glyph shader.
// Matches InstanceInput in text.wgsl; the quad corner comes from the
// vertex index, so there is no per-vertex buffer.
func InstanceLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: InstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: offsetFontT1, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: offsetFontT2, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: offsetColor, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x2, Offset: offsetRectPos, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32x2, Offset: offsetRectSize, ShaderLocation: 4},
				{Format: gputypes.VertexFormatFloat32, Offset: offsetCharDepth, ShaderLocation: 5},
				{Format: gputypes.VertexFormatFloat32x2, Offset: offsetBase, ShaderLocation: 6},
				{Format: gputypes.VertexFormatFloat32, Offset: offsetFontSize, ShaderLocation: 7},
				{Format: gputypes.VertexFormatFloat32, Offset: offsetCharOffset, ShaderLocation: 8},
				{Format: gputypes.VertexFormatFloat32, Offset: offsetMarker, ShaderLocation: 9},
			},
		},
	}
}

// TextureDescriptor describes the atlas texture in gputypes terms.
type TextureDescriptor struct {
	Label         string
	Size          gputypes.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
}

// AtlasTextureDescriptor returns the descriptor of a size x size atlas
// texture. The atlas is uploaded as RGBA with coverage in every channel.
func AtlasTextureDescriptor(size int) TextureDescriptor {
	s := uint32(size) //nolint:gosec // atlas size is validated to at most 8192
	return TextureDescriptor{
		Label:         "glyph_atlas",
		Size:          gputypes.Extent3D{Width: s, Height: s, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}
