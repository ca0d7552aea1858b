// Package gpu is a reference instancing service for placed glyphs.
//
// [Batch] implements text.Instancer on the CPU and groups instances into
// draw batches. [EncodeInstances] packs a batch into the per-instance
// vertex buffer described by [InstanceLayout], which the embedded WGSL
// shader consumes: each instance expands to a quad sampling the glyph
// atlas. [AtlasUploader] mirrors the single-channel atlas into an RGBA
// texture owned by the host's gpucontext.
//
// The package never creates a device. Pipelines, bind groups and draw
// calls belong to the host renderer.
package gpu
