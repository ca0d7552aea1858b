// Package glyphs turns strings into positioned, texture-mapped glyph quads
// ready for GPU instancing, and maps screen positions back to character
// offsets for text selection.
//
// # Pipeline
//
//	text + style -> text.Wrap -> chunks -> text.Place -> []text.PlacedGlyph -> Instancer
//
// The pieces live in sub-packages:
//
//   - fonts: font-metrics tables keyed by FontID (sfnt or go-text backends)
//   - atlas: shared glyph atlas cache keyed by (font, glyph, sub-pixel phase)
//   - text: wrapping, placement, hit testing and the draw entry points
//   - layout: a flow layout service that positions chunks
//   - raster: a CPU worker that fills reserved atlas rectangles
//   - gpu: instance encoding, vertex layout, shader and atlas upload
//
// # Example
//
//	reg := fonts.NewRegistry()
//	id, err := reg.Load(goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache, err := atlas.NewCache(reg, atlas.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	batch := gpu.NewBatch(0)
//	env := text.Env{Fonts: reg, Atlas: cache, Instancer: batch, DPR: 2}
//
//	props := text.DefaultProps()
//	props.Style.FontID = id
//	area, err := text.DrawStr(env, "Hello, glyphs!", f32.Vec2{10, 20}, props)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fill the reserved atlas cells, then upload and draw the batch.
//	worker := &raster.Worker{Cache: cache, Fonts: reg}
//	if _, err := worker.Run(); err != nil {
//	    log.Print(err)
//	}
//	instances := batch.Encode(area.Batch)
//
// # Logging
//
// Sub-packages log through [Logger]. Logging is silent until [SetLogger]
// is called.
package glyphs
