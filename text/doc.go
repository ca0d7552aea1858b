// Package text turns strings into placed glyph instances.
//
// The pipeline has three steps:
//
//   - [Wrap] splits a string into [Chunk]s according to a [Wrapping]
//     (none, per character, per word, or truncated with an ellipsis) and
//     measures each chunk.
//   - [Place] lays one chunk out on a line, snapping every glyph quad to
//     the device pixel grid and resolving its cell in the shared glyph
//     atlas at the matching sub-pixel phase.
//   - [ClosestOffset] maps a pointer position back to a character offset
//     using only the placed glyphs.
//
// [DrawStr] and [DrawWalk] combine these steps with an [Instancer] and,
// for DrawWalk, a [Layout] that positions the chunks.
//
// Widths are in logical pixels. A font of size s points has
// s*96/72 logical pixels per em; multiplying by the device pixel ratio
// gives device pixels.
package text
