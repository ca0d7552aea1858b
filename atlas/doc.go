// Package atlas implements the shared glyph atlas cache.
//
// Every rasterized glyph lives in one alpha texture. Cells are grouped in
// pages keyed by (font, device pixel ratio, point size) and addressed by
// glyph index and sub-pixel phase. Cells are reserved lazily by
// [Cache.Resolve]; the pixels are produced later by a rasterizer that
// drains [Cache.DrainPending] and writes through [Cache.WithAtlas].
//
// The cache never evicts on its own. When the texture fills up, Resolve
// returns an [*AtlasFullError]; [Cache.Reset] or [Config.OnFull] start over
// with an empty texture.
package atlas
