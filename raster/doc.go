// Package raster fills glyph atlas cells.
//
// A [Worker] drains the pending queue of an atlas cache, renders each
// glyph outline with golang.org/x/image/vector at the cell's scale and
// sub-pixel phase, and copies the coverage into the atlas texture.
package raster
