package atlas

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrAtlasFull is matched by *AtlasFullError.
	ErrAtlasFull = errors.New("atlas: texture full")

	// ErrGlyphTooLarge is returned when a glyph cell exceeds
	// Config.MaxGlyphPixels or the atlas itself.
	ErrGlyphTooLarge = errors.New("atlas: glyph too large")

	// ErrGlyphOutOfRange is returned for a glyph index outside the font's
	// glyph table.
	ErrGlyphOutOfRange = errors.New("atlas: glyph index out of range")

	// ErrAtlasReset is returned by Resolve when Config.OnFull approved a
	// reset. Every cell handed out before is invalid; callers must resolve
	// their whole run again.
	ErrAtlasReset = errors.New("atlas: reset after running full")

	// ErrInvalidPhase is returned for a phase outside [0, NumPhases).
	ErrInvalidPhase = errors.New("atlas: invalid sub-pixel phase")
)

// AtlasFullError reports a failed allocation in a full atlas.
type AtlasFullError struct {
	// Width and Height are the requested cell size in pixels.
	Width, Height int

	// Glyphs is the number of cells allocated when the request failed.
	Glyphs int

	// Utilization is the covered fraction of the atlas.
	Utilization float64
}

func (e *AtlasFullError) Error() string {
	return fmt.Sprintf("atlas: texture full: cannot fit %dx%d cell (%d glyphs, %.1f%% used)",
		e.Width, e.Height, e.Glyphs, e.Utilization*100)
}

// Unwrap lets errors.Is match ErrAtlasFull.
func (e *AtlasFullError) Unwrap() error {
	return ErrAtlasFull
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
