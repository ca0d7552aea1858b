package atlas

// Config holds atlas cache configuration.
type Config struct {
	// Size is the atlas texture size (width = height).
	// Must be a power of 2. Default: 2048
	Size int

	// MaxGlyphPixels caps the width and height of a single glyph cell.
	// Zero means Size.
	MaxGlyphPixels int

	// OnFull is called, with the cache's exclusive lock held, when an
	// allocation does not fit. Returning true resets the cache, and Resolve
	// reports ErrAtlasReset so the caller can start its run over. It must
	// not call back into the cache.
	OnFull func(err *AtlasFullError) bool
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Size: 2048,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Size < 64 {
		return &ConfigError{Field: "Size", Reason: "must be at least 64"}
	}
	if c.Size > 8192 {
		return &ConfigError{Field: "Size", Reason: "must be at most 8192"}
	}
	if c.Size&(c.Size-1) != 0 {
		return &ConfigError{Field: "Size", Reason: "must be power of 2"}
	}
	if c.MaxGlyphPixels < 0 {
		return &ConfigError{Field: "MaxGlyphPixels", Reason: "must be non-negative"}
	}
	if c.MaxGlyphPixels > c.Size {
		return &ConfigError{Field: "MaxGlyphPixels", Reason: "must be at most Size"}
	}
	return nil
}

func (c *Config) maxGlyphPixels() int {
	if c.MaxGlyphPixels == 0 {
		return c.Size
	}
	return c.MaxGlyphPixels
}
