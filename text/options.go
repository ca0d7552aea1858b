package text

// WrapOption configures Wrap.
type WrapOption func(*wrapConfig)

// wrapConfig holds configuration for Wrap.
type wrapConfig struct {
	widths *WidthCache
}

// WithWidthCache memoizes chunk measurements in c. A nil c disables
// caching.
func WithWidthCache(c *WidthCache) WrapOption {
	return func(cfg *wrapConfig) {
		cfg.widths = c
	}
}
