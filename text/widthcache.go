package text

import (
	"github.com/gogpu/glyphs/fonts"
	"github.com/gogpu/glyphs/internal/lru"
)

// widthKey identifies a measurement. Style fields other than the font and
// size do not affect widths.
type widthKey struct {
	font  fonts.FontID
	size  float32
	scale float32
	text  string
}

func hashWidthKey(k widthKey) uint64 {
	return lru.StringHash(k.text) ^ uint64(k.font)*0x9e3779b97f4a7c15
}

// WidthCache memoizes chunk widths across frames. It is safe for
// concurrent use. Fonts are immutable, so entries never go stale.
type WidthCache struct {
	c *lru.Sharded[widthKey, float32]
}

// NewWidthCache creates a cache holding about capacity entries.
// If capacity <= 0, a default is used.
func NewWidthCache(capacity int) *WidthCache {
	perShard := 0
	if capacity > 0 {
		perShard = (capacity + lru.ShardCount - 1) / lru.ShardCount
	}
	return &WidthCache{c: lru.New[widthKey, float32](perShard, hashWidthKey)}
}

// measure returns the cached width of chars, measuring on a miss.
func (w *WidthCache) measure(id fonts.FontID, f *fonts.Font, chars []rune, style Style, scale float32) float32 {
	key := widthKey{font: id, size: style.FontSize, scale: scale, text: string(chars)}
	return w.c.GetOrCreate(key, func() float32 {
		return MeasureWidth(f, chars, style, scale)
	})
}

// Len returns the number of cached widths.
func (w *WidthCache) Len() int {
	return w.c.Len()
}

// Stats returns hit and miss counters.
func (w *WidthCache) Stats() lru.Stats {
	return w.c.Stats()
}
