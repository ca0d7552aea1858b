package atlas

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphs"
	"github.com/gogpu/glyphs/fonts"
)

// PendingRasterization is a reserved atlas cell waiting for pixels.
type PendingRasterization struct {
	FontID  fonts.FontID
	PageID  int
	GlyphID int
	Phase   int

	// SubpixelX and SubpixelY are the shift the phase stands for, in
	// device pixels.
	SubpixelX, SubpixelY float32

	// PPEM is the rasterization scale in device pixels per em.
	PPEM float32

	// Rect is the reserved cell in atlas pixels.
	Rect image.Rectangle

	// Generation is the atlas generation the cell belongs to.
	Generation uint64
}

// pageKey selects a page. DPR and point size are compared exactly; the
// values come from the same style and window state on every frame.
type pageKey struct {
	fontID    fonts.FontID
	dpr       float32
	pointSize float32
}

type slotKey struct {
	glyph int
	phase int
}

// page holds the cells of one (font, dpr, size) combination.
type page struct {
	id    int
	key   pageKey
	slots map[slotKey]TextureRect
}

// Cache is the glyph atlas cache.
//
// All state is guarded by one RWMutex. Lookups take the shared lock; a miss
// escalates to the exclusive lock, re-checks the slot and only then
// allocates, so each (page, glyph, phase) is allocated exactly once no
// matter how many goroutines miss on it at the same time.
type Cache struct {
	mu      sync.RWMutex
	config  Config
	fonts   fonts.Source
	atlas   *Atlas
	pages   []*page
	byKey   map[pageKey]*page
	pending []PendingRasterization

	// Statistics (atomic for lock-free reads)
	hits        atomic.Uint64
	misses      atomic.Uint64
	allocations atomic.Uint64
}

// NewCache creates an empty cache over the given fonts.
func NewCache(src fonts.Source, config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Cache{
		config: config,
		fonts:  src,
		atlas:  newAtlas(config.Size),
		byKey:  make(map[pageKey]*page),
	}, nil
}

// NewCacheDefault creates a cache with DefaultConfig.
func NewCacheDefault(src fonts.Source) *Cache {
	c, _ := NewCache(src, DefaultConfig())
	return c
}

// Config returns the configuration the cache was created with.
func (c *Cache) Config() Config {
	return c.config
}

// PageID returns the id of the page for (fontID, dpr, pointSize),
// creating it on first use.
func (c *Cache) PageID(fontID fonts.FontID, dpr, pointSize float32) int {
	key := pageKey{fontID: fontID, dpr: dpr, pointSize: pointSize}

	c.mu.RLock()
	if p, ok := c.byKey[key]; ok {
		c.mu.RUnlock()
		return p.id
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageLocked(key).id
}

// pageLocked finds or creates a page. c.mu must be held exclusively.
func (c *Cache) pageLocked(key pageKey) *page {
	if p, ok := c.byKey[key]; ok {
		return p
	}
	p := &page{
		id:    len(c.pages),
		key:   key,
		slots: make(map[slotKey]TextureRect),
	}
	c.pages = append(c.pages, p)
	c.byKey[key] = p
	glyphs.Logger().Debug("atlas: new page",
		"page", p.id, "font", int(key.fontID), "dpr", key.dpr, "size", key.pointSize)
	return p
}

// Resolve returns the atlas cell for a glyph at a sub-pixel phase,
// reserving one and queueing it for rasterization on first use.
//
// A freshly reserved cell is blank until a rasterizer drains the pending
// queue and fills it; drawing it in the meantime shows nothing.
func (c *Cache) Resolve(fontID fonts.FontID, dpr, pointSize float32, glyphID, phase int) (TextureRect, error) {
	if phase < 0 || phase >= NumPhases {
		return TextureRect{}, fmt.Errorf("%w: %d", ErrInvalidPhase, phase)
	}
	key := pageKey{fontID: fontID, dpr: dpr, pointSize: pointSize}

	// Fast path: check if already cached (read lock)
	c.mu.RLock()
	if p, ok := c.byKey[key]; ok {
		if r, ok := p.slots[slotKey{glyphID, phase}]; ok {
			c.mu.RUnlock()
			c.hits.Add(1)
			return r, nil
		}
	}
	c.mu.RUnlock()

	c.misses.Add(1)
	return c.allocate(key, glyphID, phase)
}

// allocate is the slow path of Resolve.
func (c *Cache) allocate(key pageKey, glyphID, phase int) (TextureRect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if p, ok := c.byKey[key]; ok {
		if r, ok := p.slots[slotKey{glyphID, phase}]; ok {
			return r, nil
		}
	}

	// Validate before creating the page so failed lookups leave no trace.
	font, err := c.fonts.Font(key.fontID)
	if err != nil {
		return TextureRect{}, err
	}
	g, ok := font.Glyph(glyphID)
	if !ok {
		return TextureRect{}, fmt.Errorf("%w: glyph %d, font %d has %d glyphs",
			ErrGlyphOutOfRange, glyphID, key.fontID, font.NumGlyphs())
	}

	fontSizePixels := font.LogicalSize(key.pointSize) * key.dpr
	fw, fh := GlyphPixelSize(g, fontSizePixels)
	w, h := int(fw), int(fh)
	if limit := c.config.maxGlyphPixels(); w > limit || h > limit || !c.atlas.allocator.CanEverFit(w, h) {
		return TextureRect{}, fmt.Errorf("%w: %dx%d cell for glyph %d", ErrGlyphTooLarge, w, h, glyphID)
	}

	cell, ok := c.atlas.allocator.Allocate(w, h)
	if !ok {
		full := &AtlasFullError{
			Width:       w,
			Height:      h,
			Glyphs:      c.atlas.allocator.Count(),
			Utilization: c.atlas.Utilization(),
		}
		glyphs.Logger().Warn("atlas: full", "err", full)
		if c.config.OnFull == nil || !c.config.OnFull(full) {
			return TextureRect{}, full
		}
		// Cells of the caller's current run now point into the cleared
		// atlas and may be handed out again; the whole run has to restart.
		c.resetLocked()
		return TextureRect{}, fmt.Errorf("%w (generation %d): %w", ErrAtlasReset, c.atlas.generation, full)
	}
	p := c.pageLocked(key)

	sx, sy := PhaseOffset(phase)
	c.pending = append(c.pending, PendingRasterization{
		FontID:     key.fontID,
		PageID:     p.id,
		GlyphID:    glyphID,
		Phase:      phase,
		SubpixelX:  sx,
		SubpixelY:  sy,
		PPEM:       fontSizePixels * font.UnitsPerEm,
		Rect:       cell,
		Generation: c.atlas.generation,
	})

	r := c.atlas.texRect(cell)
	p.slots[slotKey{glyphID, phase}] = r
	c.allocations.Add(1)
	glyphs.Logger().Debug("atlas: allocated",
		"page", p.id, "glyph", glyphID, "phase", phase, "rect", cell)
	return r, nil
}

// DrainPending returns the queued rasterization work and empties the
// queue.
func (c *Cache) DrainPending() []PendingRasterization {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.pending
	c.pending = nil
	if len(out) > 0 {
		glyphs.Logger().Debug("atlas: drained pending", "count", len(out))
	}
	return out
}

// PendingCount returns the length of the pending queue.
func (c *Cache) PendingCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pending)
}

// WithAtlas runs fn with exclusive access to the backing texture.
// fn must not call back into the cache.
func (c *Cache) WithAtlas(fn func(a *Atlas) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.atlas)
}

// Reset drops every page, cell and pending item and clears the texture.
// Texture rectangles handed out earlier become invalid; callers must place
// their text again.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Cache) resetLocked() {
	c.pages = c.pages[:0]
	clear(c.byKey)
	c.pending = nil
	c.atlas.reset()
	glyphs.Logger().Info("atlas: reset", "generation", c.atlas.generation)
}

// Stats is a snapshot of cache statistics.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Allocations uint64
	Pages       int
	Pending     int
	Generation  uint64
	Utilization float64
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Allocations: c.allocations.Load(),
		Pages:       len(c.pages),
		Pending:     len(c.pending),
		Generation:  c.atlas.generation,
		Utilization: c.atlas.Utilization(),
	}
}
