package atlas

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/glyphs/fonts"
)

func newTestCache(t *testing.T, config Config) (*Cache, fonts.FontID, *fonts.Font) {
	t.Helper()
	reg := fonts.NewRegistry()
	f := fonts.NewMonospace()
	id := reg.Add(f)
	c, err := NewCache(reg, config)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return c, id, f
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"too small", Config{Size: 32}, true},
		{"too large", Config{Size: 16384}, true},
		{"not power of 2", Config{Size: 1000}, true},
		{"negative max", Config{Size: 64, MaxGlyphPixels: -1}, true},
		{"max above size", Config{Size: 64, MaxGlyphPixels: 65}, true},
		{"max set", Config{Size: 64, MaxGlyphPixels: 32}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			var ce *ConfigError
			if err != nil && !errors.As(err, &ce) {
				t.Errorf("error %T is not *ConfigError", err)
			}
		})
	}
}

func TestCache_ResolveAllocatesOnce(t *testing.T) {
	c, id, f := newTestCache(t, DefaultConfig())
	gid := f.GlyphIndex('A')

	r1, err := c.Resolve(id, 1, 10, gid, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	r2, err := c.Resolve(id, 1, 10, gid, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r1 != r2 {
		t.Errorf("second Resolve = %+v, want %+v", r2, r1)
	}

	st := c.Stats()
	if st.Allocations != 1 || st.Hits != 1 || st.Misses != 1 {
		t.Errorf("stats = %+v, want 1 allocation, 1 hit, 1 miss", st)
	}
	if st.Pages != 1 || st.Pending != 1 {
		t.Errorf("stats = %+v, want 1 page, 1 pending", st)
	}
}

func TestCache_ResolveRect(t *testing.T) {
	c, id, f := newTestCache(t, Config{Size: 256})
	gid := f.GlyphIndex('A')

	r, err := c.Resolve(id, 1, 10, gid, 5)
	if err != nil {
		t.Fatal(err)
	}
	// 480 x 800 units at 10pt: 6.4 x 10.67 px, rounded up plus guard.
	if r.TX1 != 0 || r.TY1 != 0 || r.TX2 != 8.0/256 || r.TY2 != 12.0/256 {
		t.Errorf("rect = %+v", r)
	}

	pending := c.DrainPending()
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	p := pending[0]
	if p.FontID != id || p.GlyphID != gid || p.Phase != 5 {
		t.Errorf("pending = %+v", p)
	}
	if p.Rect.Dx() != 8 || p.Rect.Dy() != 12 {
		t.Errorf("pending rect = %v", p.Rect)
	}
	if p.SubpixelX != 5.0/8 || p.SubpixelY != 0 {
		t.Errorf("subpixel = %v, %v", p.SubpixelX, p.SubpixelY)
	}
	if c.PendingCount() != 0 {
		t.Error("DrainPending did not empty the queue")
	}
}

func TestCache_DistinctKeys(t *testing.T) {
	c, id, f := newTestCache(t, DefaultConfig())
	gid := f.GlyphIndex('A')

	base, _ := c.Resolve(id, 1, 10, gid, 0)
	others := []struct {
		name  string
		dpr   float32
		size  float32
		glyph int
		phase int
	}{
		{"phase", 1, 10, gid, 1},
		{"glyph", 1, 10, f.GlyphIndex('B'), 0},
		{"dpr", 2, 10, gid, 0},
		{"size", 1, 12, gid, 0},
	}
	for _, o := range others {
		r, err := c.Resolve(id, o.dpr, o.size, o.glyph, o.phase)
		if err != nil {
			t.Fatalf("%s: %v", o.name, err)
		}
		if r == base {
			t.Errorf("%s: shares the cell of the base key", o.name)
		}
	}
	if got := c.Stats().Pages; got != 3 {
		t.Errorf("Pages = %d, want 3", got)
	}
}

func TestCache_PageID(t *testing.T) {
	c, id, _ := newTestCache(t, DefaultConfig())

	p1 := c.PageID(id, 1, 10)
	p2 := c.PageID(id, 2, 10)
	if p1 == p2 {
		t.Error("different dpr share a page")
	}
	if again := c.PageID(id, 1, 10); again != p1 {
		t.Errorf("PageID not stable: %d then %d", p1, again)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c, id, f := newTestCache(t, DefaultConfig())
	gid := f.GlyphIndex('g')

	const goroutines = 32
	rects := make([]TextureRect, goroutines)
	errs := make([]error, goroutines)

	var start, wg sync.WaitGroup
	start.Add(1)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start.Wait()
			rects[i], errs[i] = c.Resolve(id, 1, 10, gid, 9)
		}(i)
	}
	start.Done()
	wg.Wait()

	for i := range rects {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if rects[i] != rects[0] {
			t.Fatalf("goroutine %d got %+v, want %+v", i, rects[i], rects[0])
		}
	}
	if n := c.Stats().Allocations; n != 1 {
		t.Errorf("Allocations = %d, want 1", n)
	}
	if n := c.PendingCount(); n != 1 {
		t.Errorf("PendingCount = %d, want 1", n)
	}
}

func TestCache_ConcurrentMixed(t *testing.T) {
	c, id, f := newTestCache(t, DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 'a'; r <= 'z'; r++ {
				for phase := 0; phase < 4; phase++ {
					if _, err := c.Resolve(id, 1, 10, f.GlyphIndex(r), phase); err != nil {
						t.Error(err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	if n := c.Stats().Allocations; n != 26*4 {
		t.Errorf("Allocations = %d, want %d", n, 26*4)
	}
}

func TestCache_Full(t *testing.T) {
	c, id, f := newTestCache(t, Config{Size: 64})
	gid := f.GlyphIndex('A')

	// 8 x 12 cells: 8 per shelf, 5 shelves.
	for phase := 0; phase < 40; phase++ {
		if _, err := c.Resolve(id, 1, 10, gid, phase); err != nil {
			t.Fatalf("phase %d: %v", phase, err)
		}
	}
	_, err := c.Resolve(id, 1, 10, gid, 40)
	if !errors.Is(err, ErrAtlasFull) {
		t.Fatalf("err = %v, want ErrAtlasFull", err)
	}
	var full *AtlasFullError
	if !errors.As(err, &full) {
		t.Fatalf("err %T is not *AtlasFullError", err)
	}
	if full.Width != 8 || full.Height != 12 || full.Glyphs != 40 {
		t.Errorf("full = %+v", full)
	}

	// Existing cells are still served.
	if _, err := c.Resolve(id, 1, 10, gid, 0); err != nil {
		t.Errorf("cached Resolve after full: %v", err)
	}

	c.Reset()
	st := c.Stats()
	if st.Pages != 0 || st.Pending != 0 || st.Generation != 1 {
		t.Errorf("stats after Reset = %+v", st)
	}
	if _, err := c.Resolve(id, 1, 10, gid, 40); err != nil {
		t.Errorf("Resolve after Reset: %v", err)
	}
}

func TestCache_OnFullResets(t *testing.T) {
	var calls int
	config := Config{
		Size: 64,
		OnFull: func(*AtlasFullError) bool {
			calls++
			return true
		},
	}
	c, id, f := newTestCache(t, config)
	gid := f.GlyphIndex('A')

	// 40 cells fit; the 41st triggers the reset.
	for phase := 0; phase < 40; phase++ {
		if _, err := c.Resolve(id, 1, 10, gid, phase); err != nil {
			t.Fatalf("phase %d: %v", phase, err)
		}
	}
	_, err := c.Resolve(id, 1, 10, gid, 40)
	if !errors.Is(err, ErrAtlasReset) || !errors.Is(err, ErrAtlasFull) {
		t.Fatalf("err = %v, want ErrAtlasReset wrapping ErrAtlasFull", err)
	}
	if calls != 1 {
		t.Errorf("OnFull called %d times, want 1", calls)
	}
	st := c.Stats()
	if st.Generation != 1 || st.Pending != 0 || st.Pages != 0 {
		t.Errorf("stats = %+v, want an empty generation 1", st)
	}

	if _, err := c.Resolve(id, 1, 10, gid, 40); err != nil {
		t.Fatalf("retry after reset: %v", err)
	}
	if st := c.Stats(); st.Pending != 1 {
		t.Errorf("pending = %d, want 1", st.Pending)
	}
}

func TestCache_Errors(t *testing.T) {
	c, id, f := newTestCache(t, Config{Size: 64, MaxGlyphPixels: 16})

	if _, err := c.Resolve(id, 1, 10, 0, NumPhases); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("phase 64: err = %v", err)
	}
	if _, err := c.Resolve(id, 1, 10, f.NumGlyphs(), 0); !errors.Is(err, ErrGlyphOutOfRange) {
		t.Errorf("glyph out of range: err = %v", err)
	}
	if _, err := c.Resolve(fonts.FontID(99), 1, 10, 0, 0); !errors.Is(err, fonts.ErrFontNotLoaded) {
		t.Errorf("unknown font: err = %v", err)
	}
	if _, err := c.Resolve(id, 1, 30, f.GlyphIndex('A'), 0); !errors.Is(err, ErrGlyphTooLarge) {
		t.Errorf("large glyph: err = %v", err)
	}
	if st := c.Stats(); st.Allocations != 0 || st.Pages != 0 {
		t.Errorf("failed Resolve left state behind: %+v", st)
	}
}

func TestCache_WithAtlas(t *testing.T) {
	c, id, f := newTestCache(t, Config{Size: 64})
	if _, err := c.Resolve(id, 1, 10, f.GlyphIndex('A'), 0); err != nil {
		t.Fatal(err)
	}

	err := c.WithAtlas(func(a *Atlas) error {
		if a.Size() != 64 {
			t.Errorf("Size = %d", a.Size())
		}
		if a.Image().AlphaAt(0, 0).A != 0 {
			t.Error("reserved cell is not blank")
		}
		a.Image().Pix[0] = 0xff
		a.MarkDirty()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	sentinel := errors.New("upload failed")
	err = c.WithAtlas(func(a *Atlas) error {
		if !a.IsDirty() {
			t.Error("atlas not dirty after write")
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("WithAtlas err = %v", err)
	}

	c.Reset()
	_ = c.WithAtlas(func(a *Atlas) error {
		if a.Image().Pix[0] != 0 {
			t.Error("Reset did not clear pixels")
		}
		if a.Generation() != 1 {
			t.Errorf("Generation = %d", a.Generation())
		}
		return nil
	})
}

func BenchmarkCache_ResolveHit(b *testing.B) {
	reg := fonts.NewRegistry()
	f := fonts.NewMonospace()
	id := reg.Add(f)
	c := NewCacheDefault(reg)
	gid := f.GlyphIndex('x')
	_, _ = c.Resolve(id, 1, 10, gid, 0)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = c.Resolve(id, 1, 10, gid, 0)
		}
	})
}
