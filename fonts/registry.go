package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/gogpu/glyphs"
)

// Source resolves font ids to metric tables.
type Source interface {
	Font(id FontID) (*Font, error)
}

// Registry is the font-metrics service: it owns loaded fonts and serves
// them by FontID. Fonts are never unloaded.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	fonts []*Font
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers an already built font and returns its id.
func (r *Registry) Add(f *Font) FontID {
	r.mu.Lock()
	id := FontID(len(r.fonts))
	r.fonts = append(r.fonts, f)
	r.mu.Unlock()

	glyphs.Logger().Info("fonts: registered", "id", int(id), "name", f.Name, "glyphs", f.NumGlyphs())
	return id
}

// Load parses font data (TTF or OTF) and registers it.
// The data slice is not retained by the default parsers beyond parsing,
// except for outlines which keep a reference to it.
func (r *Registry) Load(data []byte, opts ...LoadOption) (FontID, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFontData
	}

	config := defaultLoadConfig()
	for _, opt := range opts {
		opt(&config)
	}

	parser, err := getParser(config.parserName)
	if err != nil {
		return 0, err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	f, err := parser.Parse(dataCopy)
	if err != nil {
		return 0, err
	}
	if config.name != "" {
		f.Name = config.name
	}
	return r.Add(f), nil
}

// LoadFile reads and registers a font file.
func (r *Registry) LoadFile(path string, opts ...LoadOption) (FontID, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("fonts: failed to read font file: %w", err)
	}
	return r.Load(data, opts...)
}

// Font returns the font for id. A missing font is a precondition
// violation reported as *FontNotLoadedError.
func (r *Registry) Font(id FontID) (*Font, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || int(id) >= len(r.fonts) || r.fonts[id] == nil {
		return nil, &FontNotLoadedError{ID: id}
	}
	return r.fonts[id], nil
}

// MustFont is like Font but panics when the font is missing.
func (r *Registry) MustFont(id FontID) *Font {
	f, err := r.Font(id)
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the number of registered fonts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fonts)
}
