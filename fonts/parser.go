package fonts

import (
	"fmt"
	"sync"
)

// Parser is a font parsing backend producing a metrics table.
type Parser interface {
	// Parse parses font data (TTF or OTF).
	Parse(data []byte) (*Font, error)
}

// maxCharCode bounds the character map built by the parsers.
// Characters at or above it are left unmapped.
const maxCharCode = 0x10000

// unknownFontName is used when a font carries no name.
const unknownFontName = "Unknown Font"

// defaultParserName is the name of the default parser.
const defaultParserName = "sfnt"

var (
	parserMu       sync.RWMutex
	parserRegistry = map[string]Parser{
		"sfnt":   &sfntParser{},
		"gotext": &gotextParser{},
	}
)

// RegisterParser registers a custom font parser under name.
func RegisterParser(name string, parser Parser) {
	parserMu.Lock()
	defer parserMu.Unlock()
	parserRegistry[name] = parser
}

// getParser returns the parser registered under name.
func getParser(name string) (Parser, error) {
	parserMu.RLock()
	defer parserMu.RUnlock()
	p, ok := parserRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
	return p, nil
}
