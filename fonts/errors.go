package fonts

import (
	"errors"
	"fmt"
)

// Sentinel errors for fonts package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("fonts: empty font data")

	// ErrFontNotLoaded is returned when a font id has no loaded font.
	ErrFontNotLoaded = errors.New("fonts: font not loaded")

	// ErrUnknownParser is returned when a parser name is not registered.
	ErrUnknownParser = errors.New("fonts: unknown parser")
)

// FontNotLoadedError reports a lookup of a font id that was never loaded.
// It matches ErrFontNotLoaded with errors.Is.
type FontNotLoadedError struct {
	ID FontID
}

func (e *FontNotLoadedError) Error() string {
	return fmt.Sprintf("fonts: font %d not loaded", e.ID)
}

// Is reports whether target is ErrFontNotLoaded.
func (e *FontNotLoadedError) Is(target error) bool {
	return target == ErrFontNotLoaded
}
