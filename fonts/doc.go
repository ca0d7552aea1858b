// Package fonts is the font-metrics service used by text placement and
// measurement.
//
// A [Font] is an immutable table: units per em, a character map and per
// glyph outline bounds plus advance width, all in font units. Fonts are
// registered in a [Registry] and addressed by [FontID]:
//
//	reg := fonts.NewRegistry()
//	id, err := reg.Load(goregular.TTF)                               // sfnt backend
//	id2, err := reg.Load(data, fonts.WithParser("gotext"))          // go-text backend
//	mono := reg.Add(fonts.NewMonospace())                           // synthetic font
//
// Parsing backends are pluggable through [RegisterParser].
package fonts
