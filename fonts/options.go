package fonts

// LoadOption configures Registry.Load.
type LoadOption func(*loadConfig)

// loadConfig holds configuration for loading a font.
type loadConfig struct {
	parserName string
	name       string
}

// defaultLoadConfig returns the default load configuration.
func defaultLoadConfig() loadConfig {
	return loadConfig{
		parserName: defaultParserName,
	}
}

// WithParser selects the font parser backend by name.
// The default is "sfnt" (golang.org/x/image/font/sfnt); "gotext" uses
// github.com/go-text/typesetting.
func WithParser(name string) LoadOption {
	return func(c *loadConfig) {
		c.parserName = name
	}
}

// WithName overrides the font name reported by the parser.
func WithName(name string) LoadOption {
	return func(c *loadConfig) {
		c.name = name
	}
}
