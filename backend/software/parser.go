package software

import (
	"slices"
	"sync"

	"github.com/gogpu/glyphfield/internal/field"
)

// FontParser is an interface for font parsing implementations.
// This abstraction allows swapping the font parsing library
// (golang.org/x/image/font/sfnt vs github.com/go-text/typesetting).
type FontParser interface {
	// Parse parses font data (TTF or OTF) and returns a ParsedFont.
	Parse(data []byte) (ParsedFont, error)
}

// ParsedFont represents a parsed font file.
// Implementations must be safe for concurrent use.
type ParsedFont interface {
	// UnitsPerEm returns the units per em for the font.
	UnitsPerEm() int

	// Glyph returns the outline of the glyph mapped to r in em-normalized,
	// y-up coordinates together with its advance width. It reports false
	// if the font has no glyph for r.
	Glyph(r rune) (shape *field.Shape, advance float64, ok bool)
}

// Parser names.
const (
	// ParserSFNT parses fonts with golang.org/x/image/font/sfnt.
	ParserSFNT = "sfnt"

	// ParserGoText parses fonts with github.com/go-text/typesetting.
	ParserGoText = "gotext"
)

// defaultParserName is the name of the default parser.
const defaultParserName = ParserSFNT

// parserRegistry holds registered font parsers.
var (
	parserMu       sync.RWMutex
	parserRegistry = map[string]FontParser{
		ParserSFNT:   sfntParser{},
		ParserGoText: gotextParser{},
	}
)

// RegisterParser registers a custom font parser.
// This allows users to provide their own parsing implementation.
func RegisterParser(name string, parser FontParser) {
	parserMu.Lock()
	defer parserMu.Unlock()
	parserRegistry[name] = parser
}

// Parsers returns the sorted names of registered parsers.
func Parsers() []string {
	parserMu.RLock()
	defer parserMu.RUnlock()
	names := make([]string, 0, len(parserRegistry))
	for name := range parserRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// getParser returns the parser by name, or the default if not found.
func getParser(name string) FontParser {
	parserMu.RLock()
	defer parserMu.RUnlock()
	if p, ok := parserRegistry[name]; ok {
		return p
	}
	return parserRegistry[defaultParserName]
}
