// Package software provides a pure-Go glyphfield backend.
//
// The backend parses fonts with golang.org/x/image/font/sfnt (default) or
// github.com/go-text/typesetting, converts glyph outlines to em-normalized
// shapes and rasterizes SDF, PSDF, MSDF and MTSDF fields on the CPU.
//
// Importing the package registers it under backend.NameSoftware:
//
//	import _ "github.com/gogpu/glyphfield/backend/software"
//
// Font files are read from an afero.Fs staging area, in memory by default.
// Backend memory is a set of separately allocated blocks addressed by
// 8-aligned offsets that are never reused.
package software
