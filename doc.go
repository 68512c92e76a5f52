// Package glyphfield renders single glyphs into distance fields for GPU
// text rendering.
//
// # Overview
//
// A distance field stores, per pixel, the distance to the glyph outline
// instead of coverage. Sampled with bilinear filtering and thresholded at
// 0.5 in a shader, it keeps edges sharp at any magnification. Four kinds
// are supported:
//
//   - SDF: one channel, true signed distance
//   - PSDF: one channel, pseudo-distance
//   - MSDF: three channels, median reconstructs sharp corners
//   - MTSDF: MSDF plus true distance in alpha
//
// # Quick Start
//
//	s, err := glyphfield.NewDefaultSession()
//	if err != nil {
//	    return err
//	}
//	defer s.Dispose()
//
//	if err := s.Initialize(); err != nil {
//	    return err
//	}
//	if err := s.LoadFont(goregular.TTF); err != nil {
//	    return err
//	}
//
//	res, err := s.Generate('A', glyphfield.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	if res == nil {
//	    // font has no glyph for 'A'
//	}
//
// # Architecture
//
// The package is the orchestration layer. Outline parsing, edge coloring
// and rasterization live behind the [backend.Backend] interface, which
// exposes handles for engines, fonts and shapes and raw pointers into
// backend memory. A [Session] owns one engine and at most one font and
// drives the backend through a fixed pipeline per glyph: load outline,
// normalize, color edges, query bounds, size the buffer, rasterize and
// copy the pixels out. Every resource acquired during [Session.Generate]
// is released before it returns.
//
// The pure-Go software backend registers itself as "software" and is the
// default.
//
// # Coordinates
//
// Bounds and advances are in em units with y growing upward. Pixel rows
// in [Result.Pixels] run bottom to top.
//
// # Logging
//
// glyphfield is silent by default. Use [SetLogger] to enable structured
// logging through log/slog.
package glyphfield
