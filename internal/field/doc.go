// Package field implements glyph outline geometry and distance field
// rasterization.
//
// A Shape is a set of closed contours made of linear, quadratic and cubic
// Bezier edges in em-normalized, y-up coordinates. Shapes are built from
// path commands with Builder, prepared with Shape.Normalize, colored with
// one of the edge coloring strategies and then rasterized.
//
// # Edge Coloring
//
// Multi-channel fields keep sharp corners by assigning each edge a subset
// of the red, green and blue channels:
//
//   - ColorSimple switches colors at every corner
//   - ColorInkTrap treats short splines between long ones as minor corners
//   - ColorByDistance picks colors that keep same-colored splines apart
//
// All three are deterministic for a given shape and seed.
//
// # Rasterization
//
// Rasterize samples the shape at pixel centers and writes one to four
// float32 channels per pixel. Values are d/RangeEm + 0.5 and are not
// clamped; 0.5 is the outline, larger values are inside.
package field
