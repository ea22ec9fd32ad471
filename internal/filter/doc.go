// Package filter is the CPU implementation of the post-processing chain.
//
// Every effect is a Filter that reads a source frame and writes a bounded
// region of a destination frame of the same size:
//   - Anti-aliasing: SimpleAA, FXAA, MSAA, TAA, Combined
//   - Brightness scaling
//   - Directional image-space shadows
//   - Unsharp-mask sharpening
//
// Filters sample any pixel of the source, so a region can be processed
// without touching the rest of the frame. Effects that read neighbours copy
// the one-pixel frame border through unchanged.
//
// Backend runs the fixed chain (anti-aliasing, brightness, shadows,
// sharpening) with pooled ping-pong scratch frames. It mirrors the WGSL
// kernel in internal/gpu; the two are kept in step by the shared test
// properties, not by shared code.
package filter
