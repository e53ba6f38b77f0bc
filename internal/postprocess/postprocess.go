// Package postprocess implements the screen-space passes that run after
// rasterization and before the frame is written: rim-light, screen-space
// ambient occlusion with a bilateral smoothing pass, MSAA resolve
// (delegated to internal/gbuffer), and bloom.
package postprocess

// epsilon is the shared tolerance for "is this sample background"
// comparisons (depth >= 1-epsilon) across the post-process passes.
const epsilon = 1e-5
