// Package plasma renders the classic "plasma" effect into RGB565 buffers.
//
// The renderer is integer-only per pixel. Four phase accumulators in signed
// fixed point (value × 2^F) are fed directly into a sine table: shifting an
// accumulator right by F−A bits yields the table index, so no conversion from
// radians happens in the hot loop. The summed field is clamped and reduced to a
// palette index selecting one of 2^P precomputed colors.
//
// Tables are built once by New and never mutated, so one Engine can serve any
// number of goroutines. Each Render call writes only the pixels of its Target.
package plasma
