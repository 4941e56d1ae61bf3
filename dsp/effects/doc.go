// Package effects provides the memoryless drive stage used after the cut
// filters.
//
// [Distortion] scales the input by a drive factor, runs it through a
// saturating [Shape] (tanh by default), blends the result with the dry
// input and applies a post gain in dB:
//
//	y = (shape(x*drive)*mix + x*(1-mix)) * 10^(postGainDB/20)
//
// The hot path does not allocate. Build with -tags fastmath to trade tanh
// precision for speed.
package effects
