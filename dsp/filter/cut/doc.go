// Package cut implements the low-cut and high-cut Butterworth filters: a
// coefficient factory that maps (cutoff, slope, sample rate) to cascaded
// biquad sections, and the per-channel runtime chains that run them.
//
// A [Chain] has four [Stage] slots. A slope of 12, 24, 36 or 48 dB/oct
// activates one to four of them; the remaining slots pass audio through.
// Stages hold their coefficients behind an atomic pointer and are updated
// by whole-object swaps, so a reader never sees a half-written section.
// Delay state survives coefficient changes.
//
// [MonoChain] strings a low-cut and a high-cut chain together for one
// channel. Every channel owns its own MonoChain.
package cut
