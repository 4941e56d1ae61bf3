// Package biquad provides the second-order IIR runtime used by the cut
// filters: coefficient sets, Direct Form II Transposed processing and
// frequency-response evaluation.
//
// Coefficient design lives in dsp/filter/design/pass and dsp/filter/cut.
package biquad
