// Package design provides second-order IIR coefficient designers in the
// RBJ audio-EQ-cookbook form. Higher-order cascades built from these
// sections live in design/pass.
package design
