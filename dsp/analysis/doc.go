// Package analysis carries processed audio from the real-time thread to a
// display context.
//
// The producer side ([Fifo.Push], [Level.Store], [RMSdB]) is safe to call from
// an audio callback: it never allocates, locks or blocks. Everything else
// ([Analyzer], [Waveform], the spectrum [Estimator] implementations) runs on the
// consumer side and may allocate during construction only.
package analysis
