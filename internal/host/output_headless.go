//go:build headless

package host

import (
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Output drains its reader at the real-time rate without a device, so the
// analyzer and meters still move in builds without audio support.
type Output struct {
	r          io.Reader
	buffer     time.Duration
	chunkBytes int

	once      sync.Once
	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
	err       atomic.Pointer[error]
}

// OpenOutput returns a paused stub output reading r.
func OpenOutput(sampleRate, channels int, buffer time.Duration, r io.Reader) (*Output, error) {
	if buffer <= 0 {
		buffer = 20 * time.Millisecond
	}

	frames := max(1, int(float64(sampleRate)*buffer.Seconds()))

	return &Output{
		r:          r,
		buffer:     buffer,
		chunkBytes: frames * channels * bytesPerFloat32,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

// Start begins draining.
func (o *Output) Start() {
	o.once.Do(func() { go o.run() })
}

func (o *Output) run() {
	defer close(o.done)

	buf := make([]byte, o.chunkBytes)
	ticker := time.NewTicker(o.buffer)
	defer ticker.Stop()

	for {
		select {
		case <-o.stop:
			return
		case <-ticker.C:
			if _, err := o.r.Read(buf); err != nil {
				o.err.Store(&err)
				return
			}
		}
	}
}

// Err reports a read error, if any.
func (o *Output) Err() error {
	if e := o.err.Load(); e != nil {
		return *e
	}

	return nil
}

// Close stops draining.
func (o *Output) Close() error {
	o.closeOnce.Do(func() {
		// Never started: mark the drain loop as finished.
		o.once.Do(func() { close(o.done) })
		close(o.stop)
		<-o.done
	})

	return nil
}

// Headless reports whether output is a stub.
func (o *Output) Headless() bool { return true }
