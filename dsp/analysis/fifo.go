package analysis

import (
	"fmt"
	"sync/atomic"
)

// Fifo is a bounded single-producer/single-consumer queue of sample blocks.
//
// Storage is allocated once by [NewFifo]. Push and Pull copy, so neither side
// ever holds a reference into the other's buffers. Exactly one goroutine may
// push and exactly one may pull.
type Fifo struct {
	slots     [][]float64
	lens      []int
	blockSize int

	head    atomic.Uint64 // next slot to write, producer-owned
	tail    atomic.Uint64 // next slot to read, consumer-owned
	dropped atomic.Uint64
}

// NewFifo allocates a fifo holding up to blocks blocks of blockSize samples.
func NewFifo(blocks, blockSize int) (*Fifo, error) {
	if blocks < 1 {
		return nil, fmt.Errorf("analysis: fifo needs at least one block: %d", blocks)
	}

	if blockSize < 1 {
		return nil, fmt.Errorf("analysis: fifo block size must be positive: %d", blockSize)
	}

	f := &Fifo{
		slots:     make([][]float64, blocks),
		lens:      make([]int, blocks),
		blockSize: blockSize,
	}
	for i := range f.slots {
		f.slots[i] = make([]float64, blockSize)
	}

	return f, nil
}

// Push copies block into the next free slot. Samples beyond BlockSize are
// ignored. When the fifo is full the block is dropped, the drop counter is
// incremented and Push returns false. It never waits.
func (f *Fifo) Push(block []float64) bool {
	head := f.head.Load()
	if head-f.tail.Load() >= uint64(len(f.slots)) {
		f.dropped.Add(1)
		return false
	}

	i := head % uint64(len(f.slots))
	f.lens[i] = copy(f.slots[i], block)
	f.head.Store(head + 1)

	return true
}

// Pull copies the oldest block into dst and reports its length. ok is false
// when the fifo is empty. If dst is shorter than the block the tail of the
// block is lost.
func (f *Fifo) Pull(dst []float64) (n int, ok bool) {
	tail := f.tail.Load()
	if tail == f.head.Load() {
		return 0, false
	}

	i := tail % uint64(len(f.slots))
	n = copy(dst, f.slots[i][:f.lens[i]])
	f.tail.Store(tail + 1)

	return n, true
}

// Len returns the number of blocks waiting to be pulled.
func (f *Fifo) Len() int {
	return int(f.head.Load() - f.tail.Load())
}

// Cap returns the block capacity.
func (f *Fifo) Cap() int { return len(f.slots) }

// BlockSize returns the per-block sample capacity.
func (f *Fifo) BlockSize() int { return f.blockSize }

// Dropped returns how many blocks Push has discarded.
func (f *Fifo) Dropped() uint64 { return f.dropped.Load() }

// Reset empties the fifo and clears the drop counter. It must not race with
// Push or Pull.
func (f *Fifo) Reset() {
	f.head.Store(0)
	f.tail.Store(0)
	f.dropped.Store(0)
}
