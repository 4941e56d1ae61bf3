package host

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

const bytesPerFloat32 = 4

// Interleaver converts between planar float64 and interleaved little-endian
// float32 bytes, the layout oto's FormatFloat32LE expects. Its scratch is
// sized once, so conversions of up to maxFrames frames never allocate.
type Interleaver struct {
	channels int
	scratch  []float64
}

// NewInterleaver allocates scratch for maxFrames frames of channels channels.
func NewInterleaver(channels, maxFrames int) (*Interleaver, error) {
	if channels < 1 || maxFrames < 1 {
		return nil, fmt.Errorf("host: interleaver needs positive channels and frames: %d, %d",
			channels, maxFrames)
	}

	return &Interleaver{channels: channels, scratch: make([]float64, channels*maxFrames)}, nil
}

// Channels returns the channel count.
func (il *Interleaver) Channels() int { return il.channels }

// FrameBytes returns the size of one interleaved frame.
func (il *Interleaver) FrameBytes() int { return il.channels * bytesPerFloat32 }

// Interleave writes frames frames of planar into dst and returns the bytes
// written. frames is limited by dst, the scratch size and every channel's
// length.
func (il *Interleaver) Interleave(dst []byte, planar [][]float64, frames int) int {
	frames = il.limit(frames, len(dst)/il.FrameBytes(), planar)
	if frames == 0 {
		return 0
	}

	samples := il.scratch[:frames*il.channels]

	if il.channels == 2 {
		f64.Interleave2(samples, planar[0][:frames], planar[1][:frames])
	} else {
		for ch := range il.channels {
			src := planar[ch][:frames]
			for i, x := range src {
				samples[i*il.channels+ch] = x
			}
		}
	}

	for i, x := range samples {
		binary.LittleEndian.PutUint32(dst[i*bytesPerFloat32:], math.Float32bits(float32(x)))
	}

	return len(samples) * bytesPerFloat32
}

// Deinterleave reads frames from src into planar and returns the frame count.
func (il *Interleaver) Deinterleave(planar [][]float64, src []byte) int {
	frames := il.limit(len(src)/il.FrameBytes(), len(src)/il.FrameBytes(), planar)

	for i := range frames * il.channels {
		bits := binary.LittleEndian.Uint32(src[i*bytesPerFloat32:])
		planar[i%il.channels][i/il.channels] = float64(math.Float32frombits(bits))
	}

	return frames
}

func (il *Interleaver) limit(frames, fit int, planar [][]float64) int {
	if len(planar) < il.channels {
		return 0
	}

	frames = min(frames, fit, len(il.scratch)/il.channels)
	for ch := range il.channels {
		frames = min(frames, len(planar[ch]))
	}

	return max(frames, 0)
}
