package host

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-cutdrive/plugin"
	timestats "github.com/cwbudde/algo-cutdrive/stats/time"
)

// Progress is called after every rendered block with the frames done so far.
type Progress func(done, total int)

// RenderResult summarises an offline render per channel.
type RenderResult struct {
	Frames int
	Input  []timestats.Stats
	Output []timestats.Stats
}

// Render runs every frame of clip through proc in place, blockSize frames at
// a time. proc must already be prepared for clip's sample rate and channel
// count. ctx is checked between blocks.
func Render(ctx context.Context, proc *plugin.Processor, clip *Clip, blockSize int, progress Progress) (*RenderResult, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("host: block size must be positive: %d", blockSize)
	}

	channels := len(clip.Channels)
	if channels != proc.Channels() {
		return nil, fmt.Errorf("%w: clip has %d channels, processor %d",
			plugin.ErrChannelCount, channels, proc.Channels())
	}

	in := make([]*timestats.StreamingStats, channels)
	out := make([]*timestats.StreamingStats, channels)

	for ch := range channels {
		in[ch] = timestats.NewStreamingStats()
		out[ch] = timestats.NewStreamingStats()
	}

	total := clip.Frames()
	block := make([][]float64, channels)

	for off := 0; off < total; off += blockSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("host: render cancelled at frame %d: %w", off, err)
		}

		end := min(off+blockSize, total)
		for ch := range channels {
			block[ch] = clip.Channels[ch][off:end]
			in[ch].Update(block[ch])
		}

		if err := proc.ProcessBlock(block); err != nil {
			return nil, fmt.Errorf("host: render: %w", err)
		}

		for ch := range channels {
			out[ch].Update(block[ch])
		}

		if progress != nil {
			progress(end, total)
		}
	}

	res := &RenderResult{Frames: total}
	for ch := range channels {
		res.Input = append(res.Input, in[ch].Result())
		res.Output = append(res.Output, out[ch].Result())
	}

	return res, nil
}
