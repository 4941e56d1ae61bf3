// Package host runs the cutdrive processor outside a plugin host: WAV file
// I/O, offline rendering, test signal sources and live output.
package host

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat is returned for WAV files that are not 16, 24 or 32
// bit integer PCM.
var ErrUnsupportedFormat = errors.New("host: unsupported WAV format")

const (
	wavFormatPCM = 1
	readFrames   = 4096
)

// Clip is decoded audio in planar float64, full scale ±1.
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NewClip allocates a silent clip.
func NewClip(sampleRate, bitDepth, channels, frames int) *Clip {
	c := &Clip{SampleRate: sampleRate, BitDepth: bitDepth, Channels: make([][]float64, channels)}
	for ch := range c.Channels {
		c.Channels[ch] = make([]float64, frames)
	}

	return c
}

// Frames returns the per-channel length.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}

	return len(c.Channels[0])
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Exp2(float64(bitDepth-1)) - 1, nil
	default:
		return 0, fmt.Errorf("%w: %d-bit", ErrUnsupportedFormat, bitDepth)
	}
}

// ReadWAV decodes an integer PCM WAV stream.
func ReadWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrUnsupportedFormat)
	}

	dec.ReadInfo()

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)

	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	format := dec.Format()
	channels := format.NumChannels

	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	clip := &Clip{SampleRate: format.SampleRate, BitDepth: bitDepth, Channels: make([][]float64, channels)}
	buf := &audio.IntBuffer{Format: format, Data: make([]int, readFrames*channels)}

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("host: read PCM: %w", err)
		}

		if n == 0 {
			break
		}

		for i, v := range buf.Data[:n] {
			ch := i % channels
			clip.Channels[ch] = append(clip.Channels[ch], float64(v)/scale)
		}
	}

	return clip, nil
}

// ReadWAVFile decodes the WAV file at path.
func ReadWAVFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("host: open input: %w", err)
	}
	defer f.Close()

	clip, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return clip, nil
}

// WriteWAV encodes clip as integer PCM at clip.BitDepth. Samples beyond full
// scale are clipped.
func WriteWAV(w io.WriteSeeker, clip *Clip) error {
	scale, err := fullScale(clip.BitDepth)
	if err != nil {
		return err
	}

	channels := len(clip.Channels)
	if channels < 1 {
		return fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}

	enc := wav.NewEncoder(w, clip.SampleRate, clip.BitDepth, channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: clip.SampleRate},
		Data:           make([]int, 0, readFrames*channels),
		SourceBitDepth: clip.BitDepth,
	}

	frames := clip.Frames()
	for off := 0; off < frames; off += readFrames {
		end := min(off+readFrames, frames)

		buf.Data = buf.Data[:0]
		for i := off; i < end; i++ {
			for ch := range channels {
				x := max(-1, min(1, clip.Channels[ch][i]))
				buf.Data = append(buf.Data, int(math.Round(x*scale)))
			}
		}

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("host: write PCM: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("host: finish WAV: %w", err)
	}

	return nil
}

// WriteWAVFile encodes clip into a new file at path.
func WriteWAVFile(path string, clip *Clip) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("host: create output: %w", err)
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return WriteWAV(f, clip)
}
