// SPDX-License-Identifier: MIT
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"firfilt/internal/fir"
	"firfilt/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"golang.org/x/sync/errgroup"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// cancelCheckFrames is how often a channel worker polls for cancellation.
const cancelCheckFrames = 4096

var (
	ErrInvalidWAV     = errors.New("not a valid WAV file")
	ErrUnsupportedWAV = errors.New("unsupported WAV encoding")
)

// WAVStats describes a filtered WAV file.
type WAVStats struct {
	SampleRate int
	BitDepth   int
	Channels   int
	Frames     int
	Clipped    int // Output samples limited to the integer range
}

// WAV filters every channel of the PCM WAV read from src with its own filter
// built from spec and writes the result to dst at the same rate, depth and
// channel count. When the file's sample rate differs from spec.SampleRate,
// the file's rate is used and the design is re-validated against it.
func WAV(ctx context.Context, src io.ReadSeeker, dst io.WriteSeeker, spec fir.Spec) (WAVStats, error) {
	decoder := wav.NewDecoder(src)
	if !decoder.IsValidFile() {
		return WAVStats{}, ErrInvalidWAV
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return WAVStats{}, fmt.Errorf("%w: format tag %d", ErrUnsupportedWAV, decoder.WavAudioFormat)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return WAVStats{}, fmt.Errorf("failed to decode WAV: %w", err)
	}

	stats := WAVStats{
		SampleRate: int(decoder.SampleRate),
		BitDepth:   int(decoder.BitDepth),
		Channels:   int(decoder.NumChans),
	}
	switch stats.BitDepth {
	case 16, 24, 32:
	default:
		return stats, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedWAV, stats.BitDepth)
	}
	if stats.Channels <= 0 {
		return stats, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}
	stats.Frames = len(pcm.Data) / stats.Channels

	if float64(stats.SampleRate) != spec.SampleRate {
		log.Warnf("stream: WAV sample rate %d Hz overrides configured %g Hz", stats.SampleRate, spec.SampleRate)
		spec.SampleRate = float64(stats.SampleRate)
	}

	// Design every filter up front so a bad spec fails before any work starts.
	filters := make([]*fir.Filter, stats.Channels)
	for ch := range filters {
		if filters[ch], err = fir.NewFromSpec(spec); err != nil {
			return stats, err
		}
	}

	out := make([]int, stats.Frames*stats.Channels)
	clipped := make([]int, stats.Channels)
	fullScale := float64(int64(1) << (stats.BitDepth - 1))

	g, gctx := errgroup.WithContext(ctx)
	for ch, f := range filters {
		ch, f := ch, f
		g.Go(func() error {
			for frame := 0; frame < stats.Frames; frame++ {
				if frame%cancelCheckFrames == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				i := frame*stats.Channels + ch
				y := f.Process(float64(pcm.Data[i]) / fullScale)
				var c bool
				out[i], c = quantize(y, fullScale)
				if c {
					clipped[ch]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	for _, c := range clipped {
		stats.Clipped += c
	}
	if stats.Clipped > 0 {
		log.Warnf("stream: clipped %d output samples", stats.Clipped)
	}

	encoder := wav.NewEncoder(dst, stats.SampleRate, stats.BitDepth, stats.Channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: stats.Channels,
			SampleRate:  stats.SampleRate,
		},
		Data:           out,
		SourceBitDepth: stats.BitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return stats, fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return stats, fmt.Errorf("failed to finalize WAV: %w", err)
	}

	log.Debugf("stream: filtered %d frames x %d channels", stats.Frames, stats.Channels)

	return stats, nil
}

// WAVFile is WAV reading from inPath and writing to outPath.
func WAVFile(ctx context.Context, inPath, outPath string, spec fir.Spec) (WAVStats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return WAVStats{}, err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return WAVStats{}, err
	}

	stats, err := WAV(ctx, in, out, spec)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return stats, err
}

// quantize scales y back to integer PCM, limiting it to the signed range of
// the bit depth. The second result reports whether limiting occurred.
func quantize(y, fullScale float64) (int, bool) {
	v := math.Round(y * fullScale)
	switch {
	case v > fullScale-1:
		return int(fullScale - 1), true
	case v < -fullScale:
		return int(-fullScale), true
	case math.IsNaN(v):
		return 0, true
	}
	return int(v), false
}
